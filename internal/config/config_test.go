package config

import "testing"

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	cfg := Default()
	cases := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"ChunkSize", cfg.ChunkSize, 65536},
		{"VeryShortStringLength", cfg.VeryShortStringLength, 3},
		{"MediumStringLength", cfg.MediumStringLength, 256},
		{"ShortRHTPow", cfg.ShortRHTPow, uint(23)},
		{"LongRHTPow", cfg.LongRHTPow, uint(26)},
		{"InssortCutoff", cfg.InssortCutoff, 55},
		{"PrefetchDistance", cfg.PrefetchDistance, 40},
		{"UseHugepages", cfg.UseHugepages, true},
		{"StrictEquality", cfg.StrictEquality, false},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.ChunkSize = 1
	b := Default()
	if b.ChunkSize == 1 {
		t.Error("mutating one Default() result affected another")
	}
}
