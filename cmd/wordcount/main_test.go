package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunPrintsCountsInTextFormat(t *testing.T) {
	path := writeTempFile(t, "a a b")
	var out, errOut bytes.Buffer

	code := run(&out, &errOut, []string{path})
	if code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, errOut.String())
	}
	want := "       2  a\n       1  b\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

func TestRunTSVFormat(t *testing.T) {
	path := writeTempFile(t, "a a b")
	var out, errOut bytes.Buffer

	code := run(&out, &errOut, []string{"--format", "tsv", path})
	if code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, errOut.String())
	}
	want := "2\ta\n1\tb\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

func TestRunTopLimitsOutput(t *testing.T) {
	path := writeTempFile(t, "a a a b b c")
	var out, errOut bytes.Buffer

	code := run(&out, &errOut, []string{"--top", "1", path})
	if code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, errOut.String())
	}
	if strings.Count(out.String(), "\n") != 1 {
		t.Errorf("stdout = %q, want exactly one line", out.String())
	}
	if !strings.Contains(out.String(), "a") {
		t.Errorf("stdout = %q, want the top entry to be present", out.String())
	}
}

func TestRunMissingPathFailsWithUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(&out, &errOut, []string{})
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "missing file path") {
		t.Errorf("stderr = %q, want a missing-path message", errOut.String())
	}
}

func TestRunUnknownFormatRejected(t *testing.T) {
	path := writeTempFile(t, "a")
	var out, errOut bytes.Buffer
	code := run(&out, &errOut, []string{"--format", "xml", path})
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "--format") {
		t.Errorf("stderr = %q, want a format error", errOut.String())
	}
}

func TestRunNegativeTopRejected(t *testing.T) {
	path := writeTempFile(t, "a")
	var out, errOut bytes.Buffer
	code := run(&out, &errOut, []string{"--top", "-1", path})
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
}

func TestRunHelpPrintsUsageAndExitsZero(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(&out, &errOut, []string{"--help"})
	if code != 0 {
		t.Errorf("code = %d, want 0", code)
	}
	if !strings.Contains(out.String(), "usage:") {
		t.Errorf("stdout = %q, want usage text", out.String())
	}
}

func TestRunMissingFileReturnsOpenFailedExitCode(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(&out, &errOut, []string{filepath.Join(t.TempDir(), "does-not-exist")})
	if code != 1 {
		t.Errorf("code = %d, want 1 for a missing input file", code)
	}
	if errOut.Len() == 0 {
		t.Error("expected an error message on stderr")
	}
}

func TestRunUnknownFlagFails(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(&out, &errOut, []string{"--not-a-flag"})
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
}
