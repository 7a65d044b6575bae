// Command wordcount runs the counting pipeline against a single file and
// prints the (token, count) pairs, sorted per the core library's ordering.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/krishrvh/wordcount-engine/internal/wcerr"
	"github.com/krishrvh/wordcount-engine/pkg/wordcount"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

func run(out, errOut io.Writer, args []string) int {
	opts, code := parseFlags(errOut, args)
	if code != 0 {
		return code
	}
	if opts.help {
		printHelp(out)
		return 0
	}
	if opts.path == "" {
		fprintln(errOut, "error: missing file path")
		printHelp(errOut)
		return 1
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	result, err := wordcount.Count(opts.path)
	if err != nil {
		fprintln(errOut, "error:", err)
		if wcErr, ok := err.(*wcerr.Error); ok {
			return wcErr.ExitCode
		}
		return 1
	}
	defer func() {
		if closeErr := result.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("wordcount: failed to release mapping")
		}
	}()

	render(out, result, opts)
	return 0
}

type options struct {
	path    string
	top     int
	format  string
	verbose bool
	help    bool
}

func parseFlags(errOut io.Writer, args []string) (options, int) {
	flagSet := flag.NewFlagSet("wordcount", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	top := flagSet.Int("top", 0, "Show only the top N entries (0 means all)")
	format := flagSet.String("format", "text", "Output format: text or tsv")
	verbose := flagSet.BoolP("verbose", "v", false, "Log recoverable conditions (hugepage fallback)")
	help := flagSet.BoolP("help", "h", false, "Show usage")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		return options{}, 1
	}

	if *format != "text" && *format != "tsv" {
		fprintln(errOut, "error: --format must be text or tsv")
		return options{}, 1
	}
	if *top < 0 {
		fprintln(errOut, "error: --top must be non-negative")
		return options{}, 1
	}

	o := options{top: *top, format: *format, verbose: *verbose, help: *help}
	if rest := flagSet.Args(); len(rest) > 0 {
		o.path = rest[0]
	}
	return o, 0
}

func printHelp(out io.Writer) {
	fprintln(out, "usage: wordcount [--top N] [--format text|tsv] [-v] <file>")
}

// render writes result's entries, already sorted by the core library
// (count descending, bytes ascending), truncated to opts.top if set.
func render(out io.Writer, result *wordcount.Result, opts options) {
	w := bufio.NewWriter(out)
	defer w.Flush()

	entries := result.Entries
	if opts.top > 0 && opts.top < len(entries) {
		entries = entries[:opts.top]
	}

	for _, e := range entries {
		token := result.Bytes(e)
		switch opts.format {
		case "tsv":
			fmt.Fprintf(w, "%d\t%s\n", e.Count, token)
		default:
			fmt.Fprintf(w, "%8d  %s\n", e.Count, token)
		}
	}
}

func fprintln(w io.Writer, a ...interface{}) {
	fmt.Fprintln(w, a...)
}
