package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/opt816/asm"
	"github.com/sarchlab/opt816/peep"
	"github.com/sarchlab/opt816/report"
	"github.com/tebeka/atexit"
)

type options struct {
	input   string
	output  string
	verbose bool
	stats   bool
	lint    bool
	disable []string
}

func ruleNames() []string {
	return peep.RuleNames()
}

func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level

	if strings.EqualFold(level, "trace") {
		lvl = report.LevelTrace
	} else if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w,
		&slog.HandlerOptions{Level: lvl})))

	return nil
}

// defaultOutput derives "<base>-opt<ext>" from the input path.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "-opt" + ext
}

// run optimizes one file and returns the process exit code.
func run(opts options, stdout, stderr io.Writer) int {
	if err := peep.CheckRuleNames(opts.disable...); err != nil {
		fmt.Fprintf(stderr, "opt816: %v\n", err)
		return 2
	}

	prog, err := asm.LoadProgramFile(opts.input)
	if err != nil {
		fmt.Fprintf(stderr, "opt816: %v\n", err)
		return 1
	}

	if opts.lint {
		report.WriteIssues(stderr, opts.input, asm.Lint(prog))
	}

	stats := report.NewStats()
	optimizer := peep.MakeBuilder().
		WithoutRules(opts.disable...).
		WithHook(report.NewTraceHook(nil)).
		WithHook(stats).
		Build()

	report.Trace("Optimize", "input", opts.input, "lines", len(prog))

	res, err := optimizer.Optimize(prog)
	if err != nil {
		fmt.Fprintf(stderr, "opt816: %s: %v\n", opts.input, err)
		return 1
	}

	out := opts.output
	if out == "" {
		out = defaultOutput(opts.input)
	}

	if err := writeFile(out, res.Program); err != nil {
		fmt.Fprintf(stderr, "opt816: %v\n", err)
		return 1
	}

	slog.Info("Optimized", "input", opts.input, "output", out,
		"passes", len(res.Passes), "optimizations", res.Total,
		"lines", len(res.Program))

	if opts.verbose {
		report.WriteVerbose(stdout, stderr, res)
	}

	if opts.stats {
		report.WriteSummary(stdout, stats)
	}

	return 0
}

// writeFile writes prog next to path and renames it into place, so a failed
// run never leaves a partial listing behind.
func writeFile(path string, prog asm.Program) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".opt816-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	atexit.Register(func() { os.Remove(tmp.Name()) })

	if err := asm.WriteProgram(tmp, prog); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
