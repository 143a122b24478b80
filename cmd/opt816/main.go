// Command opt816 runs the peephole optimizer over a tcc-65816 assembly
// listing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tebeka/atexit"
)

const usage = "opt816 [-o outfile] [-v] [-stats] [-disable rule,rule] [-log-level level] [-config file] [-lint] input.s"

var (
	outvar      string
	verbosevar  bool
	statsvar    bool
	disablevar  string
	loglevelvar string
	configvar   string
	lintvar     bool
)

func init() {
	flag.StringVar(&outvar, "o", "",
		"Output file; defaults to the input name with an -opt suffix")
	flag.StringVar(&outvar, "out", "", "Same as -o")
	flag.BoolVar(&verbosevar, "v", false,
		"Print per-pass counts, the optimized listing and the total")
	flag.BoolVar(&statsvar, "stats", false, "Print per-pass and per-rule tables")
	flag.StringVar(&disablevar, "disable", "",
		"Comma-separated rules to turn off: "+strings.Join(ruleNames(), ", "))
	flag.StringVar(&loglevelvar, "log-level", "warn",
		"Log level: trace, debug, info, warn or error")
	flag.StringVar(&configvar, "config", "",
		"YAML file with disable, log-level, stats and verbose settings")
	flag.BoolVar(&lintvar, "lint", false,
		"Report unclassified lines and undefined labels on stderr")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		atexit.Exit(2)
	}

	opts := options{
		input:   flag.Arg(0),
		output:  outvar,
		verbose: verbosevar,
		stats:   statsvar,
		lint:    lintvar,
		disable: splitList(disablevar),
	}
	logLevel := loglevelvar

	if configvar != "" {
		cfg, err := loadConfig(configvar)
		if err != nil {
			atexit.Fatalf("opt816: %v", err)
		}

		setFlags := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
		opts, logLevel = cfg.merge(opts, logLevel, setFlags)
	}

	if err := setupLogging(os.Stderr, logLevel); err != nil {
		atexit.Fatalf("opt816: %v", err)
	}

	atexit.Exit(run(opts, os.Stdout, os.Stderr))
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
