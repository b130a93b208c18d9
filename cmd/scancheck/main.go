// Command scancheck evaluates a YAML file of recorded scans against their
// records and prints the verdicts. It needs no database or extractor.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"seacrew/internal/bootstrap"
	"seacrew/internal/config"
	"seacrew/internal/scancheck"
)

func main() {
	rulesFile := flag.String("rules", "", "nationality rule table (defaults to the embedded table)")
	asOf := flag.String("as-of", "", "evaluate expiry as of this date (YYYY-MM-DD)")
	verbose := flag.Bool("v", false, "print corrections and reasoning")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: scancheck [flags] cases.yaml\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *rulesFile != "" {
		cfg.Verification.RulesFile = *rulesFile
	}
	engine, err := bootstrap.EngineAt(&cfg.Verification, parseAsOf(*asOf))
	if err != nil {
		log.Fatal(err)
	}

	cases, err := scancheck.LoadCases(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	outcomes := scancheck.Run(engine, cases)
	p := scancheck.NewPrinter(os.Stdout, *verbose, *noColor)
	for i := range outcomes {
		p.Print(&outcomes[i])
	}
	if !p.Summary(outcomes) {
		os.Exit(1)
	}
}

func parseAsOf(raw string) func() time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		log.Fatalf("invalid -as-of date %q: %v", raw, err)
	}
	return func() time.Time { return t }
}
