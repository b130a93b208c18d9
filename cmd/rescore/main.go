// Command rescore re-evaluates every active scan with the current rules and
// thresholds and reports the verdicts that would change. It does not write.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"seacrew/internal/bootstrap"
	"seacrew/internal/config"
	"seacrew/internal/service"
)

func main() {
	workers := flag.Int("workers", 4, "concurrent evaluations")
	all := flag.Bool("all", false, "print unchanged scans too")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()
	if *noColor {
		color.NoColor = true
	}

	if err := run(*workers, *all); err != nil {
		log.Fatal(err)
	}
}

func run(workers int, all bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Store.Driver == config.StoreDriverMemory {
		return fmt.Errorf("rescore needs a persistent store; the memory driver starts empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stores, err := bootstrap.OpenStores(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()

	engine, err := bootstrap.Engine(&cfg.Verification)
	if err != nil {
		return err
	}

	changed := color.New(color.FgYellow, color.Bold)
	failed := color.New(color.FgRed)
	same := color.New(color.FgGreen)

	rescorer := service.NewRescorer(stores.Records, stores.Crew, stores.Scans, engine, workers)
	summary, err := rescorer.Run(ctx, func(r service.RescoreResult) {
		switch {
		case r.Err != nil:
			failed.Printf("ERROR   scan %s document %s: %v\n", r.Attempt.ID, r.Attempt.DocumentID, r.Err)
		case r.Changed:
			changed.Printf("CHANGED scan %s document %s valid %t -> %t score %d -> %d\n",
				r.Attempt.ID, r.Attempt.DocumentID, r.PreviousValid, r.Current.IsValid, r.PreviousScore, r.Current.MatchScore)
		case all:
			same.Printf("SAME    scan %s document %s score %d\n", r.Attempt.ID, r.Attempt.DocumentID, r.Current.MatchScore)
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n%d active scans checked, %d changed, %d failed\n", summary.Checked, summary.Changed, summary.Failed)
	return nil
}
