package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/launchpad-xyz/go-launchpad/eventlog"
	"github.com/launchpad-xyz/go-launchpad/eventsource"
)

// export writes a campaign's audit trail as CSV or JSONL.
func export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	campaignID := fs.String("campaign", "demo", "campaign ID to export")
	format := fs.String("format", "csv", "output format: csv or jsonl")
	output := fs.String("output", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: launchpad export <journal.db> [--campaign id] [--format csv|jsonl] [--output file]")
	}

	store, err := eventsource.NewSQLiteStore(fs.Arg(0))
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.Read(context.Background(), *campaignID, 0)
	if err != nil {
		return err
	}
	trail := eventlog.FromEvents(events)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "csv":
		err = trail.WriteCSV(out)
	case "jsonl":
		err = trail.WriteJSONL(out)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}

	s := trail.Summarize()
	fmt.Fprintf(os.Stderr, "exported %d entries for %d campaign(s)\n", s.Entries, s.Campaigns)
	return nil
}
