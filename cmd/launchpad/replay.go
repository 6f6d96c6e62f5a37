package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/launchpad-xyz/go-launchpad/eventsource"
)

// replay prints a campaign's journal timeline from a SQLite journal file.
func replay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	campaignID := fs.String("campaign", "demo", "campaign ID to replay")
	from := fs.Int("from", 0, "first version to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: launchpad replay <journal.db> [--campaign id] [--from version]")
	}

	store, err := eventsource.NewSQLiteStore(fs.Arg(0))
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.Read(context.Background(), *campaignID, *from)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("no events for campaign %q\n", *campaignID)
		return nil
	}

	fmt.Printf("=== %s: %d events ===\n", *campaignID, len(events))
	for _, e := range events {
		fmt.Printf("%4d  %s  %-36s %s\n",
			e.Version, e.CreatedAt.Format(time.RFC3339), e.Type, e.Data)
	}
	return nil
}
