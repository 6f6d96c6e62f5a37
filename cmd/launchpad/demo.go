package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/launchpad-xyz/go-launchpad/asset"
	"github.com/launchpad-xyz/go-launchpad/campaign"
	"github.com/launchpad-xyz/go-launchpad/eventsource"
)

// demo runs a scripted campaign: two public funders, one private funder, a
// successful settlement and one vesting tranche.
func demo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	journalPath := fs.String("journal", "", "SQLite journal path (default: in-memory)")
	quiet := fs.Bool("quiet", false, "suppress engine logs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if *quiet {
		log = zerolog.Nop()
	}

	var journal eventsource.Store = eventsource.NewMemoryStore()
	if *journalPath != "" {
		store, err := eventsource.NewSQLiteStore(*journalPath)
		if err != nil {
			return err
		}
		defer store.Close()
		journal = store
	}

	book := asset.NewBook()
	for _, funder := range []string{"alice", "bob", "carol"} {
		if err := book.Mint("USDC", funder, 1_000_000); err != nil {
			return err
		}
	}

	registry := asset.NewMetadataRegistry()
	svc, err := campaign.NewService(campaign.Config{
		ID:              "demo",
		Authority:       "admin",
		BaseAsset:       "LPT",
		QuoteAsset:      "USDC",
		MinimumRaise:    500_000,
		InvestorTokens:  1_000_000_000,
		PerformancePool: 100_000_000,
		MonthlySpend:    50_000,
		UnlockDelay:     time.Millisecond,
		Metadata:        asset.Metadata{Name: "Launch Token", Symbol: "LPT", URI: "ipfs://demo"},
	}, book,
		campaign.WithLogger(log),
		campaign.WithJournal(journal),
		campaign.WithMetadataRegistry(registry),
	)
	if err != nil {
		return err
	}

	if err := svc.ConfigurePackage("admin", 0, 2, 100_000_000); err != nil {
		return err
	}
	if err := svc.Start("admin"); err != nil {
		return err
	}
	if err := svc.Fund("alice", 600_000); err != nil {
		return err
	}
	if err := svc.Fund("bob", 400_000); err != nil {
		return err
	}

	if err := svc.OpenPrivateRound("admin"); err != nil {
		return err
	}
	var salt [32]byte
	copy(salt[:], "demo-salt")
	leaf, err := svc.FundPrivate("carol", 250_000, salt)
	if err != nil {
		return err
	}
	if err := svc.EndPrivateRound("admin"); err != nil {
		return err
	}
	if err := svc.FinalizePrivateRound("admin", svc.PrivateRoot(), 250_000); err != nil {
		return err
	}

	if err := svc.Complete("admin", 1_000_000, "liquidity.quote", "liquidity.base"); err != nil {
		return err
	}

	for _, funder := range []string{"alice", "bob"} {
		paid, err := svc.Claim(funder)
		if err != nil {
			return err
		}
		fmt.Printf("%-8s claimed %d LPT\n", funder, paid)
	}
	root := svc.PrivateRoot()
	fmt.Printf("%-8s committed privately: leaf %x..., root %x..., aggregate %d USDC\n",
		"carol", leaf[:4], root[:4], svc.PrivateCommitted())

	st, _ := svc.Settlement()
	time.Sleep(2 * time.Millisecond)
	if err := svc.UnlockPackage("admin", 0, st.InitialPrice*2); err != nil {
		return err
	}
	if _, err := svc.ClaimPackage("admin", 0, "team"); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("=== Final balances ===")
	for _, account := range []string{"alice", "bob", "carol", "team", "liquidity.base"} {
		fmt.Printf("%-16s %12d LPT\n", account, book.Balance("LPT", account))
	}
	c := svc.Campaign()
	for _, account := range []string{c.Treasury, "liquidity.quote"} {
		fmt.Printf("%-16s %12d USDC\n", account, book.Balance("USDC", account))
	}
	fmt.Printf("\nfinal raise %d, initial price %d (quote per 10^12 base)\n",
		st.FinalRaise, st.InitialPrice)
	return nil
}
