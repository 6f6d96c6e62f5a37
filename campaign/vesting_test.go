package campaign_test

import (
	"errors"
	"testing"
	"time"

	"github.com/launchpad-xyz/go-launchpad/campaign"
)

const perfPool = 2_000_000_000_000

func newVestingFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, campaign.Config{
		PerformancePool: perfPool,
		UnlockDelay:     time.Minute,
	})
	f.fundQuote(t, "alice", 1_000_000)
	return f
}

func (f *fixture) complete(t *testing.T) {
	t.Helper()
	if err := f.svc.Start(admin); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Fund("alice", 1_000_000); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Complete(admin, 1_000_000, "liq.q", "liq.b"); err != nil {
		t.Fatal(err)
	}
}

func TestConfigurePackage(t *testing.T) {
	f := newVestingFixture(t)

	if err := f.svc.ConfigurePackage("mallory", 0, 2, 1); !errors.Is(err, campaign.ErrUnauthorized) {
		t.Errorf("stranger: err = %v", err)
	}
	if err := f.svc.ConfigurePackage(admin, 5, 2, 1); !errors.Is(err, campaign.ErrInvalidPackageIndex) {
		t.Errorf("index out of range: err = %v", err)
	}
	if err := f.svc.ConfigurePackage(admin, 0, 0, 1); !errors.Is(err, campaign.ErrInvalidPackageParams) {
		t.Errorf("zero multiplier: err = %v", err)
	}
	if err := f.svc.ConfigurePackage(admin, 0, 2, 0); !errors.Is(err, campaign.ErrInvalidPackageParams) {
		t.Errorf("zero allocation: err = %v", err)
	}

	if err := f.svc.ConfigurePackage(admin, 0, 2, 1_500_000_000_000); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ConfigurePackage(admin, 0, 3, 1); !errors.Is(err, campaign.ErrPackageConfigured) {
		t.Errorf("reconfigure: err = %v", err)
	}

	// 1.5e12 + 2e12 overruns the 2e12 pool.
	if err := f.svc.ConfigurePackage(admin, 1, 3, perfPool); !errors.Is(err, campaign.ErrPerformancePoolExceeded) {
		t.Errorf("pool overrun: err = %v", err)
	}
	if err := f.svc.ConfigurePackage(admin, 1, 3, 500_000_000_000); err != nil {
		t.Errorf("configure to pool boundary: %v", err)
	}

	// Tranches are fixed before the campaign goes live.
	if err := f.svc.Start(admin); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ConfigurePackage(admin, 2, 2, 1_000); !errors.Is(err, campaign.ErrInvalidState) {
		t.Errorf("configure while live: err = %v", err)
	}
	if err := f.svc.Fund("alice", 1_000_000); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Complete(admin, 1_000_000, "liq.q", "liq.b"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ConfigurePackage(admin, 2, 2, 1_000); !errors.Is(err, campaign.ErrInvalidState) {
		t.Errorf("configure after settlement: err = %v", err)
	}
}

func TestUnlockPackagePriceGate(t *testing.T) {
	f := newVestingFixture(t)
	if err := f.svc.ConfigurePackage(admin, 0, 3, 1_000_000_000_000); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.UnlockPackage(admin, 0, 1); !errors.Is(err, campaign.ErrInvalidState) {
		t.Errorf("unlock before settlement: err = %v", err)
	}
	f.complete(t)

	st, _ := f.svc.Settlement()
	target := st.InitialPrice * 3
	f.clock.Advance(time.Minute)

	if err := f.svc.UnlockPackage(admin, 1, target); !errors.Is(err, campaign.ErrPackageNotConfigured) {
		t.Errorf("unconfigured: err = %v", err)
	}
	if err := f.svc.UnlockPackage(admin, 0, target-1); !errors.Is(err, campaign.ErrPriceBelowTarget) {
		t.Errorf("price below target: err = %v", err)
	}
	if err := f.svc.UnlockPackage(admin, 0, target); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.UnlockPackage(admin, 0, target); !errors.Is(err, campaign.ErrPackageUnlocked) {
		t.Errorf("double unlock: err = %v", err)
	}
}

func TestUnlockPackageDelay(t *testing.T) {
	f := newVestingFixture(t)
	if err := f.svc.ConfigurePackage(admin, 0, 2, 1_000); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ConfigurePackage(admin, 1, 4, 1_000); err != nil {
		t.Fatal(err)
	}
	f.complete(t)

	st, _ := f.svc.Settlement()
	price := st.InitialPrice * 10

	// The first unlock must wait out the delay from settlement.
	if err := f.svc.UnlockPackage(admin, 0, price); !errors.Is(err, campaign.ErrUnlockTooEarly) {
		t.Errorf("unlock at settlement: err = %v", err)
	}
	f.clock.Advance(time.Minute)
	if err := f.svc.UnlockPackage(admin, 0, price); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.UnlockPackage(admin, 1, price); !errors.Is(err, campaign.ErrUnlockTooEarly) {
		t.Errorf("back-to-back unlock: err = %v", err)
	}
	f.clock.Advance(30 * time.Second)
	if err := f.svc.UnlockPackage(admin, 1, price); !errors.Is(err, campaign.ErrUnlockTooEarly) {
		t.Errorf("unlock inside delay: err = %v", err)
	}
	f.clock.Advance(30 * time.Second)
	if err := f.svc.UnlockPackage(admin, 1, price); err != nil {
		t.Errorf("unlock after delay: %v", err)
	}
}

func TestUnlockPackageOrdering(t *testing.T) {
	f := newVestingFixture(t)
	if err := f.svc.ConfigurePackage(admin, 0, 2, 1_000); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ConfigurePackage(admin, 1, 2, 1_000); err != nil {
		t.Fatal(err)
	}
	f.complete(t)

	st, _ := f.svc.Settlement()
	price := st.InitialPrice * 10
	f.clock.Advance(time.Minute)

	// Tranche 1 stays locked until tranche 0 has unlocked, price and delay
	// notwithstanding.
	if err := f.svc.UnlockPackage(admin, 1, price); !errors.Is(err, campaign.ErrPackageLocked) {
		t.Errorf("unlock out of order: err = %v", err)
	}
	pkg, err := f.svc.Package(1)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.Unlocked {
		t.Fatal("tranche 1 unlocked ahead of tranche 0")
	}

	if err := f.svc.UnlockPackage(admin, 0, price); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(time.Minute)
	if err := f.svc.UnlockPackage(admin, 1, price); err != nil {
		t.Errorf("unlock in order: %v", err)
	}
}

func TestClaimPackage(t *testing.T) {
	f := newVestingFixture(t)
	const allocation = 1_000_000_000_000
	if err := f.svc.ConfigurePackage(admin, 0, 2, allocation); err != nil {
		t.Fatal(err)
	}
	f.complete(t)

	if _, err := f.svc.ClaimPackage(admin, 0, "team"); !errors.Is(err, campaign.ErrPackageLocked) {
		t.Errorf("claim locked package: err = %v", err)
	}

	st, _ := f.svc.Settlement()
	f.clock.Advance(time.Minute)
	if err := f.svc.UnlockPackage(admin, 0, st.InitialPrice*2); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.ClaimPackage(admin, 0, "team")
	if err != nil {
		t.Fatal(err)
	}
	if got != allocation {
		t.Errorf("payout = %d, want %d", got, allocation)
	}
	if bal := f.book.Balance(baseAsset, "team"); bal != allocation {
		t.Errorf("team balance = %d", bal)
	}
	if _, err := f.svc.ClaimPackage(admin, 0, "team"); !errors.Is(err, campaign.ErrPackageClaimed) {
		t.Errorf("double claim: err = %v", err)
	}

	pkg, err := f.svc.Package(0)
	if err != nil {
		t.Fatal(err)
	}
	if !pkg.Configured || !pkg.Unlocked || !pkg.Claimed {
		t.Errorf("package = %+v", pkg)
	}
}
