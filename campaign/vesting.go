package campaign

import (
	"fmt"

	"github.com/launchpad-xyz/go-launchpad/fixedpoint"
)

// ConfigurePackage defines one vesting tranche: a price multiplier over the
// settlement's initial price and a base token allocation drawn from the
// performance pool. Tranches are write-once and the sum of allocations may
// never exceed the pool.
func (s *Service) ConfigurePackage(caller string, index int, multiplier uint8, allocation uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State != Initialized {
		return fmt.Errorf("%w: configure package in %s", ErrInvalidState, s.c.State)
	}
	if index < 0 || index >= MaxPerformancePackages {
		return fmt.Errorf("%w: %d", ErrInvalidPackageIndex, index)
	}
	if multiplier == 0 || allocation == 0 {
		return ErrInvalidPackageParams
	}
	pkg := &s.c.Packages[index]
	if pkg.Configured {
		return fmt.Errorf("%w: index %d", ErrPackageConfigured, index)
	}

	configured, err := fixedpoint.Add(s.c.ConfiguredPerformanceTokens, allocation)
	if err != nil {
		return err
	}
	if configured > s.c.PerformancePool {
		return fmt.Errorf("%w: %d over pool %d",
			ErrPerformancePoolExceeded, configured, s.c.PerformancePool)
	}

	pkg.Multiplier = multiplier
	pkg.Allocation = allocation
	pkg.Configured = true
	s.c.ConfiguredPerformanceTokens = configured

	if err := s.emit(EventPackageConfigured, PackageConfiguredEvent{
		Index:      index,
		Multiplier: multiplier,
		Allocation: allocation,
	}); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Int("index", index).
		Uint8("multiplier", multiplier).Uint64("allocation", allocation).
		Msg("performance package configured")
	return nil
}

// UnlockPackage opens a configured tranche for claiming once the observed
// market price has reached multiplier times the settlement price. Tranches
// unlock in index order, each at least the configured delay after the
// previous tranche's unlock; the first waits out the delay from settlement.
func (s *Service) UnlockPackage(caller string, index int, observedPrice uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State != Complete {
		return fmt.Errorf("%w: unlock package in %s", ErrInvalidState, s.c.State)
	}
	st := s.c.Settlement
	if st == nil {
		return ErrMissingSettlement
	}
	if index < 0 || index >= MaxPerformancePackages {
		return fmt.Errorf("%w: %d", ErrInvalidPackageIndex, index)
	}
	pkg := &s.c.Packages[index]
	if !pkg.Configured {
		return fmt.Errorf("%w: index %d", ErrPackageNotConfigured, index)
	}
	if pkg.Unlocked {
		return fmt.Errorf("%w: index %d", ErrPackageUnlocked, index)
	}
	if index > 0 && !s.c.Packages[index-1].Unlocked {
		return fmt.Errorf("%w: tranche %d before %d", ErrPackageLocked, index-1, index)
	}

	target, err := fixedpoint.Mul(st.InitialPrice, uint64(pkg.Multiplier))
	if err != nil {
		return err
	}
	if observedPrice < target {
		return fmt.Errorf("%w: observed %d, target %d",
			ErrPriceBelowTarget, observedPrice, target)
	}

	now := s.clock()
	last := st.CompletedAt
	if index > 0 {
		last = *s.c.Packages[index-1].UnlockedAt
	}
	if now.Before(last.Add(s.c.UnlockDelay)) {
		return fmt.Errorf("%w: next unlock at %s",
			ErrUnlockTooEarly, last.Add(s.c.UnlockDelay).Format("15:04:05"))
	}

	pkg.Unlocked = true
	pkg.UnlockedAt = &now

	if err := s.emit(EventPackageUnlocked, PackageUnlockedEvent{
		Index:         index,
		ObservedPrice: observedPrice,
		TargetPrice:   target,
	}); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Int("index", index).
		Uint64("observed_price", observedPrice).Uint64("target_price", target).
		Msg("performance package unlocked")
	return nil
}

// ClaimPackage pays an unlocked tranche's allocation from the base vault.
// Each tranche pays out exactly once.
func (s *Service) ClaimPackage(caller string, index int, recipient string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return 0, err
	}
	if s.c.State != Complete {
		return 0, fmt.Errorf("%w: claim package in %s", ErrInvalidState, s.c.State)
	}
	if index < 0 || index >= MaxPerformancePackages {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPackageIndex, index)
	}
	pkg := &s.c.Packages[index]
	if !pkg.Configured {
		return 0, fmt.Errorf("%w: index %d", ErrPackageNotConfigured, index)
	}
	if !pkg.Unlocked {
		return 0, fmt.Errorf("%w: index %d", ErrPackageLocked, index)
	}
	if pkg.Claimed {
		return 0, fmt.Errorf("%w: index %d", ErrPackageClaimed, index)
	}

	if err := s.book.Transfer(s.c.BaseAsset, s.c.BaseVault, recipient, pkg.Allocation); err != nil {
		return 0, err
	}
	pkg.Claimed = true

	if err := s.emit(EventPackageClaimed, PackageClaimedEvent{
		Index:     index,
		Amount:    pkg.Allocation,
		Recipient: recipient,
	}); err != nil {
		return 0, err
	}
	s.log.Info().Str("campaign", s.c.ID).Int("index", index).
		Uint64("amount", pkg.Allocation).Str("recipient", recipient).
		Msg("performance package claimed")
	return pkg.Allocation, nil
}

// Package returns a copy of one tranche's state.
func (s *Service) Package(index int) (PerformancePackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= MaxPerformancePackages {
		return PerformancePackage{}, fmt.Errorf("%w: %d", ErrInvalidPackageIndex, index)
	}
	pkg := s.c.Packages[index]
	if pkg.UnlockedAt != nil {
		at := *pkg.UnlockedAt
		pkg.UnlockedAt = &at
	}
	return pkg, nil
}
