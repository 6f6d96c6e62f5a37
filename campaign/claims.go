package campaign

import (
	"fmt"

	"github.com/launchpad-xyz/go-launchpad/fixedpoint"
)

// Fund records a public-channel contribution. Capital moves from the
// funder's quote account into the campaign vault; the funder's position and
// the channel total grow by the amount.
func (s *Service) Fund(funder string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount == 0 {
		return ErrInvalidAmount
	}
	if s.c.State != Live {
		return fmt.Errorf("%w: fund in %s", ErrInvalidState, s.c.State)
	}
	if err := s.requireFundingOpen(); err != nil {
		return err
	}

	total, err := fixedpoint.Add(s.c.TotalCommitted, amount)
	if err != nil {
		return err
	}
	if total > s.c.HardCap {
		return fmt.Errorf("%w: %d over cap %d", ErrHardCapExceeded, total, s.c.HardCap)
	}

	if err := s.book.Transfer(s.c.QuoteAsset, funder, s.c.QuoteVault, amount); err != nil {
		return err
	}

	pos := s.funders[funder]
	if pos == nil {
		pos = &FunderPosition{Funder: funder}
		s.funders[funder] = pos
	}
	pos.Committed += amount
	s.c.TotalCommitted = total

	if err := s.emit(EventFunded, FundedEvent{
		Funder:         funder,
		Amount:         amount,
		TotalCommitted: total,
	}); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Str("funder", funder).
		Uint64("amount", amount).Uint64("total_committed", total).Msg("funded")
	return nil
}

// Claim pays out a contributor's pro-rata share of the investor token pool
// after a successful settlement. The entitlement is
// floor(committed * investorTokens / committedAtCompletion); Claim pays the
// delta between the entitlement and what was already claimed, so repeated
// calls transfer zero instead of over-distributing.
func (s *Service) Claim(funder string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c.State != Complete {
		return 0, fmt.Errorf("%w: claim in %s", ErrInvalidState, s.c.State)
	}
	st := s.c.Settlement
	if st == nil {
		return 0, ErrMissingSettlement
	}
	pos := s.funders[funder]
	if pos == nil || pos.Committed == 0 {
		return 0, ErrNothingCommitted
	}

	entitlement, err := fixedpoint.Share(pos.Committed, st.InvestorTokens, st.CommittedAtCompletion)
	if err != nil {
		return 0, err
	}
	if entitlement <= pos.ClaimedBase {
		return 0, nil
	}
	delta := entitlement - pos.ClaimedBase

	if err := s.book.Transfer(s.c.BaseAsset, s.c.BaseVault, funder, delta); err != nil {
		return 0, err
	}
	pos.ClaimedBase = entitlement

	if err := s.emit(EventClaimed, ClaimedEvent{
		Funder:       funder,
		Amount:       delta,
		TotalClaimed: entitlement,
	}); err != nil {
		return 0, err
	}
	s.log.Info().Str("campaign", s.c.ID).Str("funder", funder).
		Uint64("amount", delta).Msg("claimed")
	return delta, nil
}

// Refund returns a contributor's unaccepted capital. In Refunding the full
// committed amount is refundable; in Complete only the excess over the
// accepted share floor(committed * finalRaise / committedAtCompletion).
// Repeated calls pay the outstanding delta, which is zero once settled.
func (s *Service) Refund(funder string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.funders[funder]
	if pos == nil || pos.Committed == 0 {
		return 0, ErrNothingCommitted
	}

	var refundable uint64
	switch s.c.State {
	case Refunding:
		refundable = pos.Committed
	case Complete:
		st := s.c.Settlement
		if st == nil {
			return 0, ErrMissingSettlement
		}
		accepted, err := fixedpoint.Share(pos.Committed, st.FinalRaise, st.CommittedAtCompletion)
		if err != nil {
			return 0, err
		}
		refundable, err = fixedpoint.Sub(pos.Committed, accepted)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%w: refund in %s", ErrInvalidState, s.c.State)
	}

	if refundable <= pos.ClaimedRefund {
		return 0, nil
	}
	delta := refundable - pos.ClaimedRefund

	if err := s.book.Transfer(s.c.QuoteAsset, s.c.QuoteVault, funder, delta); err != nil {
		return 0, err
	}
	pos.ClaimedRefund = refundable

	if err := s.emit(EventRefunded, RefundedEvent{
		Funder:        funder,
		Amount:        delta,
		TotalRefunded: pos.ClaimedRefund,
	}); err != nil {
		return 0, err
	}
	s.log.Info().Str("campaign", s.c.ID).Str("funder", funder).
		Uint64("amount", delta).Msg("refunded")
	return delta, nil
}

// requireFundingOpen rejects contributions once the funding deadline has
// passed. Callers hold the lock.
func (s *Service) requireFundingOpen() error {
	if s.c.FundingDeadline != nil && !s.clock().Before(*s.c.FundingDeadline) {
		return ErrFundingClosed
	}
	return nil
}
