package campaign

import (
	"fmt"
	"time"

	"github.com/launchpad-xyz/go-launchpad/asset"
	"github.com/launchpad-xyz/go-launchpad/fixedpoint"
)

// Complete settles the campaign, once. If the committed total never reached
// the minimum, the campaign moves to Refunding and nothing is minted or
// transferred. Otherwise the authority declares the final raise (positive,
// at least the minimum, at most the committed total), the settlement split
// is frozen, and an ordered movement plan executes all-or-nothing:
//
//  1. mint the full base allocation into the base vault
//  2. liquidity capital (20% of the raise) to the liquidity quote account
//  3. liquidity tokens (29% of the investor pool) to the liquidity base account
//  4. the first monthly spend tranche to the treasury
//  5. the remaining treasury capital to the treasury
func (s *Service) Complete(caller string, finalRaise uint64, liquidityQuote, liquidityBase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State != Live {
		return fmt.Errorf("%w: complete in %s", ErrInvalidState, s.c.State)
	}
	if s.c.PrivateRoundActive {
		return fmt.Errorf("%w: private round still active", ErrInvalidState)
	}
	now := s.clock()
	if s.c.FundingDeadline != nil && now.Before(*s.c.FundingDeadline) {
		return ErrDeadlineNotReached
	}

	if s.c.TotalCommitted < s.c.MinimumRaise {
		s.c.State = Refunding
		s.c.SettledAt = &now
		if err := s.emit(EventCompleted, CompletedEvent{Outcome: "refunding"}); err != nil {
			return err
		}
		s.log.Info().Str("campaign", s.c.ID).Uint64("total_committed", s.c.TotalCommitted).
			Uint64("minimum_raise", s.c.MinimumRaise).Msg("raise below minimum, refunding")
		return nil
	}

	if finalRaise == 0 || finalRaise < s.c.MinimumRaise {
		return fmt.Errorf("%w: %d, minimum %d", ErrInvalidFinalRaise, finalRaise, s.c.MinimumRaise)
	}
	if finalRaise > s.c.TotalCommitted {
		return fmt.Errorf("%w: raise %d, committed %d",
			ErrFinalRaiseExceedsCommitted, finalRaise, s.c.TotalCommitted)
	}

	st, err := s.computeSettlement(finalRaise, now)
	if err != nil {
		return err
	}

	plan, err := s.settlementPlan(st, liquidityQuote, liquidityBase)
	if err != nil {
		return err
	}
	if err := s.book.Apply(plan); err != nil {
		return err
	}

	s.c.Settlement = st
	s.c.State = Complete
	s.c.SettledAt = &now

	if err := s.emit(EventCompleted, CompletedEvent{
		Outcome:          "complete",
		FinalRaise:       st.FinalRaise,
		LiquidityCapital: st.LiquidityCapital,
		TreasuryCapital:  st.TreasuryCapital,
		InitialPrice:     st.InitialPrice,
	}); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Uint64("final_raise", finalRaise).
		Uint64("initial_price", st.InitialPrice).Msg("campaign complete")
	return nil
}

// computeSettlement derives the settlement split from the final raise.
// Callers hold the lock.
func (s *Service) computeSettlement(finalRaise uint64, now time.Time) (*Settlement, error) {
	liquidityCapital, err := fixedpoint.Bps(finalRaise, LiquidityCapitalBps)
	if err != nil {
		return nil, err
	}
	investorTokens, err := fixedpoint.Bps(s.c.InvestorTokens, InvestorTokenBps)
	if err != nil {
		return nil, err
	}
	liquidityTokens, err := fixedpoint.Bps(s.c.InvestorTokens, LiquidityTokenBps)
	if err != nil {
		return nil, err
	}
	price, err := fixedpoint.Price(finalRaise, s.c.InvestorTokens)
	if err != nil {
		return nil, err
	}

	remainder := finalRaise - liquidityCapital
	if remainder < s.c.MonthlySpend {
		return nil, fmt.Errorf("%w: remainder %d, monthly spend %d",
			ErrInsufficientForMonthlySpend, remainder, s.c.MonthlySpend)
	}

	return &Settlement{
		FinalRaise:            finalRaise,
		CommittedAtCompletion: s.c.TotalCommitted,
		InvestorTokens:        investorTokens,
		LiquidityTokens:       liquidityTokens,
		PerformanceTokens:     s.c.PerformancePool,
		LiquidityCapital:      liquidityCapital,
		TreasuryCapital:       remainder - s.c.MonthlySpend,
		InitialPrice:          price,
		CompletedAt:           now,
	}, nil
}

// settlementPlan builds the ordered movement plan for a successful raise.
func (s *Service) settlementPlan(st *Settlement, liquidityQuote, liquidityBase string) ([]asset.Step, error) {
	totalBase, err := fixedpoint.Add(st.InvestorTokens, st.LiquidityTokens)
	if err != nil {
		return nil, err
	}
	totalBase, err = fixedpoint.Add(totalBase, st.PerformanceTokens)
	if err != nil {
		return nil, err
	}

	return []asset.Step{
		{Kind: asset.StepMint, Asset: s.c.BaseAsset, To: s.c.BaseVault, Amount: totalBase},
		{Kind: asset.StepTransfer, Asset: s.c.QuoteAsset, From: s.c.QuoteVault, To: liquidityQuote, Amount: st.LiquidityCapital},
		{Kind: asset.StepTransfer, Asset: s.c.BaseAsset, From: s.c.BaseVault, To: liquidityBase, Amount: st.LiquidityTokens},
		{Kind: asset.StepTransfer, Asset: s.c.QuoteAsset, From: s.c.QuoteVault, To: s.c.Treasury, Amount: s.c.MonthlySpend},
		{Kind: asset.StepTransfer, Asset: s.c.QuoteAsset, From: s.c.QuoteVault, To: s.c.Treasury, Amount: st.TreasuryCapital},
	}, nil
}
