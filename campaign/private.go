package campaign

import (
	"encoding/hex"
	"fmt"

	"github.com/launchpad-xyz/go-launchpad/commitment"
	"github.com/launchpad-xyz/go-launchpad/fixedpoint"
	"github.com/launchpad-xyz/go-launchpad/record"
)

// privateStateNamespace scopes record addresses for private-round snapshots.
const privateStateNamespace = "campaign.private_state"

// PrivateStateAddress returns the record address holding a campaign's
// private-round snapshot.
func PrivateStateAddress(campaignID string) record.Address {
	return record.DeriveAddress(privateStateNamespace, campaignID)
}

// OpenPrivateRound activates the blinded funding channel. With a record
// store attached, the snapshot record is written and its write authority is
// delegated to the engine until the round ends.
func (s *Service) OpenPrivateRound(caller string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State != Initialized && s.c.State != Live {
		return fmt.Errorf("%w: open private round in %s", ErrInvalidState, s.c.State)
	}
	if s.c.PrivateRoundActive {
		return fmt.Errorf("%w: private round already open", ErrInvalidState)
	}

	if s.private == nil {
		s.private = &PrivateFundState{
			Accumulator: commitment.NewAccumulator(),
			Nullifiers:  commitment.NewNullifierSet(),
		}
	}

	if s.records != nil {
		addr := PrivateStateAddress(s.c.ID)
		payload, err := s.private.Accumulator.MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := s.records.Put(addr, payload); err != nil {
			return err
		}
		if err := s.records.Delegate(addr, s.delegationHolder()); err != nil {
			return err
		}
	}

	s.c.PrivateRoundActive = true
	if err := s.emit(EventPrivateRoundOpened, nil); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Msg("private round opened")
	return nil
}

// FundPrivate records a blinded contribution. Capital moves into the quote
// vault like a public contribution, but the ledger records only the
// commitment leaf MiMC(funder || amount || salt); the returned leaf is the
// funder's receipt for later claims. The channel aggregate grows by the
// amount.
func (s *Service) FundPrivate(funder string, amount uint64, salt [32]byte) (commitment.Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero commitment.Digest
	if amount == 0 {
		return zero, ErrInvalidAmount
	}
	if s.c.State != Live {
		return zero, fmt.Errorf("%w: private fund in %s", ErrInvalidState, s.c.State)
	}
	if !s.c.PrivateRoundActive {
		return zero, ErrPrivateRoundInactive
	}
	if err := s.requireFundingOpen(); err != nil {
		return zero, err
	}

	total, err := fixedpoint.Add(s.private.Committed, amount)
	if err != nil {
		return zero, err
	}
	if total > s.c.HardCap {
		return zero, fmt.Errorf("%w: %d over cap %d", ErrHardCapExceeded, total, s.c.HardCap)
	}

	leaf := commitment.Commit(funder, amount, salt)
	if s.private.Accumulator.Contains(leaf) {
		return zero, ErrDuplicateCommitment
	}

	if err := s.book.Transfer(s.c.QuoteAsset, funder, s.c.QuoteVault, amount); err != nil {
		return zero, err
	}

	root := s.private.Accumulator.Append(leaf)
	s.private.Committed = total

	if err := s.emit(EventPrivateFunded, PrivateFundedEvent{
		Leaf:           hex.EncodeToString(leaf[:]),
		Root:           hex.EncodeToString(root[:]),
		TotalCommitted: total,
	}); err != nil {
		return zero, err
	}
	s.log.Info().Str("campaign", s.c.ID).Str("leaf", hex.EncodeToString(leaf[:])).
		Uint64("total_committed", total).Msg("private contribution recorded")
	return leaf, nil
}

// EndPrivateRound stops accepting blinded contributions and, with a record
// store attached, commits the final snapshot back and releases the
// delegation.
func (s *Service) EndPrivateRound(caller string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if !s.c.PrivateRoundActive {
		return ErrPrivateRoundInactive
	}

	if err := s.commitPrivateSnapshot(); err != nil {
		return err
	}
	s.c.PrivateRoundActive = false

	if err := s.emit(EventPrivateRoundEnded, nil); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).
		Uint64("total_committed", s.private.Committed).Msg("private round ended")
	return nil
}

// FinalizePrivateRound checks an out-of-band attestation of the private
// channel against the ledger: the attested root and total must match the
// accumulator root and the committed aggregate exactly.
func (s *Service) FinalizePrivateRound(caller string, root commitment.Digest, total uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.private == nil {
		return ErrPrivateRoundInactive
	}
	if s.c.PrivateRoundActive {
		return fmt.Errorf("%w: round still accepting contributions", ErrInvalidState)
	}
	if root != s.private.Accumulator.Root() || total != s.private.Committed {
		return ErrPrivateRoundMismatch
	}

	if err := s.emit(EventPrivateRoundFinalized, PrivateRoundFinalizedEvent{
		Root:           hex.EncodeToString(root[:]),
		TotalCommitted: total,
	}); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Str("root", hex.EncodeToString(root[:])).
		Uint64("total_committed", total).Msg("private round finalized")
	return nil
}

// PrivateClaim redeems a blinded contribution for its pro-rata share of the
// investor token pool. The caller reveals the opening (funder, amount,
// salt); the engine recomputes the commitment, checks membership, spends the
// nullifier so the commitment cannot be redeemed again, and pays
// floor(amount * investorTokens / privateCommitted).
func (s *Service) PrivateClaim(funder string, amount uint64, salt [32]byte) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c.State != Complete {
		return 0, fmt.Errorf("%w: private claim in %s", ErrInvalidState, s.c.State)
	}
	st := s.c.Settlement
	if st == nil {
		return 0, ErrMissingSettlement
	}
	leaf, err := s.spendPrivateOpening(funder, amount, salt)
	if err != nil {
		return 0, err
	}

	tokens, err := fixedpoint.Share(amount, st.InvestorTokens, s.private.Committed)
	if err != nil {
		return 0, err
	}
	if err := s.book.Transfer(s.c.BaseAsset, s.c.BaseVault, funder, tokens); err != nil {
		return 0, err
	}

	nullifier := commitment.Nullifier(leaf)
	if err := s.emit(EventPrivateClaimed, PrivateDistributedEvent{
		Nullifier: hex.EncodeToString(nullifier[:]),
		Amount:    tokens,
	}); err != nil {
		return 0, err
	}
	s.log.Info().Str("campaign", s.c.ID).Uint64("tokens", tokens).Msg("private claim paid")
	return tokens, nil
}

// PrivateRefund returns a blinded contribution's capital after a failed
// raise. The nullifier spend makes the refund one-shot.
func (s *Service) PrivateRefund(funder string, amount uint64, salt [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c.State != Refunding {
		return fmt.Errorf("%w: private refund in %s", ErrInvalidState, s.c.State)
	}
	leaf, err := s.spendPrivateOpening(funder, amount, salt)
	if err != nil {
		return err
	}

	if err := s.book.Transfer(s.c.QuoteAsset, s.c.QuoteVault, funder, amount); err != nil {
		return err
	}

	nullifier := commitment.Nullifier(leaf)
	if err := s.emit(EventPrivateRefunded, PrivateDistributedEvent{
		Nullifier: hex.EncodeToString(nullifier[:]),
		Amount:    amount,
	}); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Uint64("amount", amount).Msg("private refund paid")
	return nil
}

// PrivateClaimFromRecord is PrivateClaim validated against the durable
// snapshot instead of engine memory: the accumulator is reloaded from the
// record store, its digest and root are re-checked, and the opening must be
// a member of the reloaded ledger.
func (s *Service) PrivateClaimFromRecord(funder string, amount uint64, salt [32]byte) (uint64, error) {
	s.mu.Lock()
	stored := s.records
	id := s.c.ID
	s.mu.Unlock()

	if stored == nil {
		return 0, record.ErrNotFound
	}
	rec, err := stored.Get(PrivateStateAddress(id))
	if err != nil {
		return 0, err
	}
	var acc commitment.Accumulator
	if err := acc.UnmarshalBinary(rec.Payload); err != nil {
		return 0, err
	}
	if err := acc.Verify(funder, amount, salt); err != nil {
		return 0, err
	}
	return s.PrivateClaim(funder, amount, salt)
}

// PrivateCommitted returns the private channel aggregate.
func (s *Service) PrivateCommitted() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.private == nil {
		return 0
	}
	return s.private.Committed
}

// PrivateRoot returns the current accumulator root.
func (s *Service) PrivateRoot() commitment.Digest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.private == nil {
		return commitment.Digest{}
	}
	return s.private.Accumulator.Root()
}

// spendPrivateOpening verifies an opening against the accumulator and spends
// its nullifier. Callers hold the lock.
func (s *Service) spendPrivateOpening(funder string, amount uint64, salt [32]byte) (commitment.Digest, error) {
	var zero commitment.Digest
	if s.private == nil || s.private.Committed == 0 {
		return zero, ErrNothingCommitted
	}
	leaf := commitment.Commit(funder, amount, salt)
	if !s.private.Accumulator.Contains(leaf) {
		return zero, commitment.ErrNotRecorded
	}
	if err := s.private.Nullifiers.Spend(leaf); err != nil {
		return zero, err
	}
	return leaf, nil
}

// commitPrivateSnapshot writes the accumulator back through the delegation.
// Callers hold the lock.
func (s *Service) commitPrivateSnapshot() error {
	if s.records == nil {
		return nil
	}
	payload, err := s.private.Accumulator.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = s.records.CommitAndUndelegate(PrivateStateAddress(s.c.ID), s.delegationHolder(), payload)
	return err
}

func (s *Service) delegationHolder() string {
	return "engine/" + s.c.ID
}
