// Package campaign implements the fundraising settlement engine: the
// campaign lifecycle state machine, the public and private funding
// channels, the one-shot settlement split, pro-rata claim/refund
// accounting, and the price-gated performance vesting schedule.
//
// All state mutation goes through Service; the engine executes operations
// as serialized, all-or-nothing units. Asset movement is delegated to an
// external book (see the Book interface) and is only requested after every
// precondition has passed.
package campaign

import (
	"time"

	"github.com/launchpad-xyz/go-launchpad/commitment"
)

// State is the campaign lifecycle state.
type State int

const (
	Initialized State = iota
	Live
	Complete
	Refunding
	Closed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Live:
		return "Live"
	case Complete:
		return "Complete"
	case Refunding:
		return "Refunding"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

const (
	// LiquidityCapitalBps is the share of the final raise routed to the
	// liquidity capital account (20%).
	LiquidityCapitalBps uint64 = 2_000

	// InvestorTokenBps is the base for the liquidity token ratio (100%).
	InvestorTokenBps uint64 = 10_000

	// LiquidityTokenBps is the liquidity token allocation as a share of
	// the investor allocation (29%).
	LiquidityTokenBps uint64 = 2_900

	// MaxPerformancePackages bounds the vesting schedule.
	MaxPerformancePackages = 5

	// DefaultUnlockDelay is the minimum spacing between tranche unlocks
	// when none is configured.
	DefaultUnlockDelay = 60 * time.Second
)

// PerformancePackage is one price-gated vesting tranche. Tranches move
// strictly Unconfigured -> Configured -> Unlocked -> Claimed.
type PerformancePackage struct {
	Multiplier uint8
	Allocation uint64
	Configured bool
	Unlocked   bool
	Claimed    bool
	UnlockedAt *time.Time
}

// FunderPosition tracks one public-channel contributor. Positions are
// created lazily on first contribution and never deleted.
type FunderPosition struct {
	Funder        string
	Committed     uint64
	ClaimedBase   uint64
	ClaimedRefund uint64
}

// Settlement is the snapshot frozen exactly once at completion. Every
// post-completion distribution reads from it.
type Settlement struct {
	FinalRaise            uint64
	CommittedAtCompletion uint64
	InvestorTokens        uint64
	LiquidityTokens       uint64
	PerformanceTokens     uint64
	LiquidityCapital      uint64
	TreasuryCapital       uint64
	InitialPrice          uint64
	CompletedAt           time.Time
}

// PrivateFundState is the private channel's on-ledger aggregate: the
// commitment accumulator, the spent-nullifier set and the running total.
// Individual contributions stay blinded inside the accumulator.
type PrivateFundState struct {
	Accumulator *commitment.Accumulator
	Nullifiers  *commitment.NullifierSet
	Committed   uint64
}

// Campaign is the full state of one token launch.
type Campaign struct {
	ID        string
	Authority string

	BaseAsset  string
	QuoteAsset string
	BaseVault  string
	QuoteVault string
	Treasury   string

	MinimumRaise   uint64
	HardCap        uint64
	InvestorTokens uint64
	PerformancePool uint64
	MonthlySpend   uint64
	LaunchDuration time.Duration
	UnlockDelay    time.Duration

	State           State
	StartedAt       *time.Time
	FundingDeadline *time.Time
	SettledAt       *time.Time
	ClosedAt        *time.Time

	TotalCommitted uint64

	Settlement *Settlement

	ConfiguredPerformanceTokens uint64
	Packages                    [MaxPerformancePackages]PerformancePackage

	PrivateRoundActive bool
}
