package campaign

import "errors"

var (
	// ErrInvalidState is returned when an operation is attempted in a
	// lifecycle state that does not permit it.
	ErrInvalidState = errors.New("campaign: invalid state for operation")

	// ErrUnauthorized is returned when the caller is not the campaign
	// authority.
	ErrUnauthorized = errors.New("campaign: caller is not the authority")

	// ErrInvalidAmount is returned for zero-amount contributions and other
	// degenerate quantities.
	ErrInvalidAmount = errors.New("campaign: invalid amount")

	// ErrInvalidConfig is returned when campaign parameters fail validation.
	ErrInvalidConfig = errors.New("campaign: invalid configuration")

	// ErrHardCapExceeded is returned when a contribution would push a
	// channel total past the hard cap.
	ErrHardCapExceeded = errors.New("campaign: hard cap exceeded")

	// ErrFundingClosed is returned when a contribution arrives after the
	// funding deadline.
	ErrFundingClosed = errors.New("campaign: funding deadline has passed")

	// ErrDeadlineNotReached is returned when completion is attempted before
	// the funding deadline.
	ErrDeadlineNotReached = errors.New("campaign: funding deadline not reached")

	// ErrFinalRaiseExceedsCommitted is returned when the declared final
	// raise is larger than the public channel total.
	ErrFinalRaiseExceedsCommitted = errors.New("campaign: final raise exceeds committed total")

	// ErrInvalidFinalRaise is returned when the declared final raise is
	// zero or below the minimum on the success path.
	ErrInvalidFinalRaise = errors.New("campaign: invalid final raise")

	// ErrInsufficientForMonthlySpend is returned when the raise net of
	// liquidity capital cannot cover the first monthly spend tranche.
	ErrInsufficientForMonthlySpend = errors.New("campaign: raise cannot cover monthly spend")

	// ErrMissingSettlement is returned when a distribution runs without a
	// settlement snapshot. It indicates a corrupted lifecycle.
	ErrMissingSettlement = errors.New("campaign: settlement snapshot missing")

	// ErrNothingCommitted is returned for claims and refunds by parties
	// with no recorded contribution.
	ErrNothingCommitted = errors.New("campaign: nothing committed")

	// ErrPrivateRoundInactive is returned for private contributions while
	// the private channel is closed.
	ErrPrivateRoundInactive = errors.New("campaign: private round not active")

	// ErrPrivateRoundMismatch is returned when a private round finalization
	// attests a root or total that disagrees with the ledger.
	ErrPrivateRoundMismatch = errors.New("campaign: private round attestation mismatch")

	// ErrDuplicateCommitment is returned when a private contribution repeats
	// an already recorded commitment.
	ErrDuplicateCommitment = errors.New("campaign: duplicate commitment")

	// ErrInvalidPackageIndex is returned for tranche indexes outside the
	// schedule.
	ErrInvalidPackageIndex = errors.New("campaign: invalid package index")

	// ErrInvalidPackageParams is returned for zero multipliers or zero
	// allocations.
	ErrInvalidPackageParams = errors.New("campaign: invalid package parameters")

	// ErrPackageConfigured is returned when configuring an already
	// configured tranche.
	ErrPackageConfigured = errors.New("campaign: package already configured")

	// ErrPackageNotConfigured is returned for operations on an
	// unconfigured tranche.
	ErrPackageNotConfigured = errors.New("campaign: package not configured")

	// ErrPackageUnlocked is returned when unlocking an already unlocked
	// tranche.
	ErrPackageUnlocked = errors.New("campaign: package already unlocked")

	// ErrPackageLocked is returned when claiming a tranche that has not
	// been unlocked, or when unlocking a tranche ahead of its predecessor.
	ErrPackageLocked = errors.New("campaign: package not unlocked")

	// ErrPackageClaimed is returned when claiming an already claimed
	// tranche.
	ErrPackageClaimed = errors.New("campaign: package already claimed")

	// ErrPerformancePoolExceeded is returned when tranche configuration
	// would overrun the reserved performance pool.
	ErrPerformancePoolExceeded = errors.New("campaign: performance pool exceeded")

	// ErrPriceBelowTarget is returned when an unlock's observed price has
	// not reached the tranche target.
	ErrPriceBelowTarget = errors.New("campaign: observed price below unlock target")

	// ErrUnlockTooEarly is returned when an unlock arrives before the
	// minimum delay since the previous unlock has elapsed.
	ErrUnlockTooEarly = errors.New("campaign: unlock delay not elapsed")
)
