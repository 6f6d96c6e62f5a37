package campaign

// Journal event types. One event is appended per successful mutating
// operation, keyed by campaign ID.
const (
	EventInitialized         = "campaign.initialized"
	EventStarted             = "campaign.started"
	EventFunded              = "campaign.funded"
	EventCompleted           = "campaign.completed"
	EventClaimed             = "campaign.claimed"
	EventRefunded            = "campaign.refunded"
	EventMinimumRaiseUpdated = "campaign.minimum_raise_updated"
	EventHardCapUpdated      = "campaign.hard_cap_updated"
	EventStakedFromTreasury  = "campaign.staked_from_treasury"
	EventClosed              = "campaign.closed"

	EventPrivateRoundOpened    = "campaign.private_round_opened"
	EventPrivateRoundEnded     = "campaign.private_round_ended"
	EventPrivateRoundFinalized = "campaign.private_round_finalized"
	EventPrivateFunded         = "campaign.private_funded"
	EventPrivateClaimed        = "campaign.private_claimed"
	EventPrivateRefunded       = "campaign.private_refunded"

	EventPackageConfigured = "campaign.package_configured"
	EventPackageUnlocked   = "campaign.package_unlocked"
	EventPackageClaimed    = "campaign.package_claimed"
)

// InitializedEvent records campaign creation.
type InitializedEvent struct {
	Authority      string `json:"authority"`
	BaseAsset      string `json:"base_asset"`
	QuoteAsset     string `json:"quote_asset"`
	MinimumRaise   uint64 `json:"minimum_raise"`
	HardCap        uint64 `json:"hard_cap"`
	InvestorTokens uint64 `json:"investor_tokens"`
}

// FundedEvent records a public-channel contribution.
type FundedEvent struct {
	Funder         string `json:"funder"`
	Amount         uint64 `json:"amount"`
	TotalCommitted uint64 `json:"total_committed"`
}

// CompletedEvent records the settlement decision.
type CompletedEvent struct {
	Outcome          string `json:"outcome"`
	FinalRaise       uint64 `json:"final_raise"`
	LiquidityCapital uint64 `json:"liquidity_capital"`
	TreasuryCapital  uint64 `json:"treasury_capital"`
	InitialPrice     uint64 `json:"initial_price"`
}

// ClaimedEvent records a pro-rata base token payout.
type ClaimedEvent struct {
	Funder       string `json:"funder"`
	Amount       uint64 `json:"amount"`
	TotalClaimed uint64 `json:"total_claimed"`
}

// RefundedEvent records a pro-rata capital refund.
type RefundedEvent struct {
	Funder        string `json:"funder"`
	Amount        uint64 `json:"amount"`
	TotalRefunded uint64 `json:"total_refunded"`
}

// MinimumRaiseUpdatedEvent records an authority reset of the minimum.
type MinimumRaiseUpdatedEvent struct {
	MinimumRaise uint64 `json:"minimum_raise"`
}

// HardCapUpdatedEvent records an authority reset of the hard cap.
type HardCapUpdatedEvent struct {
	HardCap uint64 `json:"hard_cap"`
}

// StakedFromTreasuryEvent records a treasury withdrawal.
type StakedFromTreasuryEvent struct {
	Amount      uint64 `json:"amount"`
	Destination string `json:"destination"`
}

// PrivateFundedEvent records a blinded contribution. Only the commitment
// digest, the new accumulator root and the channel aggregate are journaled;
// the contribution amount stays private.
type PrivateFundedEvent struct {
	Leaf           string `json:"leaf"`
	Root           string `json:"root"`
	TotalCommitted uint64 `json:"total_committed"`
}

// PrivateRoundFinalizedEvent records the attested root and total at close
// of the private channel.
type PrivateRoundFinalizedEvent struct {
	Root           string `json:"root"`
	TotalCommitted uint64 `json:"total_committed"`
}

// PrivateDistributedEvent records a private claim or refund. The nullifier
// identifies the spent commitment without revealing it.
type PrivateDistributedEvent struct {
	Nullifier string `json:"nullifier"`
	Amount    uint64 `json:"amount"`
}

// PackageConfiguredEvent records a vesting tranche definition.
type PackageConfiguredEvent struct {
	Index      int    `json:"index"`
	Multiplier uint8  `json:"multiplier"`
	Allocation uint64 `json:"allocation"`
}

// PackageUnlockedEvent records a price-gated tranche unlock.
type PackageUnlockedEvent struct {
	Index         int    `json:"index"`
	ObservedPrice uint64 `json:"observed_price"`
	TargetPrice   uint64 `json:"target_price"`
}

// PackageClaimedEvent records a tranche payout.
type PackageClaimedEvent struct {
	Index     int    `json:"index"`
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
}
