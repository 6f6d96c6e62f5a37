package campaign

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/launchpad-xyz/go-launchpad/asset"
	"github.com/launchpad-xyz/go-launchpad/eventsource"
	"github.com/launchpad-xyz/go-launchpad/record"
)

// Book is the asset ledger the engine moves funds on. *asset.Book satisfies
// it; a host environment can substitute its own transfer primitive.
type Book interface {
	Mint(asset, account string, amount uint64) error
	Transfer(asset, from, to string, amount uint64) error
	Balance(asset, account string) uint64
	Apply(steps []asset.Step) error
}

// Config carries the immutable campaign parameters. Zero-valued optional
// fields get defaults in NewService.
type Config struct {
	// ID identifies the campaign. Defaults to a fresh UUID.
	ID string

	// Authority is the admin identity for privileged operations.
	Authority string

	// BaseAsset is the token being launched; QuoteAsset is the capital
	// asset contributions are denominated in.
	BaseAsset  string
	QuoteAsset string

	// Treasury receives the non-liquidity share of a successful raise.
	// Defaults to "<id>.treasury".
	Treasury string

	// MinimumRaise is the success threshold for the final raise.
	MinimumRaise uint64

	// HardCap bounds each funding channel's committed total. Zero means
	// unbounded.
	HardCap uint64

	// InvestorTokens is the base token pool distributed pro rata to
	// contributors after a successful raise.
	InvestorTokens uint64

	// PerformancePool reserves base tokens for price-gated vesting
	// tranches.
	PerformancePool uint64

	// MonthlySpend is the treasury's first operating tranche, paid ahead
	// of the remaining treasury capital at settlement.
	MonthlySpend uint64

	// LaunchDuration sets the funding window. If nonzero, Start derives
	// the funding deadline as start time plus this duration.
	LaunchDuration time.Duration

	// UnlockDelay is the minimum spacing between vesting tranche unlocks.
	// Defaults to DefaultUnlockDelay.
	UnlockDelay time.Duration

	// Metadata, when set, is registered for the base asset at
	// initialization.
	Metadata asset.Metadata
}

// Service runs one campaign. Operations are serialized and validate every
// precondition before any balance moves, so a failed operation leaves
// campaign state and the book unchanged.
type Service struct {
	mu sync.Mutex

	c       *Campaign
	funders map[string]*FunderPosition
	private *PrivateFundState

	book     Book
	metadata *asset.MetadataRegistry
	records  *record.Store
	journal  eventsource.Store
	version  int

	clock func() time.Time
	log   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. The default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithJournal attaches an event journal. Every successful mutating
// operation appends one event to the campaign's stream.
func WithJournal(journal eventsource.Store) Option {
	return func(s *Service) { s.journal = journal }
}

// WithRecordStore attaches a record store for durable private-round
// snapshots.
func WithRecordStore(records *record.Store) Option {
	return func(s *Service) { s.records = records }
}

// WithMetadataRegistry attaches the registry used for base asset metadata.
func WithMetadataRegistry(registry *asset.MetadataRegistry) Option {
	return func(s *Service) { s.metadata = registry }
}

// NewService validates the configuration and creates a campaign in the
// Initialized state.
func NewService(cfg Config, book Book, opts ...Option) (*Service, error) {
	if book == nil {
		return nil, fmt.Errorf("%w: nil book", ErrInvalidConfig)
	}
	if cfg.Authority == "" {
		return nil, fmt.Errorf("%w: missing authority", ErrInvalidConfig)
	}
	if cfg.BaseAsset == "" || cfg.QuoteAsset == "" {
		return nil, fmt.Errorf("%w: missing asset", ErrInvalidConfig)
	}
	if cfg.BaseAsset == cfg.QuoteAsset {
		return nil, fmt.Errorf("%w: base and quote asset are the same", ErrInvalidConfig)
	}
	if cfg.MinimumRaise == 0 {
		return nil, fmt.Errorf("%w: zero minimum raise", ErrInvalidConfig)
	}
	if cfg.InvestorTokens == 0 {
		return nil, fmt.Errorf("%w: zero investor token pool", ErrInvalidConfig)
	}

	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}
	treasury := cfg.Treasury
	if treasury == "" {
		treasury = id + ".treasury"
	}
	hardCap := cfg.HardCap
	if hardCap == 0 {
		hardCap = math.MaxUint64
	}
	unlockDelay := cfg.UnlockDelay
	if unlockDelay == 0 {
		unlockDelay = DefaultUnlockDelay
	}

	s := &Service{
		c: &Campaign{
			ID:              id,
			Authority:       cfg.Authority,
			BaseAsset:       cfg.BaseAsset,
			QuoteAsset:      cfg.QuoteAsset,
			BaseVault:       id + ".base_vault",
			QuoteVault:      id + ".quote_vault",
			Treasury:        treasury,
			MinimumRaise:    cfg.MinimumRaise,
			HardCap:         hardCap,
			InvestorTokens:  cfg.InvestorTokens,
			PerformancePool: cfg.PerformancePool,
			MonthlySpend:    cfg.MonthlySpend,
			LaunchDuration:  cfg.LaunchDuration,
			UnlockDelay:     unlockDelay,
			State:           Initialized,
		},
		funders: make(map[string]*FunderPosition),
		book:    book,
		version: -1,
		clock:   time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metadata != nil && cfg.Metadata != (asset.Metadata{}) {
		if err := s.metadata.Register(cfg.BaseAsset, cfg.Authority, cfg.Metadata); err != nil {
			return nil, err
		}
	}

	if err := s.emit(EventInitialized, InitializedEvent{
		Authority:      cfg.Authority,
		BaseAsset:      cfg.BaseAsset,
		QuoteAsset:     cfg.QuoteAsset,
		MinimumRaise:   cfg.MinimumRaise,
		HardCap:        hardCap,
		InvestorTokens: cfg.InvestorTokens,
	}); err != nil {
		return nil, err
	}

	s.log.Info().Str("campaign", id).Msg("campaign initialized")
	return s, nil
}

// Start moves the campaign from Initialized to Live and opens the funding
// window. With a nonzero launch duration, the funding deadline is the start
// time plus that duration.
func (s *Service) Start(caller string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State != Initialized {
		return fmt.Errorf("%w: start in %s", ErrInvalidState, s.c.State)
	}

	now := s.clock()
	s.c.State = Live
	s.c.StartedAt = &now
	if s.c.LaunchDuration > 0 {
		deadline := now.Add(s.c.LaunchDuration)
		s.c.FundingDeadline = &deadline
	}

	if err := s.emit(EventStarted, nil); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Time("started_at", now).Msg("campaign live")
	return nil
}

// SetMinimumRaise resets the success threshold. Allowed before settlement
// only; the hard cap is left untouched.
func (s *Service) SetMinimumRaise(caller string, minimum uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State != Initialized && s.c.State != Live {
		return fmt.Errorf("%w: set minimum raise in %s", ErrInvalidState, s.c.State)
	}
	if minimum == 0 {
		return fmt.Errorf("%w: zero minimum raise", ErrInvalidAmount)
	}

	s.c.MinimumRaise = minimum
	if err := s.emit(EventMinimumRaiseUpdated, MinimumRaiseUpdatedEvent{MinimumRaise: minimum}); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Uint64("minimum_raise", minimum).Msg("minimum raise updated")
	return nil
}

// SetHardCap resets the per-channel contribution bound. The new cap may not
// undercut what either channel has already committed.
func (s *Service) SetHardCap(caller string, cap uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State != Initialized && s.c.State != Live {
		return fmt.Errorf("%w: set hard cap in %s", ErrInvalidState, s.c.State)
	}
	if cap == 0 {
		return fmt.Errorf("%w: zero hard cap", ErrInvalidAmount)
	}
	if cap < s.c.TotalCommitted {
		return fmt.Errorf("%w: cap %d below committed %d", ErrInvalidAmount, cap, s.c.TotalCommitted)
	}
	if s.private != nil && cap < s.private.Committed {
		return fmt.Errorf("%w: cap %d below private committed %d", ErrInvalidAmount, cap, s.private.Committed)
	}

	s.c.HardCap = cap
	if err := s.emit(EventHardCapUpdated, HardCapUpdatedEvent{HardCap: cap}); err != nil {
		return err
	}
	return nil
}

// StakeFromTreasury moves settled capital from the treasury to an external
// staking destination.
func (s *Service) StakeFromTreasury(caller string, amount uint64, destination string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State != Complete {
		return fmt.Errorf("%w: stake from treasury in %s", ErrInvalidState, s.c.State)
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	if err := s.book.Transfer(s.c.QuoteAsset, s.c.Treasury, destination, amount); err != nil {
		return err
	}
	if err := s.emit(EventStakedFromTreasury, StakedFromTreasuryEvent{Amount: amount, Destination: destination}); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Uint64("amount", amount).
		Str("destination", destination).Msg("staked from treasury")
	return nil
}

// Close marks the campaign terminal and stamps the close time. A live
// campaign must settle first; no operation reactivates a closed campaign.
func (s *Service) Close(caller string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAuthority(caller); err != nil {
		return err
	}
	if s.c.State == Live || s.c.State == Closed {
		return fmt.Errorf("%w: close in %s", ErrInvalidState, s.c.State)
	}

	now := s.clock()
	s.c.State = Closed
	s.c.ClosedAt = &now
	if err := s.emit(EventClosed, nil); err != nil {
		return err
	}
	s.log.Info().Str("campaign", s.c.ID).Time("closed_at", now).Msg("campaign closed")
	return nil
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.State
}

// Campaign returns a copy of the campaign state.
func (s *Service) Campaign() Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.c
	if s.c.Settlement != nil {
		st := *s.c.Settlement
		cp.Settlement = &st
	}
	return cp
}

// Position returns a contributor's public-channel position.
func (s *Service) Position(funder string) (FunderPosition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.funders[funder]
	if !ok {
		return FunderPosition{}, false
	}
	return *pos, true
}

// Settlement returns the frozen settlement snapshot, if any.
func (s *Service) Settlement() (Settlement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c.Settlement == nil {
		return Settlement{}, false
	}
	return *s.c.Settlement, true
}

func (s *Service) requireAuthority(caller string) error {
	if caller != s.c.Authority {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}
	return nil
}

// emit appends one journal event for the campaign stream. Without a journal
// it is a no-op.
func (s *Service) emit(eventType string, payload any) error {
	if s.journal == nil {
		return nil
	}
	event, err := eventsource.NewEvent(s.c.ID, eventType, payload)
	if err != nil {
		return err
	}
	head, err := s.journal.Append(context.Background(), s.c.ID, s.version, []*eventsource.Event{event})
	if err != nil {
		return err
	}
	s.version = head
	return nil
}
