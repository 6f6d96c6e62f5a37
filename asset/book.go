// Package asset provides the engine's external collaborators for fungible
// assets: an account book that moves and mints units atomically, and a
// registry for token display metadata. The book is a minimal in-process
// stand-in for the host environment's transfer primitive, not a token
// protocol.
package asset

import (
	"errors"
	"fmt"
	"sync"

	"github.com/launchpad-xyz/go-launchpad/fixedpoint"
)

var (
	ErrInsufficientBalance = errors.New("asset: insufficient balance")
	ErrUnknownStep         = errors.New("asset: unknown movement step kind")
)

// StepKind discriminates movement plan steps.
type StepKind int

const (
	StepTransfer StepKind = iota
	StepMint
)

// Step is one resource movement in an ordered plan. Transfer moves Amount of
// Asset from From to To; Mint creates Amount of Asset at To.
type Step struct {
	Kind   StepKind
	Asset  string
	From   string
	To     string
	Amount uint64
}

// Book is an in-memory account book keyed by asset and account. All methods
// are safe for concurrent use.
type Book struct {
	mu       sync.RWMutex
	balances map[string]map[string]uint64 // asset -> account -> balance
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{balances: make(map[string]map[string]uint64)}
}

// Balance returns the balance of account in asset.
func (b *Book) Balance(asset, account string) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[asset][account]
}

// Mint creates amount new units of asset at account.
func (b *Book) Mint(asset, account string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mint(asset, account, amount)
}

// Transfer moves amount of asset from one account to another.
func (b *Book) Transfer(asset, from, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transfer(asset, from, to, amount)
}

// Apply executes an ordered movement plan all-or-nothing: every step is
// validated against the would-be intermediate balances before any balance
// changes, so a failing step leaves the book untouched.
func (b *Book) Apply(steps []Step) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	scratch := make(map[string]map[string]uint64, len(b.balances))
	for asset, accounts := range b.balances {
		scratch[asset] = make(map[string]uint64, len(accounts))
		for account, bal := range accounts {
			scratch[asset][account] = bal
		}
	}

	saved := b.balances
	b.balances = scratch
	for i, step := range steps {
		var err error
		switch step.Kind {
		case StepTransfer:
			err = b.transfer(step.Asset, step.From, step.To, step.Amount)
		case StepMint:
			err = b.mint(step.Asset, step.To, step.Amount)
		default:
			err = ErrUnknownStep
		}
		if err != nil {
			b.balances = saved
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (b *Book) mint(asset, account string, amount uint64) error {
	accounts := b.balances[asset]
	if accounts == nil {
		accounts = make(map[string]uint64)
		b.balances[asset] = accounts
	}
	next, err := fixedpoint.Add(accounts[account], amount)
	if err != nil {
		return err
	}
	accounts[account] = next
	return nil
}

func (b *Book) transfer(asset, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	accounts := b.balances[asset]
	if accounts == nil || accounts[from] < amount {
		return fmt.Errorf("%w: %s has %d of %s, need %d",
			ErrInsufficientBalance, from, accounts[from], asset, amount)
	}
	accounts[from] -= amount
	next, err := fixedpoint.Add(accounts[to], amount)
	if err != nil {
		return err
	}
	accounts[to] = next
	return nil
}
