package asset

import (
	"errors"
	"testing"
)

func TestMintAndTransfer(t *testing.T) {
	b := NewBook()
	if err := b.Mint("usdc", "alice", 1000); err != nil {
		t.Fatal(err)
	}
	if err := b.Transfer("usdc", "alice", "bob", 400); err != nil {
		t.Fatal(err)
	}
	if got := b.Balance("usdc", "alice"); got != 600 {
		t.Errorf("alice = %d, want 600", got)
	}
	if got := b.Balance("usdc", "bob"); got != 400 {
		t.Errorf("bob = %d, want 400", got)
	}
}

func TestTransferInsufficient(t *testing.T) {
	b := NewBook()
	b.Mint("usdc", "alice", 100)
	err := b.Transfer("usdc", "alice", "bob", 200)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("err = %v, want ErrInsufficientBalance", err)
	}
	if got := b.Balance("usdc", "alice"); got != 100 {
		t.Errorf("failed transfer mutated balance: %d", got)
	}
}

func TestTransferZeroIsNoop(t *testing.T) {
	b := NewBook()
	if err := b.Transfer("usdc", "alice", "bob", 0); err != nil {
		t.Errorf("zero transfer: %v", err)
	}
}

func TestApplyAllOrNothing(t *testing.T) {
	b := NewBook()
	b.Mint("usdc", "vault", 1000)

	// Second step overdraws; the first must be rolled back.
	steps := []Step{
		{Kind: StepTransfer, Asset: "usdc", From: "vault", To: "treasury", Amount: 800},
		{Kind: StepTransfer, Asset: "usdc", From: "vault", To: "liquidity", Amount: 800},
	}
	if err := b.Apply(steps); err == nil {
		t.Fatal("overdrawing plan succeeded")
	}
	if got := b.Balance("usdc", "vault"); got != 1000 {
		t.Errorf("vault = %d after failed plan, want 1000", got)
	}
	if got := b.Balance("usdc", "treasury"); got != 0 {
		t.Errorf("treasury = %d after failed plan, want 0", got)
	}

	// A valid plan applies in order, including mint-then-spend.
	steps = []Step{
		{Kind: StepMint, Asset: "token", To: "vault", Amount: 500},
		{Kind: StepTransfer, Asset: "token", From: "vault", To: "liquidity", Amount: 200},
		{Kind: StepTransfer, Asset: "usdc", From: "vault", To: "treasury", Amount: 1000},
	}
	if err := b.Apply(steps); err != nil {
		t.Fatal(err)
	}
	if got := b.Balance("token", "vault"); got != 300 {
		t.Errorf("token vault = %d, want 300", got)
	}
	if got := b.Balance("usdc", "treasury"); got != 1000 {
		t.Errorf("treasury = %d, want 1000", got)
	}
}

func TestMetadataRegistry(t *testing.T) {
	r := NewMetadataRegistry()
	md := Metadata{Name: "Launch Token", Symbol: "LNCH", URI: "https://example.com/lnch.json"}

	if err := r.Register("token", "admin", md); err != nil {
		t.Fatal(err)
	}
	if err := r.Register("token", "admin", md); !errors.Is(err, ErrMetadataExists) {
		t.Errorf("double register: err = %v", err)
	}

	got, err := r.Get("token")
	if err != nil || got.Symbol != "LNCH" {
		t.Errorf("Get = %+v, %v", got, err)
	}

	if err := r.Update("token", "mallory", Metadata{Name: "evil"}); !errors.Is(err, ErrNotMetadataOwner) {
		t.Errorf("foreign update: err = %v", err)
	}
	if err := r.Update("token", "admin", Metadata{Name: "Launch Token v2", Symbol: "LNCH", URI: ""}); err != nil {
		t.Errorf("owner update: %v", err)
	}
	got, _ = r.Get("token")
	if got.Name != "Launch Token v2" {
		t.Errorf("update not applied: %+v", got)
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrMetadataNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}
