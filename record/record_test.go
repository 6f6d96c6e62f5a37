package record

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveAddress(t *testing.T) {
	a := DeriveAddress("private_state", "campaign-1")
	b := DeriveAddress("private_state", "campaign-1")
	if a != b {
		t.Error("address derivation not deterministic")
	}
	if DeriveAddress("private_state", "campaign-2") == a {
		t.Error("different keys derived same address")
	}
	if DeriveAddress("nullifiers", "campaign-1") == a {
		t.Error("different namespaces derived same address")
	}
}

func TestPutGetVersions(t *testing.T) {
	s := NewStore()
	addr := DeriveAddress("private_state", "campaign-1")

	rec, err := s.Put(addr, []byte("v0"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Version != 0 {
		t.Errorf("first version = %d, want 0", rec.Version)
	}

	rec, err = s.Put(addr, []byte("v1"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Version != 1 {
		t.Errorf("second version = %d, want 1", rec.Version)
	}

	got, err := s.Get(addr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Payload, []byte("v1")) {
		t.Errorf("payload = %q, want v1", got.Payload)
	}
	if err := got.Verify(); err != nil {
		t.Errorf("digest check: %v", err)
	}

	if _, err := s.Get(DeriveAddress("private_state", "missing")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestDigestTamperDetected(t *testing.T) {
	s := NewStore()
	addr := DeriveAddress("private_state", "campaign-1")
	rec, _ := s.Put(addr, []byte("payload"))

	rec.Payload[0] ^= 0xff
	if err := rec.Verify(); !errors.Is(err, ErrInvalidDigest) {
		t.Errorf("tampered record: err = %v", err)
	}
}

func TestDelegation(t *testing.T) {
	s := NewStore()
	addr := DeriveAddress("private_state", "campaign-1")
	s.Put(addr, []byte("v0"))

	if err := s.Delegate(addr, "rollup"); err != nil {
		t.Fatal(err)
	}

	// Regular writes are locked out while delegated.
	if _, err := s.Put(addr, []byte("direct")); !errors.Is(err, ErrDelegated) {
		t.Errorf("write while delegated: err = %v", err)
	}

	// Only the holder may commit back.
	if _, err := s.CommitAndUndelegate(addr, "other", []byte("x")); !errors.Is(err, ErrNotDelegate) {
		t.Errorf("foreign commit: err = %v", err)
	}

	rec, err := s.CommitAndUndelegate(addr, "rollup", []byte("v1"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Version != 1 {
		t.Errorf("committed version = %d, want 1", rec.Version)
	}

	// Delegation released: direct writes work again.
	if _, err := s.Put(addr, []byte("v2")); err != nil {
		t.Errorf("write after undelegate: %v", err)
	}
}
