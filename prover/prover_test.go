package prover

import (
	"testing"

	"github.com/launchpad-xyz/go-launchpad/commitment"
)

func testSalt(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

func TestProveAndVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}

	acc := commitment.NewAccumulator()
	prev := acc.Append(commitment.Commit("alice", 500, testSalt(1)))

	opening := commitment.Opening{Funder: "bob", Amount: 700, Salt: testSalt(2)}
	next := acc.Append(commitment.Commit(opening.Funder, opening.Amount, opening.Salt))

	p := New()
	proof, err := p.Prove(opening, prev, next)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Verify(proof); err != nil {
		t.Errorf("valid proof rejected: %v", err)
	}

	// Tampered public inputs must fail verification.
	proof.NewRoot = prev
	if err := p.Verify(proof); err == nil {
		t.Error("proof with tampered root verified")
	}
}
