package commitment

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"
)

func TestKnowledgeCircuitSolves(t *testing.T) {
	acc := NewAccumulator()
	prev := acc.Append(Commit("alice", 500, salt(1)))

	opening := Opening{Funder: "bob", Amount: 700, Salt: salt(2)}
	leaf := Commit(opening.Funder, opening.Amount, opening.Salt)
	next := acc.Append(leaf)

	assignment := opening.Assignment(prev, next)
	if err := test.IsSolved(&KnowledgeCircuit{}, assignment, ecc.BN254.ScalarField()); err != nil {
		t.Fatalf("valid opening failed to solve: %v", err)
	}
}

func TestKnowledgeCircuitRejectsWrongOpening(t *testing.T) {
	acc := NewAccumulator()
	prev := acc.Append(Commit("alice", 500, salt(1)))

	opening := Opening{Funder: "bob", Amount: 700, Salt: salt(2)}
	next := acc.Append(Commit(opening.Funder, opening.Amount, opening.Salt))

	// Claiming a different amount than was committed must not solve.
	lying := Opening{Funder: "bob", Amount: 9_000, Salt: salt(2)}
	assignment := lying.Assignment(prev, next)
	assignment.Commitment = PublicAssignment(Commit(opening.Funder, opening.Amount, opening.Salt), prev, next).Commitment
	if err := test.IsSolved(&KnowledgeCircuit{}, assignment, ecc.BN254.ScalarField()); err == nil {
		t.Fatal("wrong opening solved the circuit")
	}
}
