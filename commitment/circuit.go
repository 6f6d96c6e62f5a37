package commitment

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// KnowledgeCircuit proves knowledge of a commitment opening without
// revealing it: the prover holds (funder, amount, salt) such that
// MiMC(funder || amount || salt) equals the public commitment, and chaining
// the commitment onto the public previous root yields the public new root.
//
// The in-circuit MiMC matches the native hash in this package, so a leaf
// recorded by the accumulator verifies against a proof over the same inputs.
type KnowledgeCircuit struct {
	Funder frontend.Variable `gnark:",secret"`
	Amount frontend.Variable `gnark:",secret"`
	Salt   frontend.Variable `gnark:",secret"`

	Commitment frontend.Variable `gnark:",public"`
	PrevRoot   frontend.Variable `gnark:",public"`
	NewRoot    frontend.Variable `gnark:",public"`
}

// Define declares the circuit constraints.
func (c *KnowledgeCircuit) Define(api frontend.API) error {
	leaf, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	leaf.Write(c.Funder, c.Amount, c.Salt)
	api.AssertIsEqual(c.Commitment, leaf.Sum())

	chain, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	chain.Write(c.PrevRoot, c.Commitment)
	api.AssertIsEqual(c.NewRoot, chain.Sum())
	return nil
}

// Opening is the witness-side view of a private contribution.
type Opening struct {
	Funder string
	Amount uint64
	Salt   [32]byte
}

// Assignment builds a full witness for proving that opening extends
// prevRoot to newRoot.
func (o Opening) Assignment(prevRoot, newRoot Digest) *KnowledgeCircuit {
	leaf := Commit(o.Funder, o.Amount, o.Salt)
	return &KnowledgeCircuit{
		Funder:     fieldValue([]byte(o.Funder)),
		Amount:     fieldValue(amountBlock(o.Amount)),
		Salt:       fieldValue(o.Salt[:]),
		Commitment: fieldValue(leaf[:]),
		PrevRoot:   fieldValue(prevRoot[:]),
		NewRoot:    fieldValue(newRoot[:]),
	}
}

// PublicAssignment builds the verifier-side witness: only the commitment and
// the two roots.
func PublicAssignment(leaf, prevRoot, newRoot Digest) *KnowledgeCircuit {
	return &KnowledgeCircuit{
		Commitment: fieldValue(leaf[:]),
		PrevRoot:   fieldValue(prevRoot[:]),
		NewRoot:    fieldValue(newRoot[:]),
	}
}

// fieldValue reduces bytes into the scalar field, matching the native
// block() reduction.
func fieldValue(b []byte) *big.Int {
	var e fr.Element
	e.SetBytes(b)
	return e.BigInt(new(big.Int))
}
