// Package prover wraps Groth16 compile/setup/prove/verify for the private
// channel's commitment knowledge circuit. A funder can hand the campaign
// operator a proof that a recorded commitment opens to their contribution
// without revealing the contribution itself.
package prover

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/launchpad-xyz/go-launchpad/commitment"
)

// Prover holds the compiled commitment circuit and its keys. Compilation and
// trusted setup run once, lazily, on first use.
type Prover struct {
	mu    sync.Mutex
	curve ecc.ID

	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey
}

// Proof is a Groth16 proof together with the public inputs it binds.
type Proof struct {
	Proof    groth16.Proof
	Leaf     commitment.Digest
	PrevRoot commitment.Digest
	NewRoot  commitment.Digest
}

// New creates a prover on BN254.
func New() *Prover {
	return &Prover{curve: ecc.BN254}
}

// setup compiles the circuit and runs trusted setup if not done yet.
// In production the setup would come from a ceremony; local setup is enough
// for attestation between funder and operator.
func (p *Prover) setup() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cs != nil {
		return nil
	}

	cs, err := frontend.Compile(p.curve.ScalarField(), r1cs.NewBuilder, &commitment.KnowledgeCircuit{})
	if err != nil {
		return fmt.Errorf("prover: circuit compilation failed: %w", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("prover: setup failed: %w", err)
	}
	p.cs, p.pk, p.vk = cs, pk, vk
	return nil
}

// Constraints returns the compiled constraint count, compiling on demand.
func (p *Prover) Constraints() (int, error) {
	if err := p.setup(); err != nil {
		return 0, err
	}
	return p.cs.GetNbConstraints(), nil
}

// Prove generates a proof that opening extends prevRoot to newRoot.
func (p *Prover) Prove(opening commitment.Opening, prevRoot, newRoot commitment.Digest) (*Proof, error) {
	if err := p.setup(); err != nil {
		return nil, err
	}

	assignment := opening.Assignment(prevRoot, newRoot)
	witness, err := frontend.NewWitness(assignment, p.curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("prover: witness creation failed: %w", err)
	}
	proof, err := groth16.Prove(p.cs, p.pk, witness)
	if err != nil {
		return nil, fmt.Errorf("prover: proof generation failed: %w", err)
	}

	return &Proof{
		Proof:    proof,
		Leaf:     commitment.Commit(opening.Funder, opening.Amount, opening.Salt),
		PrevRoot: prevRoot,
		NewRoot:  newRoot,
	}, nil
}

// Verify checks a proof against its public inputs.
func (p *Prover) Verify(proof *Proof) error {
	if err := p.setup(); err != nil {
		return err
	}

	public := commitment.PublicAssignment(proof.Leaf, proof.PrevRoot, proof.NewRoot)
	witness, err := frontend.NewWitness(public, p.curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("prover: public witness creation failed: %w", err)
	}
	if err := groth16.Verify(proof.Proof, p.vk, witness); err != nil {
		return fmt.Errorf("prover: verification failed: %w", err)
	}
	return nil
}
