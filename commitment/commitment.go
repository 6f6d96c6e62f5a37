// Package commitment implements the private funding channel's blinded
// contribution ledger: a MiMC commitment over (funder, amount, salt), a
// chained accumulator over all recorded commitments, and a nullifier set
// that prevents a commitment from being redeemed twice.
//
// One hash scheme is used everywhere. A commitment leaf is
// MiMC(funder || amount || salt) over the BN254 scalar field, and the
// accumulator root extends by root' = MiMC(root || leaf). Verification at
// claim time recomputes the leaf from the caller-supplied opening and checks
// membership against the retained leaves.
package commitment

import (
	"encoding/binary"
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// Digest is a 32-byte canonical field-element digest.
type Digest [32]byte

var (
	ErrNotRecorded  = errors.New("commitment: not recorded in accumulator")
	ErrAlreadySpent = errors.New("commitment: nullifier already spent")
)

// nullifierTag domain-separates nullifier digests from chain digests.
var nullifierTag = []byte("launchpad.nullifier.v1")

// block reduces arbitrary bytes into a canonical 32-byte field element so
// every MiMC write is block-aligned and below the modulus.
func block(b []byte) []byte {
	var e fr.Element
	e.SetBytes(b)
	out := e.Bytes()
	return out[:]
}

// amountBlock encodes a uint64 amount as a little-endian field block.
func amountBlock(amount uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], amount)
	return block(buf[:])
}

// Commit computes the commitment leaf for a private contribution.
func Commit(funder string, amount uint64, salt [32]byte) Digest {
	h := mimc.NewMiMC()
	h.Write(block([]byte(funder)))
	h.Write(amountBlock(amount))
	h.Write(block(salt[:]))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Chain extends a running root with the next leaf.
func Chain(root, leaf Digest) Digest {
	h := mimc.NewMiMC()
	h.Write(block(root[:]))
	h.Write(block(leaf[:]))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Nullifier derives the spend marker for a commitment leaf.
func Nullifier(leaf Digest) Digest {
	h := mimc.NewMiMC()
	h.Write(block(leaf[:]))
	h.Write(block(nullifierTag))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Accumulator is the append-only commitment ledger for one campaign's
// private round. It retains every leaf so that membership can be re-checked
// with the same scheme that built the root.
type Accumulator struct {
	root   Digest
	leaves []Digest
}

// NewAccumulator creates an empty accumulator with a zero root.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append records a new leaf and returns the extended root. The first leaf
// becomes the root; later leaves chain onto it.
func (a *Accumulator) Append(leaf Digest) Digest {
	if len(a.leaves) == 0 {
		a.root = leaf
	} else {
		a.root = Chain(a.root, leaf)
	}
	a.leaves = append(a.leaves, leaf)
	return a.root
}

// Root returns the current chained root.
func (a *Accumulator) Root() Digest {
	return a.root
}

// Count returns the number of recorded leaves.
func (a *Accumulator) Count() int {
	return len(a.leaves)
}

// Contains reports whether leaf was recorded.
func (a *Accumulator) Contains(leaf Digest) bool {
	for _, l := range a.leaves {
		if l == leaf {
			return true
		}
	}
	return false
}

// Verify recomputes the leaf from an opening and checks membership.
func (a *Accumulator) Verify(funder string, amount uint64, salt [32]byte) error {
	if !a.Contains(Commit(funder, amount, salt)) {
		return ErrNotRecorded
	}
	return nil
}

// Recompute rebuilds the root from the retained leaves. Used to validate a
// state reloaded from an external record store.
func (a *Accumulator) Recompute() Digest {
	var root Digest
	for i, leaf := range a.leaves {
		if i == 0 {
			root = leaf
		} else {
			root = Chain(root, leaf)
		}
	}
	return root
}

// MarshalBinary encodes the accumulator as root || count || leaves.
func (a *Accumulator) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, 32+4+32*len(a.leaves))
	out = append(out, a.root[:]...)
	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(a.leaves)))
	out = append(out, count[:]...)
	for _, leaf := range a.leaves {
		out = append(out, leaf[:]...)
	}
	return out, nil
}

// UnmarshalBinary decodes an accumulator and checks the encoded root against
// a recomputation from the leaves.
func (a *Accumulator) UnmarshalBinary(data []byte) error {
	if len(data) < 36 {
		return errors.New("commitment: truncated accumulator encoding")
	}
	var root Digest
	copy(root[:], data[:32])
	count := binary.BigEndian.Uint32(data[32:36])
	if uint64(len(data)) != 36+32*uint64(count) {
		return errors.New("commitment: accumulator length mismatch")
	}
	leaves := make([]Digest, count)
	for i := range leaves {
		copy(leaves[i][:], data[36+32*i:])
	}
	a.root = root
	a.leaves = leaves
	if a.Recompute() != root {
		return errors.New("commitment: accumulator root mismatch")
	}
	return nil
}

// NullifierSet tracks spent commitments for the private channel.
type NullifierSet struct {
	spent map[Digest]struct{}
}

// NewNullifierSet creates an empty nullifier set.
func NewNullifierSet() *NullifierSet {
	return &NullifierSet{spent: make(map[Digest]struct{})}
}

// Spend marks a leaf's nullifier as consumed. It fails if the nullifier was
// already spent.
func (s *NullifierSet) Spend(leaf Digest) error {
	n := Nullifier(leaf)
	if _, ok := s.spent[n]; ok {
		return ErrAlreadySpent
	}
	s.spent[n] = struct{}{}
	return nil
}

// Spent reports whether a leaf's nullifier was consumed.
func (s *NullifierSet) Spent(leaf Digest) bool {
	_, ok := s.spent[Nullifier(leaf)]
	return ok
}

// Len returns the number of spent nullifiers.
func (s *NullifierSet) Len() int {
	return len(s.spent)
}
