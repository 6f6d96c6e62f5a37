// Package record is a compact, versioned record store with validity
// digests, used as the durable persistence path for the private-round
// ledger. Records are keyed by an address derived from a namespace and key,
// and each write produces a digest that readers re-check on load.
//
// The store also models write delegation: a record can be handed to an
// external execution context, which later commits the mutated payload back
// and releases its authority in one step.
package record

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sync"
)

var (
	ErrNotFound      = errors.New("record: not found")
	ErrInvalidDigest = errors.New("record: validity digest mismatch")
	ErrDelegated     = errors.New("record: write authority is delegated")
	ErrNotDelegate   = errors.New("record: caller does not hold the delegation")
)

// Address identifies a record.
type Address [32]byte

// DeriveAddress computes the record address for a namespace and key.
func DeriveAddress(namespace, key string) Address {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	h.Write([]byte(key))
	var a Address
	copy(a[:], h.Sum(nil))
	return a
}

// Record is one stored version of an opaque payload.
type Record struct {
	Address Address
	Version uint64
	Payload []byte
	Digest  [32]byte
}

// digest binds address, version and payload.
func digest(addr Address, version uint64, payload []byte) [32]byte {
	h := sha256.New()
	h.Write(addr[:])
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], version)
	h.Write(v[:])
	h.Write(payload)
	var d [32]byte
	copy(d[:], h.Sum(nil))
	return d
}

// Verify re-checks a record's validity digest.
func (r *Record) Verify() error {
	if digest(r.Address, r.Version, r.Payload) != r.Digest {
		return ErrInvalidDigest
	}
	return nil
}

// Store holds records in memory, guarded for concurrent use.
type Store struct {
	mu        sync.RWMutex
	records   map[Address]*Record
	delegates map[Address]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records:   make(map[Address]*Record),
		delegates: make(map[Address]string),
	}
}

// Put writes the next version of the record at addr. It fails while the
// record's write authority is delegated.
func (s *Store) Put(addr Address, payload []byte) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.delegates[addr]; ok {
		return nil, ErrDelegated
	}
	return s.put(addr, payload), nil
}

// Get returns the current record at addr after re-checking its digest.
func (s *Store) Get(addr Address) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[addr]
	if !ok {
		return nil, ErrNotFound
	}
	if err := rec.Verify(); err != nil {
		return nil, err
	}
	cp := *rec
	cp.Payload = append([]byte(nil), rec.Payload...)
	return &cp, nil
}

// Delegate hands write authority for addr to holder. Regular writes are
// rejected until the holder commits back.
func (s *Store) Delegate(addr Address, holder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.delegates[addr]; ok && current != holder {
		return ErrDelegated
	}
	s.delegates[addr] = holder
	return nil
}

// CommitAndUndelegate writes the payload produced by the delegated context
// and releases the delegation atomically.
func (s *Store) CommitAndUndelegate(addr Address, holder string, payload []byte) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.delegates[addr]
	if !ok || current != holder {
		return nil, ErrNotDelegate
	}
	delete(s.delegates, addr)
	return s.put(addr, payload), nil
}

func (s *Store) put(addr Address, payload []byte) *Record {
	var version uint64
	if prev, ok := s.records[addr]; ok {
		version = prev.Version + 1
	}
	rec := &Record{
		Address: addr,
		Version: version,
		Payload: append([]byte(nil), payload...),
		Digest:  digest(addr, version, payload),
	}
	s.records[addr] = rec
	return rec
}
