package asset

import (
	"errors"
	"sync"
)

var (
	ErrMetadataExists   = errors.New("asset: metadata already registered")
	ErrMetadataNotFound = errors.New("asset: metadata not registered")
	ErrNotMetadataOwner = errors.New("asset: caller is not the metadata authority")
)

// Metadata is the display record for a token.
type Metadata struct {
	Name   string
	Symbol string
	URI    string
}

type metadataEntry struct {
	data      Metadata
	authority string
}

// MetadataRegistry associates display metadata with an asset. Registration
// is one-time; the registering authority may update the record afterwards.
type MetadataRegistry struct {
	mu      sync.RWMutex
	entries map[string]*metadataEntry
}

// NewMetadataRegistry creates an empty registry.
func NewMetadataRegistry() *MetadataRegistry {
	return &MetadataRegistry{entries: make(map[string]*metadataEntry)}
}

// Register records metadata for an asset. It fails if the asset already has
// a record.
func (r *MetadataRegistry) Register(asset, authority string, md Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[asset]; ok {
		return ErrMetadataExists
	}
	r.entries[asset] = &metadataEntry{data: md, authority: authority}
	return nil
}

// Update replaces an existing record. Only the registering authority may
// update.
func (r *MetadataRegistry) Update(asset, authority string, md Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[asset]
	if !ok {
		return ErrMetadataNotFound
	}
	if entry.authority != authority {
		return ErrNotMetadataOwner
	}
	entry.data = md
	return nil
}

// Get returns the metadata for an asset.
func (r *MetadataRegistry) Get(asset string) (Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[asset]
	if !ok {
		return Metadata{}, ErrMetadataNotFound
	}
	return entry.data, nil
}
