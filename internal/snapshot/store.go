package snapshot

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/tliron/glsp/protocol_3_16"
)

// Retained is how many recently published snapshots a Store keeps
// addressable by ID, across all documents.
const Retained = 32

// Store publishes the latest Snapshot per document. Readers load a snapshot
// once per request and keep it for the whole request. The last Retained
// snapshots stay reachable through Lookup so that work started on one of
// them can finish on it after newer versions were published.
type Store struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*atomic.Pointer[Snapshot]

	recent map[uuid.UUID]*Snapshot
	order  []uuid.UUID
}

func NewStore() *Store {
	return &Store{
		docs:   make(map[protocol.DocumentUri]*atomic.Pointer[Snapshot]),
		recent: make(map[uuid.UUID]*Snapshot),
	}
}

// Publish replaces the snapshot for snap.URI. Publish and Close for the
// same URI are ordered by the store lock, so a snapshot is never stored
// into a document that was closed concurrently.
func (s *Store) Publish(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.docs[snap.URI]
	if !ok {
		p = new(atomic.Pointer[Snapshot])
		s.docs[snap.URI] = p
	}
	p.Store(snap)
	s.retain(snap)
}

// retain records snap for Lookup and evicts the oldest entry beyond
// Retained. Callers hold s.mu.
func (s *Store) retain(snap *Snapshot) {
	if _, ok := s.recent[snap.ID]; ok {
		return
	}
	s.recent[snap.ID] = snap
	s.order = append(s.order, snap.ID)
	if len(s.order) > Retained {
		delete(s.recent, s.order[0])
		s.order = s.order[1:]
	}
}

// Lookup returns a recently published snapshot by ID, even if a newer one
// has replaced it. Snapshots of closed documents are not returned.
func (s *Store) Lookup(id uuid.UUID) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.recent[id]
	return snap, ok
}

// Update compiles content and publishes the result.
func (s *Store) Update(uri protocol.DocumentUri, version protocol.Integer, content string) *Snapshot {
	snap := New(uri, version, content)
	s.Publish(snap)
	return snap
}

// Get returns the current snapshot for uri.
func (s *Store) Get(uri protocol.DocumentUri) (*Snapshot, bool) {
	s.mu.RLock()
	p, ok := s.docs[uri]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	snap := p.Load()
	return snap, snap != nil
}

// Close forgets uri and every retained snapshot of it.
func (s *Store) Close(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
	kept := s.order[:0]
	for _, id := range s.order {
		if s.recent[id].URI == uri {
			delete(s.recent, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// URIs lists the open documents in sorted order.
func (s *Store) URIs() []protocol.DocumentUri {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]protocol.DocumentUri, 0, len(s.docs))
	for uri := range s.docs {
		out = append(out, uri)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
