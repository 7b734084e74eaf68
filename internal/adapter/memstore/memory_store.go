// Package memstore provides the in-memory RecordStore. It backs tests
// and serves as the process-local fallback store when no database is
// configured; it is constructed once and injected like any other store
// implementation.
package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"digiflow-recon/internal/core/port"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
}

func New() *Store {
	return &Store{collections: make(map[string]map[string]json.RawMessage)}
}

func (s *Store) Get(_ context.Context, collection, id string) (port.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return port.Document{}, port.ErrNotFound
	}
	return port.Document{Collection: collection, ID: id, Data: clone(data)}, nil
}

func (s *Store) Query(_ context.Context, collection string, filters ...port.Filter) ([]port.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []port.Document
	for _, id := range sortedIDs(s.collections[collection]) {
		data := s.collections[collection][id]
		if !matches(data, filters) {
			continue
		}
		out = append(out, port.Document{Collection: collection, ID: id, Data: clone(data)})
	}
	return out, nil
}

func (s *Store) Scan(_ context.Context, collection string) ([]port.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]port.Document, 0, len(s.collections[collection]))
	for _, id := range sortedIDs(s.collections[collection]) {
		docs = append(docs, port.Document{Collection: collection, ID: id, Data: clone(s.collections[collection][id])})
	}
	return docs, nil
}

func (s *Store) BatchWrite(_ context.Context, ops []port.WriteOp) error {
	if len(ops) > port.MaxBatchOps {
		return port.ErrBatchTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		switch op.Kind {
		case port.OpSet:
			coll, ok := s.collections[op.Collection]
			if !ok {
				coll = make(map[string]json.RawMessage)
				s.collections[op.Collection] = coll
			}
			coll[op.ID] = clone(op.Data)
		case port.OpDelete:
			delete(s.collections[op.Collection], op.ID)
		}
	}
	return nil
}

// Len returns the number of documents in a collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func sortedIDs(coll map[string]json.RawMessage) []string {
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func matches(data json.RawMessage, filters []port.Filter) bool {
	if len(filters) == 0 {
		return true
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}
	for _, f := range filters {
		v, ok := fields[f.Field].(string)
		if !ok || v != f.Value {
			return false
		}
	}
	return true
}

func clone(data json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(data))
	copy(out, data)
	return out
}
