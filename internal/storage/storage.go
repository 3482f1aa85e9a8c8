// Package storage is the durable client storage boundary: a small key-value
// store scoped to the current profile, holding the cart snapshot, the fallback
// order list and the session records. Writes are last-writer-wins; concurrent
// writers from another process can race on the same record.
package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("record not found")

type Store interface {
	Get(c context.Context, key string) (string, error)
	Set(c context.Context, key string, value string) error
	Remove(c context.Context, key string) error
}

// MemoryStore is an in-process Store used by tests and as a throwaway profile.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]string{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
