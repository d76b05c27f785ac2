package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"service-request-form/internal/form"
	"service-request-form/internal/logger"

	"github.com/allegro/bigcache/v3"
)

// MemoryStore keeps sessions JSON encoded in a bigcache instance.
// Entries expire after the cache life window.
type MemoryStore struct {
	mu    sync.Mutex
	cache *bigcache.BigCache
}

func NewMemoryStore(cache *bigcache.BigCache) *MemoryStore {
	return &MemoryStore{cache: cache}
}

func (s *MemoryStore) Save(_ context.Context, f *form.RequestForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(f)
}

func (s *MemoryStore) Get(_ context.Context, id string) (*form.RequestForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(id)
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*form.RequestForm) error) (*form.RequestForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if err := fn(f); err != nil {
		return nil, err
	}
	if err := s.write(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.cache.Delete(stateKey(id))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *MemoryStore) read(id string) (*form.RequestForm, error) {
	b, err := s.cache.Get(stateKey(id))
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f := &form.RequestForm{}
	if err := json.Unmarshal(b, f); err != nil {
		logger.Warning("Error while decoding form state", id, err)
		return nil, err
	}
	return f, nil
}

func (s *MemoryStore) write(f *form.RequestForm) error {
	data, err := json.Marshal(f)
	if err != nil {
		logger.Warning("Error while encoding form state", f.ID, err)
		return err
	}

	if err := s.cache.Set(stateKey(f.ID), data); err != nil {
		logger.Warning("Error while write form state to cache", f.ID, err)
		return err
	}
	logger.Debug("Form state saved", f.ID, string(f.Status))
	return nil
}
