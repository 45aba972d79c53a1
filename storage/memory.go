package storage

import (
	"fmt"
	"sync"
)

// MemoryStore is a Store implementation powered by a map. Any number of
// readers may proceed concurrently; a writer excludes everybody else.
type MemoryStore struct {
	sync.RWMutex
	m map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m: make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(key string, value []byte) (err error) {
	s.Lock()
	s.m[key] = dup(value)
	s.Unlock()
	return nil
}

func (s *MemoryStore) Get(key string) (value []byte, err error) {
	s.RLock()
	value, ok := s.m[key]
	s.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%.40q: %w", key, ErrNotFound)
	}
	if value == nil {
		value = []byte{}
	}
	return dup(value), nil
}

// dup guards stored values against later mutation by the caller.
func dup(value []byte) []byte {
	if value == nil {
		return nil
	}
	duplicate := make([]byte, len(value))
	copy(duplicate, value)
	return duplicate
}
