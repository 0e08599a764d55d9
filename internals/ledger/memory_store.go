// internals/ledger/memory_store.go
package ledger

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore: AccountStore in-memory untuk test & mode dev.
// Mutex tunggal cukup; set record kecil dan append-only.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[Address][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[Address][]byte)}
}

func (s *MemoryStore) Create(_ context.Context, addr Address, _ Discriminator, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[addr]; ok {
		return ErrDuplicateAccount
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.accounts[addr] = cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, addr Address) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.accounts[addr]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryStore) Update(_ context.Context, addr Address, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[addr]; !ok {
		return ErrAccountNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.accounts[addr] = cp
	return nil
}

func (s *MemoryStore) Scan(_ context.Context, filter ScopeFilter) ([]RawAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []RawAccount
	for addr, data := range s.accounts {
		if len(data) < OwnerOffset+32 {
			continue
		}
		if !bytes.Equal(data[0:8], filter.Discriminator[:]) {
			continue
		}
		if !bytes.Equal(data[OwnerOffset:OwnerOffset+32], filter.Owner[:]) {
			continue
		}
		cp := make([]byte, len(data))
		copy(cp, data)
		out = append(out, RawAccount{Address: addr, Data: cp})
	}
	return out, nil
}
