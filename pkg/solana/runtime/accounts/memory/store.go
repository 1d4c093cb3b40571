package memory

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
)

type store struct {
	mu      sync.Mutex
	records map[string]*accounts.Account
}

// New returns a new in memory accounts.Store
func New() accounts.Store {
	return &store{
		records: make(map[string]*accounts.Account),
	}
}

// Get implements accounts.Store.Get
func (s *store) Get(_ context.Context, address ed25519.PublicKey) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.records[string(address)]; ok {
		return item.Clone(), nil
	}
	return nil, accounts.ErrAccountNotFound
}

// GetAllByOwner implements accounts.Store.GetAllByOwner
func (s *store) GetAllByOwner(_ context.Context, owner ed25519.PublicKey) ([]*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*accounts.Account
	for _, item := range s.records {
		if bytes.Equal(item.Owner, owner) {
			res = append(res, item.Clone())
		}
	}

	if len(res) == 0 {
		return nil, accounts.ErrAccountNotFound
	}

	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Address, res[j].Address) < 0
	})
	return res, nil
}

// Save implements accounts.Store.Save
func (s *store) Save(_ context.Context, records ...*accounts.Account) error {
	seen := make(map[string]struct{})
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}

		if _, ok := seen[string(record.Address)]; ok {
			return errors.New("duplicate address in batch")
		}
		seen[string(record.Address)] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		var storedVersion uint64
		if item, ok := s.records[string(record.Address)]; ok {
			storedVersion = item.Version
		}
		if storedVersion != record.Version {
			return accounts.ErrStaleVersion
		}
	}

	now := time.Now()
	for _, record := range records {
		record.Version++
		record.LastUpdatedAt = now
		s.records[string(record.Address)] = record.Clone()
	}

	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = make(map[string]*accounts.Account)
	s.mu.Unlock()
}
