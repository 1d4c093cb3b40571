package postgres

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	pgutil "github.com/code-payments/code-faucet/pkg/database/postgres"
	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed accounts.Store
func New(db *sql.DB) accounts.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Get implements accounts.Store.Get
func (s *store) Get(ctx context.Context, address ed25519.PublicKey) (*accounts.Account, error) {
	model, err := dbGetByAddress(ctx, s.db, base58.Encode(address))
	if err != nil {
		return nil, err
	}

	return fromModel(model)
}

// GetAllByOwner implements accounts.Store.GetAllByOwner
func (s *store) GetAllByOwner(ctx context.Context, owner ed25519.PublicKey) ([]*accounts.Account, error) {
	models, err := dbGetAllByOwner(ctx, s.db, base58.Encode(owner))
	if err != nil {
		return nil, err
	}

	res := make([]*accounts.Account, len(models))
	for i, model := range models {
		res[i], err = fromModel(model)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Save implements accounts.Store.Save
func (s *store) Save(ctx context.Context, records ...*accounts.Account) error {
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}

		address := base58.Encode(record.Address)
		if _, ok := seen[address]; ok {
			return errors.Errorf("duplicate account %s in batch", address)
		}
		seen[address] = struct{}{}
	}

	// Rows are always written in address order, so concurrent batches can't
	// deadlock on each other.
	ordered := make([]*accounts.Account, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool {
		return base58.Encode(ordered[i].Address) < base58.Encode(ordered[j].Address)
	})

	var models []*model
	err := pgutil.ExecuteRetryable(func() error {
		models = make([]*model, len(ordered))
		for i, record := range ordered {
			model, err := toModel(record)
			if err != nil {
				return err
			}
			models[i] = model
		}

		return dbSaveAll(ctx, s.db, models...)
	})
	if err != nil {
		return err
	}

	for i, model := range models {
		res, err := fromModel(model)
		if err != nil {
			return err
		}
		res.CopyTo(ordered[i])
	}

	return nil
}
