package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	pgutil "github.com/code-payments/code-faucet/pkg/database/postgres"
	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
)

const (
	tableName = "faucet__core_account"

	allColumns = `id, address, owner, lamports, data, executable, version, last_updated_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`
	Owner   string `db:"owner"`

	// Stored as the two's complement of the uint64 value, since postgres
	// has no unsigned 64 bit type.
	Lamports int64  `db:"lamports"`
	Data     []byte `db:"data"`

	Executable bool `db:"executable"`

	Version       int64     `db:"version"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *accounts.Account) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	data := obj.Data
	if data == nil {
		data = []byte{}
	}

	return &model{
		Address: base58.Encode(obj.Address),
		Owner:   base58.Encode(obj.Owner),

		Lamports: int64(obj.Lamports),
		Data:     data,

		Executable: obj.Executable,

		Version:       int64(obj.Version),
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) (*accounts.Account, error) {
	address, err := base58.Decode(obj.Address)
	if err != nil {
		return nil, errors.Wrap(err, "invalid address")
	}

	owner, err := base58.Decode(obj.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid owner")
	}

	return &accounts.Account{
		Address: address,
		Owner:   owner,

		Lamports: uint64(obj.Lamports),
		Data:     obj.Data,

		Executable: obj.Executable,

		Version:       uint64(obj.Version),
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func (m *model) dbSave(ctx context.Context, tx *sqlx.Tx) error {
	var query string
	if m.Version == 0 {
		query = `INSERT INTO ` + tableName + `
			(address, owner, lamports, data, executable, version, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6 + 1, $7)

			RETURNING ` + allColumns
	} else {
		query = `UPDATE ` + tableName + `
			SET owner = $2, lamports = $3, data = $4, executable = $5, version = $6 + 1, last_updated_at = $7
			WHERE address = $1 AND version = $6

			RETURNING ` + allColumns
	}

	m.LastUpdatedAt = time.Now()

	err := tx.QueryRowxContext(
		ctx,
		query,

		m.Address,
		m.Owner,

		m.Lamports,
		m.Data,

		m.Executable,

		m.Version,
		m.LastUpdatedAt.UTC(),
	).StructScan(m)

	if pgutil.IsUniqueViolation(err) {
		return accounts.ErrStaleVersion
	}
	return pgutil.CheckNoRows(err, accounts.ErrStaleVersion)
}

func dbSaveAll(ctx context.Context, db *sqlx.DB, models ...*model) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		for _, m := range models {
			if err := m.dbSave(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

func dbGetByAddress(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + `
		FROM ` + tableName + `
		WHERE address = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, accounts.ErrAccountNotFound)
	}
	return res, nil
}

func dbGetAllByOwner(ctx context.Context, db *sqlx.DB, owner string) ([]*model, error) {
	res := []*model{}

	query := `SELECT ` + allColumns + `
		FROM ` + tableName + `
		WHERE owner = $1
		ORDER BY address ASC`

	err := db.SelectContext(ctx, &res, query, owner)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, accounts.ErrAccountNotFound)
	}
	if len(res) == 0 {
		return nil, accounts.ErrAccountNotFound
	}
	return res, nil
}
