package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/code-faucet/pkg/retry"
	"github.com/code-payments/code-faucet/pkg/retry/backoff"
)

const (
	maxRetriableTxAttempts = 5
	retriableTxBaseDelay   = 10 * time.Millisecond
	retriableTxMaxDelay    = 250 * time.Millisecond
)

type txStructContextKey struct{}
type txIsolationContextKey struct{}

var (
	ErrAlreadyInTx = errors.New("already executing in existing db tx")
	ErrNotInTx     = errors.New("not executing in existing db tx")
)

// ExecuteRetryable retries fn while it fails with an error postgres reports as
// safe to retry (serialization failures and deadlocks).
func ExecuteRetryable(fn func() error) error {
	_, err := retry.Retry(
		fn,
		retry.RetriableIf(IsRetriableTxError),
		retry.Limit(maxRetriableTxAttempts),
		retry.BackoffWithJitter(backoff.BinaryExponential(retriableTxBaseDelay), retriableTxMaxDelay, 0.1),
	)
	return err
}

// ExecuteInTx is meant for DB store implementations to execute an operation within
// the scope of a DB transaction. Nested calls with a transaction already in the
// context reuse it, and the outermost caller is responsible for commit/rollback.
func ExecuteInTx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) (err error) {
	if isolation == sql.LevelDefault {
		isolation = sql.LevelReadCommitted // Postgres default
	}

	tx, err := getTxFromCtx(ctx, isolation)
	if err != nil && err != ErrNotInTx {
		return err
	}

	var startedNewTx bool // To determine who is responsible for commit/rollback
	if err == ErrNotInTx {
		startedNewTx = true
		tx, err = db.BeginTxx(ctx, &sql.TxOptions{
			Isolation: isolation,
		})
		if err != nil {
			return err
		}
	}

	err = fn(tx)
	if err != nil {
		if startedNewTx {
			// We always need to execute a Rollback() so sql.DB releases the connection.
			if rollBackErr := tx.Rollback(); rollBackErr != nil {
				return fmt.Errorf("failed to rollback transaction: %w", rollBackErr)
			}
		}
		return err
	}
	if startedNewTx {
		return tx.Commit()
	}
	return nil
}

// WithTx attaches an existing transaction to the context, so ExecuteInTx calls
// made with it join the transaction instead of starting their own.
func WithTx(ctx context.Context, tx *sqlx.Tx, isolation sql.IsolationLevel) context.Context {
	if isolation == sql.LevelDefault {
		isolation = sql.LevelReadCommitted
	}
	ctx = context.WithValue(ctx, txStructContextKey{}, tx)
	return context.WithValue(ctx, txIsolationContextKey{}, isolation)
}

func getTxFromCtx(ctx context.Context, desiredIsolation sql.IsolationLevel) (*sqlx.Tx, error) {
	txFromCtx := ctx.Value(txStructContextKey{})
	if txFromCtx == nil {
		return nil, ErrNotInTx
	}

	isolationFromCtx := ctx.Value(txIsolationContextKey{})
	if isolationFromCtx == nil {
		return nil, errors.New("unexpectedly don't have isolation level set")
	}

	tx, ok := txFromCtx.(*sqlx.Tx)
	if !ok {
		return nil, errors.New("invalid type for tx")
	}

	currentIsolation, ok := isolationFromCtx.(sql.IsolationLevel)
	if !ok {
		return nil, errors.New("invalid type for isolation")
	}

	if currentIsolation < desiredIsolation {
		return nil, errors.New("current tx doesn't meet isolation level requirements")
	}

	return tx, nil
}
