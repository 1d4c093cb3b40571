package accounts

import (
	"context"
	"crypto/ed25519"
)

type Store interface {
	// Get gets the latest state of an account by its address
	//
	// ErrAccountNotFound is returned if the account has never been saved.
	Get(ctx context.Context, address ed25519.PublicKey) (*Account, error)

	// GetAllByOwner gets all accounts owned by the provided program
	GetAllByOwner(ctx context.Context, owner ed25519.PublicKey) ([]*Account, error)

	// Save atomically saves a batch of accounts. Each account's Version must
	// match the stored version, or be zero for an account that doesn't exist yet.
	// Otherwise, ErrStaleVersion is returned and nothing is saved. On success,
	// versions and timestamps are updated in place.
	Save(ctx context.Context, records ...*Account) error
}
