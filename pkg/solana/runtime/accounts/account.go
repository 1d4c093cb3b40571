package accounts

import (
	"bytes"
	"crypto/ed25519"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrStaleVersion    = errors.New("account version is stale")
)

// Account is the persisted state of a single address.
type Account struct {
	Address ed25519.PublicKey

	Owner      ed25519.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool

	// Version is incremented on every save. Zero means the account has never
	// been persisted.
	Version uint64

	LastUpdatedAt time.Time
}

// New returns an unpersisted, empty account at address owned by owner.
func New(address, owner ed25519.PublicKey) *Account {
	return &Account{
		Address: address,
		Owner:   owner,
	}
}

func (r *Account) Validate() error {
	if len(r.Address) != ed25519.PublicKeySize {
		return errors.New("address is invalid")
	}

	if len(r.Owner) != ed25519.PublicKeySize {
		return errors.New("owner is invalid")
	}

	return nil
}

// IsEmpty reports whether the account holds neither lamports nor data.
func (r *Account) IsEmpty() bool {
	return r.Lamports == 0 && len(r.Data) == 0
}

// StateEquals compares everything but persistence metadata.
func (r *Account) StateEquals(other *Account) bool {
	return bytes.Equal(r.Address, other.Address) &&
		bytes.Equal(r.Owner, other.Owner) &&
		r.Lamports == other.Lamports &&
		bytes.Equal(r.Data, other.Data) &&
		r.Executable == other.Executable
}

func (r *Account) Clone() *Account {
	return &Account{
		Address: cloneBytes(r.Address),

		Owner:      cloneBytes(r.Owner),
		Lamports:   r.Lamports,
		Data:       cloneBytes(r.Data),
		Executable: r.Executable,

		Version: r.Version,

		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Account) CopyTo(dst *Account) {
	dst.Address = cloneBytes(r.Address)

	dst.Owner = cloneBytes(r.Owner)
	dst.Lamports = r.Lamports
	dst.Data = cloneBytes(r.Data)
	dst.Executable = r.Executable

	dst.Version = r.Version

	dst.LastUpdatedAt = r.LastUpdatedAt
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
