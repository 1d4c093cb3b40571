package runtime

import (
	"context"
	"crypto/ed25519"

	"github.com/code-payments/code-faucet/pkg/solana"
	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
)

// AccountInfo is an account as presented to a program for a single
// instruction. The embedded account is shared by every instruction and nested
// invocation in a transaction, so a program's writes are visible to the rest
// of it.
type AccountInfo struct {
	Key        ed25519.PublicKey
	IsSigner   bool
	IsWritable bool

	*accounts.Account
}

// Program executes instructions addressed to its program ID.
type Program interface {
	// Process executes a single instruction. Any returned error aborts the
	// whole transaction, discarding every account change made by it.
	Process(ctx context.Context, host Host, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function into a Program.
type ProgramFunc func(ctx context.Context, host Host, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error

// Process implements Program.Process
func (f ProgramFunc) Process(ctx context.Context, host Host, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	return f(ctx, host, programID, accounts, data)
}

// Host is the execution environment exposed to a running program.
type Host interface {
	// UnixTimestamp is the clock reading for the transaction. It is constant
	// for the transaction's duration.
	UnixTimestamp() int64

	// Rent returns the parameters used to compute rent-exempt balances.
	Rent() Rent

	// Invoke executes ix as a nested instruction. Every account it references
	// must be available to the caller with at least the same privileges.
	// Accounts the caller doesn't hold as signers can be signed for with
	// seeds that derive them from the caller's program ID.
	Invoke(ctx context.Context, ix solana.Instruction, signers ...solana.SignerSeeds) error
}
