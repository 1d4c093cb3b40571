package faucet

import (
	"crypto/ed25519"
	"errors"

	"github.com/code-payments/code-faucet/pkg/solana/system"
	"github.com/code-payments/code-faucet/pkg/solana/token"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("8XojKCyUtH7wUXZRKZLzJQp49yvYA3Xi1tuSQ5qyS954")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID    = ed25519.PublicKey(system.ProgramKey[:])
	SPL_TOKEN_PROGRAM_ID = token.ProgramKey
)
