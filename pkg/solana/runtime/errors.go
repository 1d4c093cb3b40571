package runtime

import (
	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana"
)

// Host level instruction failures. Each error's text is its
// solana.InstructionErrorKey, so solana.InstructionError.ErrorKey reports it.
var (
	ErrInvalidArgument             = newInstructionError(solana.InstructionErrorInvalidArgument)
	ErrInvalidInstructionData      = newInstructionError(solana.InstructionErrorInvalidInstructionData)
	ErrInvalidAccountData          = newInstructionError(solana.InstructionErrorInvalidAccountData)
	ErrIncorrectProgramID          = newInstructionError(solana.InstructionErrorIncorrectProgramID)
	ErrMissingRequiredSignature    = newInstructionError(solana.InstructionErrorMissingRequiredSignature)
	ErrUnbalancedInstruction       = newInstructionError(solana.InstructionErrorUnbalancedInstruction)
	ErrModifiedProgramID           = newInstructionError(solana.InstructionErrorModifiedProgramID)
	ErrExternalAccountLamportSpend = newInstructionError(solana.InstructionErrorExternalAccountLamportSpend)
	ErrExternalAccountDataModified = newInstructionError(solana.InstructionErrorExternalAccountDataModified)
	ErrReadonlyLamportChange       = newInstructionError(solana.InstructionErrorReadonlyLamportChange)
	ErrReadonlyDataModified        = newInstructionError(solana.InstructionErrorReadonlyDataModified)
	ErrExecutableModified          = newInstructionError(solana.InstructionErrorExecutableModified)
	ErrNotEnoughAccountKeys        = newInstructionError(solana.InstructionErrorNotEnoughAccountKeys)
	ErrUnsupportedProgramID        = newInstructionError(solana.InstructionErrorUnsupportedProgramID)
	ErrCallDepth                   = newInstructionError(solana.InstructionErrorCallDepth)
	ErrMissingAccount              = newInstructionError(solana.InstructionErrorMissingAccount)
	ErrPrivilegeEscalation         = newInstructionError(solana.InstructionErrorPrivilegeEscalation)
)

func newInstructionError(key solana.InstructionErrorKey) error {
	return errors.New(string(key))
}
