package faucet

import (
	"fmt"

	faucet_program "github.com/code-payments/code-faucet/pkg/solana/faucet"
)

// Errors returned by the processor. Each is a solana.CustomError, so the code
// is reported to clients through the instruction error.
var (
	ErrMalformedInput        error = faucet_program.ErrorMalformedInput
	ErrMissingSignature      error = faucet_program.ErrorMissingSignature
	ErrInvalidDerivedAddress error = faucet_program.ErrorInvalidDerivedAddress
	ErrUnauthorizedAdmin     error = faucet_program.ErrorUnauthorizedAdmin
	ErrFaucetInactive        error = faucet_program.ErrorFaucetInactive
	ErrCooldownNotMet        error = faucet_program.ErrorCooldownNotMet
	ErrInsufficientFunds     error = faucet_program.ErrorInsufficientFunds
)

// CooldownNotMetError is returned when a user claims again before their
// cooldown has elapsed.
type CooldownNotMetError struct {
	RemainingSeconds int64
}

func (e *CooldownNotMetError) Error() string {
	return fmt.Sprintf("%s: %d seconds remaining", ErrCooldownNotMet.Error(), e.RemainingSeconds)
}

func (e *CooldownNotMetError) Unwrap() error {
	return ErrCooldownNotMet
}
