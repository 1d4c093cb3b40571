package faucet

import "github.com/code-payments/code-faucet/pkg/solana"

// ErrorCodeOffset is the first custom error code returned by the faucet
// program. Codes below it belong to the system and token programs, whose
// errors the faucet forwards unchanged.
const ErrorCodeOffset = 6000

// Custom error codes returned by the faucet program.
const (
	ErrorMalformedInput solana.CustomError = iota + ErrorCodeOffset
	ErrorMissingSignature
	ErrorInvalidDerivedAddress
	ErrorUnauthorizedAdmin
	ErrorFaucetInactive
	ErrorCooldownNotMet
	ErrorInsufficientFunds
)
