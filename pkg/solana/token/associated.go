package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana"
)

// AssociatedTokenAccountProgramKey is the program under which each wallet's
// canonical token account for a mint is derived.
//
// Current key: ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL
var AssociatedTokenAccountProgramKey = ed25519.PublicKey{140, 151, 37, 143, 78, 36, 137, 241, 187, 61, 16, 41, 20, 142, 13, 131, 11, 90, 19, 153, 218, 255, 16, 132, 4, 142, 123, 216, 219, 233, 248, 89}

// GetAssociatedAccount returns the associated token account holding wallet's
// balance of mint. Wallet may itself be a program derived address.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func GetAssociatedAccount(wallet, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	if len(wallet) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid wallet length: %d", len(wallet))
	}
	if len(mint) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid mint length: %d", len(mint))
	}

	address, _, err := solana.FindProgramAddressAndBump(AssociatedTokenAccountProgramKey, wallet, ProgramKey, mint)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving associated account")
	}
	return address, nil
}
