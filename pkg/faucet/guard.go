package faucet

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	faucet_program "github.com/code-payments/code-faucet/pkg/solana/faucet"
	"github.com/code-payments/code-faucet/pkg/solana/runtime"
	"github.com/code-payments/code-faucet/pkg/solana/token"
)

func requireAccounts(accounts []*runtime.AccountInfo, n int) error {
	if len(accounts) < n {
		return errors.Wrapf(runtime.ErrNotEnoughAccountKeys, "expected %d accounts, got %d", n, len(accounts))
	}
	return nil
}

func requireSigner(account *runtime.AccountInfo) error {
	if !account.IsSigner {
		return errors.Wrapf(ErrMissingSignature, "%s did not sign", base58.Encode(account.Key))
	}
	return nil
}

func requireDerivedAddress(account *runtime.AccountInfo, expected ed25519.PublicKey) error {
	if !bytes.Equal(account.Key, expected) {
		return errors.Wrapf(
			ErrInvalidDerivedAddress,
			"expected %s, got %s",
			base58.Encode(expected),
			base58.Encode(account.Key),
		)
	}
	return nil
}

func requireAdmin(signer *runtime.AccountInfo, config *faucet_program.FaucetConfigAccount) error {
	if !bytes.Equal(signer.Key, config.Admin) {
		return errors.Wrapf(ErrUnauthorizedAdmin, "%s is not the admin", base58.Encode(signer.Key))
	}
	return nil
}

func requireValidCooldown(cooldownSecs int64) error {
	if cooldownSecs < 0 {
		return errors.Wrapf(ErrMalformedInput, "negative cooldown: %d", cooldownSecs)
	}
	return nil
}

// isUnallocated reports whether a derived account has yet to be created.
// It may still hold lamports sent to it by anyone.
func isUnallocated(account *runtime.AccountInfo) bool {
	return len(account.Data) == 0 && bytes.Equal(account.Owner, runtime.SystemProgramID)
}

func loadConfig(programID ed25519.PublicKey, account *runtime.AccountInfo) (*faucet_program.FaucetConfigAccount, error) {
	if !bytes.Equal(account.Owner, programID) {
		return nil, errors.Wrap(ErrMalformedInput, "config account not owned by program")
	}

	var config faucet_program.FaucetConfigAccount
	if err := config.Unmarshal(account.Data); err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "invalid config account: %v", err)
	}
	return &config, nil
}

func loadUserClaimRecord(programID ed25519.PublicKey, account *runtime.AccountInfo) (*faucet_program.UserClaimRecordAccount, error) {
	if !bytes.Equal(account.Owner, programID) {
		return nil, errors.Wrap(ErrMalformedInput, "user claim record not owned by program")
	}

	var record faucet_program.UserClaimRecordAccount
	if err := record.Unmarshal(account.Data); err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "invalid user claim record: %v", err)
	}
	return &record, nil
}

func loadMint(account *runtime.AccountInfo) (*token.Mint, error) {
	if !bytes.Equal(account.Owner, token.ProgramKey) {
		return nil, errors.Wrap(ErrMalformedInput, "mint not owned by token program")
	}

	var mint token.Mint
	if !mint.Unmarshal(account.Data) || !mint.IsInitialized {
		return nil, errors.Wrap(ErrMalformedInput, "invalid mint")
	}
	return &mint, nil
}

func loadTokenAccount(account *runtime.AccountInfo) (*token.Account, error) {
	if !bytes.Equal(account.Owner, token.ProgramKey) {
		return nil, errors.Wrap(ErrMalformedInput, "token account not owned by token program")
	}

	var tokenAccount token.Account
	if !tokenAccount.Unmarshal(account.Data) || tokenAccount.State == token.AccountStateUninitialized {
		return nil, errors.Wrap(ErrMalformedInput, "invalid token account")
	}
	return &tokenAccount, nil
}

// store writes an encoded record into an account allocated for it
func store(account *runtime.AccountInfo, data []byte) error {
	if len(account.Data) != len(data) {
		return errors.Wrapf(ErrMalformedInput, "account holds %d bytes, record needs %d", len(account.Data), len(data))
	}
	copy(account.Data, data)
	return nil
}
