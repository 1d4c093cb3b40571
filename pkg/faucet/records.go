package faucet

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	faucet_program "github.com/code-payments/code-faucet/pkg/solana/faucet"
	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
)

// ProgramAccountReader reads the committed accounts owned by a program
type ProgramAccountReader interface {
	GetProgramAccounts(ctx context.Context, programID ed25519.PublicKey) ([]*accounts.Account, error)
}

// GetUserClaimRecords returns every user claim record held by the program,
// ordered by record address.
func GetUserClaimRecords(ctx context.Context, reader ProgramAccountReader, programID ed25519.PublicKey) ([]*faucet_program.UserClaimRecordAccount, error) {
	programAccounts, err := reader.GetProgramAccounts(ctx, programID)
	if err != nil {
		return nil, errors.Wrap(err, "error getting program accounts")
	}

	var res []*faucet_program.UserClaimRecordAccount
	for _, account := range programAccounts {
		if len(account.Data) != faucet_program.UserClaimRecordAccountSize {
			continue
		}

		var record faucet_program.UserClaimRecordAccount
		if err := record.Unmarshal(account.Data); err != nil {
			return nil, errors.Wrapf(err, "invalid user claim record at %s", base58.Encode(account.Address))
		}
		res = append(res, &record)
	}
	return res, nil
}
