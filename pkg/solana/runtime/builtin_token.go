package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana/token"
)

// tokenProgram is the builtin token program. Only single owner transfers
// between existing accounts are supported. Accounts and mints are created
// through Bank.SetAccount.
type tokenProgram struct{}

// Process implements Program.Process
func (p *tokenProgram) Process(ctx context.Context, host Host, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	if len(data) == 0 {
		return token.ErrorInvalidInstruction
	}

	switch token.Command(data[0]) {
	case token.CommandTransfer:
		amount, err := token.UnmarshalTransferData(data)
		if err != nil {
			return token.ErrorInvalidInstruction
		}
		if len(accounts) < 3 {
			return ErrNotEnoughAccountKeys
		}
		return p.transfer(programID, accounts[0], accounts[1], accounts[2], amount)
	default:
		return errors.Wrapf(token.ErrorInvalidInstruction, "unsupported command %d", data[0])
	}
}

func (p *tokenProgram) transfer(programID ed25519.PublicKey, sourceInfo, destInfo, authority *AccountInfo, amount uint64) error {
	source, err := p.loadTokenAccount(programID, sourceInfo)
	if err != nil {
		return err
	}
	dest, err := p.loadTokenAccount(programID, destInfo)
	if err != nil {
		return err
	}

	if source.State == token.AccountStateUninitialized || dest.State == token.AccountStateUninitialized {
		return token.ErrorUninitializedState
	}
	if source.State == token.AccountStateFrozen || dest.State == token.AccountStateFrozen {
		return token.ErrorAccountFrozen
	}

	if !bytes.Equal(source.Mint, dest.Mint) {
		return token.ErrorMintMismatch
	}

	if !bytes.Equal(source.Owner, authority.Key) {
		return token.ErrorOwnerMismatch
	}
	if !authority.IsSigner {
		return ErrMissingRequiredSignature
	}

	if source.Amount < amount {
		return token.ErrorInsufficientFunds
	}

	// Self transfers are validated, but otherwise leave the balance untouched
	if bytes.Equal(sourceInfo.Key, destInfo.Key) {
		return nil
	}

	if dest.Amount+amount < dest.Amount {
		return token.ErrorOverflow
	}

	source.Amount -= amount
	dest.Amount += amount

	sourceInfo.Data = source.Marshal()
	destInfo.Data = dest.Marshal()
	return nil
}

func (p *tokenProgram) loadTokenAccount(programID ed25519.PublicKey, info *AccountInfo) (*token.Account, error) {
	if !bytes.Equal(info.Owner, programID) {
		return nil, ErrIncorrectProgramID
	}

	var account token.Account
	if !account.Unmarshal(info.Data) {
		return nil, ErrInvalidAccountData
	}
	return &account, nil
}
