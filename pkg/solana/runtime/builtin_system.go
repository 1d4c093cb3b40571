package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-faucet/pkg/solana/system"
)

// systemProgram is the builtin program that funds and allocates accounts
type systemProgram struct{}

// Process implements Program.Process
func (p *systemProgram) Process(ctx context.Context, host Host, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	switch {
	case system.IsCreateAccount(data):
		lamports, size, owner, err := system.UnmarshalCreateAccountData(data)
		if err != nil {
			return errors.Wrap(ErrInvalidInstructionData, err.Error())
		}
		if len(accounts) < 2 {
			return ErrNotEnoughAccountKeys
		}
		return p.createAccount(accounts[0], accounts[1], lamports, size, owner)
	case system.IsTransfer(data):
		lamports, err := system.UnmarshalTransferData(data)
		if err != nil {
			return errors.Wrap(ErrInvalidInstructionData, err.Error())
		}
		if len(accounts) < 2 {
			return ErrNotEnoughAccountKeys
		}
		return p.transfer(accounts[0], accounts[1], lamports)
	case system.IsAssign(data):
		owner, err := system.UnmarshalAssignData(data)
		if err != nil {
			return errors.Wrap(ErrInvalidInstructionData, err.Error())
		}
		if len(accounts) < 1 {
			return ErrNotEnoughAccountKeys
		}
		return p.assign(accounts[0], owner)
	case system.IsAllocate(data):
		size, err := system.UnmarshalAllocateData(data)
		if err != nil {
			return errors.Wrap(ErrInvalidInstructionData, err.Error())
		}
		if len(accounts) < 1 {
			return ErrNotEnoughAccountKeys
		}
		return p.allocate(accounts[0], size)
	default:
		return ErrInvalidInstructionData
	}
}

func (p *systemProgram) createAccount(funder, to *AccountInfo, lamports, size uint64, owner ed25519.PublicKey) error {
	log := logrus.StandardLogger().WithFields(logrus.Fields{
		"type":    "solana/runtime/system",
		"method":  "CreateAccount",
		"address": base58.Encode(to.Key),
	})

	if !funder.IsSigner || !to.IsSigner {
		return ErrMissingRequiredSignature
	}

	if to.Lamports > 0 || len(to.Data) > 0 || !bytes.Equal(to.Owner, SystemProgramID) {
		log.Debug("account already in use")
		return system.ErrorAccountAlreadyInUse
	}

	if size > system.MaxPermittedDataLength {
		return system.ErrorInvalidAccountDataLength
	}

	if err := p.debit(funder, lamports); err != nil {
		return err
	}
	to.Lamports += lamports
	to.Data = make([]byte, size)
	to.Owner = append(ed25519.PublicKey{}, owner...)

	log.WithFields(logrus.Fields{
		"owner":    base58.Encode(owner),
		"lamports": lamports,
		"size":     size,
	}).Debug("account created")
	return nil
}

// allocate gives a funded, system owned account its data without changing
// its balance
func (p *systemProgram) allocate(account *AccountInfo, size uint64) error {
	if !account.IsSigner {
		return ErrMissingRequiredSignature
	}

	if len(account.Data) > 0 || !bytes.Equal(account.Owner, SystemProgramID) {
		logrus.StandardLogger().WithFields(logrus.Fields{
			"type":    "solana/runtime/system",
			"method":  "Allocate",
			"address": base58.Encode(account.Key),
		}).Debug("account already in use")
		return system.ErrorAccountAlreadyInUse
	}

	if size > system.MaxPermittedDataLength {
		return system.ErrorInvalidAccountDataLength
	}

	account.Data = make([]byte, size)
	return nil
}

func (p *systemProgram) assign(account *AccountInfo, owner ed25519.PublicKey) error {
	if bytes.Equal(account.Owner, owner) {
		return nil
	}

	if !account.IsSigner {
		return ErrMissingRequiredSignature
	}

	account.Owner = append(ed25519.PublicKey{}, owner...)
	return nil
}

func (p *systemProgram) transfer(from, to *AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return ErrMissingRequiredSignature
	}

	if err := p.debit(from, lamports); err != nil {
		return err
	}
	to.Lamports += lamports
	return nil
}

func (p *systemProgram) debit(from *AccountInfo, lamports uint64) error {
	if len(from.Data) > 0 {
		return errors.Wrap(ErrInvalidArgument, "from must not carry data")
	}
	if from.Lamports < lamports {
		return system.ErrorResultWithNegativeLamports
	}
	from.Lamports -= lamports
	return nil
}
