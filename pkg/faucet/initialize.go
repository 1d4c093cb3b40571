package faucet

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	faucet_program "github.com/code-payments/code-faucet/pkg/solana/faucet"
	"github.com/code-payments/code-faucet/pkg/solana/runtime"
	"github.com/code-payments/code-faucet/pkg/solana/token"
)

// initialize creates the faucet config at its derived address. A second
// initialize fails in the system program, since the address is already in use.
//
// Accounts:
//
//	0. [signer, writable] admin
//	1. [writable] config
//	2. [] mint
//	3. [] system program
func (p *Processor) initialize(ctx context.Context, log *logrus.Entry, host runtime.Host, programID ed25519.PublicKey, accounts []*runtime.AccountInfo, args *faucet_program.InitializeInstructionArgs) error {
	if err := requireAccounts(accounts, 4); err != nil {
		return err
	}
	admin, configAccount, mintAccount := accounts[0], accounts[1], accounts[2]

	if err := requireSigner(admin); err != nil {
		return err
	}

	configAddress, err := faucet_program.GetConfigAddress(&faucet_program.GetConfigAddressArgs{
		Program: programID,
	})
	if err != nil {
		return errors.Wrap(err, "error deriving config address")
	}
	if err := requireDerivedAddress(configAccount, configAddress.Address); err != nil {
		return err
	}

	if err := requireValidCooldown(args.CooldownSecs); err != nil {
		return err
	}

	mint, err := loadMint(mintAccount)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"mint":     base58.Encode(mintAccount.Key),
		"supply":   token.FromQuarks(mint.Supply, mint.Decimals).String(),
		"decimals": mint.Decimals,
	}).Debug("token mint validated")

	err = allocate(ctx, host, programID, admin.Key, configAccount, configAddress, faucet_program.FaucetConfigAccountSize)
	if err != nil {
		return err
	}

	config := &faucet_program.FaucetConfigAccount{
		Admin:          admin.Key,
		Mint:           mintAccount.Key,
		TokensPerClaim: args.TokensPerClaim,
		CooldownSecs:   args.CooldownSecs,
		IsActive:       true,
	}
	if err := store(configAccount, config.Marshal()); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"config":           base58.Encode(configAccount.Key),
		"admin":            base58.Encode(admin.Key),
		"tokens_per_claim": token.FromQuarks(args.TokensPerClaim, mint.Decimals).String(),
		"cooldown_seconds": args.CooldownSecs,
	}).Info("faucet initialized")

	return nil
}
