package faucet

import (
	"context"
	"crypto/ed25519"
	"math"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-faucet/pkg/metrics"
	faucet_program "github.com/code-payments/code-faucet/pkg/solana/faucet"
	"github.com/code-payments/code-faucet/pkg/solana/runtime"
)

// claim transfers the configured amount from the pool to the user, subject to
// the user's cooldown. The user's claim record is created on their first claim.
//
// Accounts:
//
//	0. [signer, writable] user
//	1. [writable] user claim record
//	2. [writable] user token account
//	3. [writable] pool token account
//	4. [] config
//	5. [] token program
//	6. [] system program
func (p *Processor) claim(ctx context.Context, log *logrus.Entry, host runtime.Host, programID ed25519.PublicKey, accounts []*runtime.AccountInfo) error {
	if err := requireAccounts(accounts, 7); err != nil {
		return err
	}
	user, recordAccount, userTokenAccount, poolAccount, configAccount := accounts[0], accounts[1], accounts[2], accounts[3], accounts[4]

	log = log.WithField("user", base58.Encode(user.Key))

	if err := requireSigner(user); err != nil {
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

	if isUnallocated(configAccount) {
		return errors.Wrap(ErrFaucetInactive, "faucet not initialized")
	}

	config, err := loadConfig(programID, configAccount)
	if err != nil {
		return err
	}

	if !config.IsActive {
		return ErrFaucetInactive
	}

	recordAddress, err := faucet_program.GetUserClaimAddress(&faucet_program.GetUserClaimAddressArgs{
		Program: programID,
		User:    user.Key,
	})
	if err != nil {
		return errors.Wrap(err, "error deriving user claim address")
	}
	if err := requireDerivedAddress(recordAccount, recordAddress.Address); err != nil {
		return err
	}

	poolAddress, err := faucet_program.GetPoolAddress(&faucet_program.GetPoolAddressArgs{
		Config: configAddress.Address,
		Mint:   config.Mint,
	})
	if err != nil {
		return errors.Wrap(err, "error deriving pool address")
	}
	if err := requireDerivedAddress(poolAccount, poolAddress); err != nil {
		return err
	}

	var record *faucet_program.UserClaimRecordAccount
	if isUnallocated(recordAccount) {
		err = allocate(ctx, host, programID, user.Key, recordAccount, recordAddress, faucet_program.UserClaimRecordAccountSize)
		if err != nil {
			return err
		}

		record = &faucet_program.UserClaimRecordAccount{
			User: user.Key,
		}
		log.Debug("allocated user claim record")
	} else {
		record, err = loadUserClaimRecord(programID, recordAccount)
		if err != nil {
			return err
		}
	}

	now := host.UnixTimestamp()
	if remaining := record.RemainingCooldown(now, config.CooldownSecs); remaining > 0 {
		return &CooldownNotMetError{RemainingSeconds: remaining}
	}

	pool, err := loadTokenAccount(poolAccount)
	if err != nil {
		return err
	}
	if pool.Amount < config.TokensPerClaim {
		return errors.Wrapf(ErrInsufficientFunds, "pool holds %d, claim requires %d", pool.Amount, config.TokensPerClaim)
	}

	err = transferFromPool(ctx, host, configAddress, poolAccount.Key, userTokenAccount.Key, config.TokensPerClaim)
	if err != nil {
		return err
	}

	record.LastClaimTime = now
	if record.TotalClaims < math.MaxUint64 {
		record.TotalClaims++
	}
	if err := store(recordAccount, record.Marshal()); err != nil {
		return err
	}

	metrics.RecordEvent(ctx, claimEventName, map[string]interface{}{
		"user":         base58.Encode(user.Key),
		"amount":       config.TokensPerClaim,
		"total_claims": record.TotalClaims,
	})

	log.WithFields(logrus.Fields{
		"amount":       config.TokensPerClaim,
		"total_claims": record.TotalClaims,
	}).Info("claim processed")

	return nil
}
