package faucet

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	faucet_program "github.com/code-payments/code-faucet/pkg/solana/faucet"
	"github.com/code-payments/code-faucet/pkg/solana/runtime"
)

// reconfigure overwrites the config fields present in args.
//
// Accounts:
//
//	0. [signer] admin
//	1. [writable] config
func (p *Processor) reconfigure(log *logrus.Entry, programID ed25519.PublicKey, accounts []*runtime.AccountInfo, args *faucet_program.ReconfigureInstructionArgs) error {
	configAccount, config, err := authorizeAdmin(programID, accounts)
	if err != nil {
		return err
	}

	if args.CooldownSecs != nil {
		if err := requireValidCooldown(*args.CooldownSecs); err != nil {
			return err
		}
	}

	args.Apply(config)
	if err := store(configAccount, config.Marshal()); err != nil {
		return err
	}

	log.WithField("config", config.String()).Info("faucet reconfigured")
	return nil
}

// authorizeAdmin runs the checks shared by admin instructions and returns the
// config account along with its decoded state.
func authorizeAdmin(programID ed25519.PublicKey, accounts []*runtime.AccountInfo) (*runtime.AccountInfo, *faucet_program.FaucetConfigAccount, error) {
	if err := requireAccounts(accounts, 2); err != nil {
		return nil, nil, err
	}
	admin, configAccount := accounts[0], accounts[1]

	if err := requireSigner(admin); err != nil {
		return nil, nil, err
	}

	configAddress, err := faucet_program.GetConfigAddress(&faucet_program.GetConfigAddressArgs{
		Program: programID,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "error deriving config address")
	}
	if err := requireDerivedAddress(configAccount, configAddress.Address); err != nil {
		return nil, nil, err
	}

	config, err := loadConfig(programID, configAccount)
	if err != nil {
		return nil, nil, err
	}

	if err := requireAdmin(admin, config); err != nil {
		return nil, nil, err
	}

	return configAccount, config, nil
}
