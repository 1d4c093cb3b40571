package faucet

import (
	"crypto/ed25519"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-faucet/pkg/solana/runtime"
)

// pause deactivates the faucet. Pausing a paused faucet succeeds.
//
// Accounts:
//
//	0. [signer] admin
//	1. [writable] config
func (p *Processor) pause(log *logrus.Entry, programID ed25519.PublicKey, accounts []*runtime.AccountInfo) error {
	configAccount, config, err := authorizeAdmin(programID, accounts)
	if err != nil {
		return err
	}

	config.IsActive = false
	if err := store(configAccount, config.Marshal()); err != nil {
		return err
	}

	log.Info("faucet paused")
	return nil
}
