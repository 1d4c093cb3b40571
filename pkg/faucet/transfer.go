package faucet

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana"
	"github.com/code-payments/code-faucet/pkg/solana/runtime"
	"github.com/code-payments/code-faucet/pkg/solana/system"
	"github.com/code-payments/code-faucet/pkg/solana/token"
)

// allocate creates a rent exempt, program owned account of size bytes at
// pda, funded by payer. An address already holding lamports is topped up and
// then allocated and assigned in place.
func allocate(ctx context.Context, host runtime.Host, programID, payer ed25519.PublicKey, account *runtime.AccountInfo, pda *solana.ProgramDerivedAddress, size int) error {
	required := host.Rent().MinimumBalance(size)

	if account.Lamports == 0 {
		ix := system.CreateAccount(payer, pda.Address, programID, required, uint64(size))
		if err := host.Invoke(ctx, ix, pda.Signer()); err != nil {
			return errors.Wrap(err, "error allocating account")
		}
		return nil
	}

	if account.Lamports < required {
		ix := system.Transfer(payer, pda.Address, required-account.Lamports)
		if err := host.Invoke(ctx, ix); err != nil {
			return errors.Wrap(err, "error funding prefunded account")
		}
	}

	if err := host.Invoke(ctx, system.Allocate(pda.Address, uint64(size)), pda.Signer()); err != nil {
		return errors.Wrap(err, "error allocating prefunded account")
	}
	if err := host.Invoke(ctx, system.Assign(pda.Address, programID), pda.Signer()); err != nil {
		return errors.Wrap(err, "error assigning prefunded account")
	}
	return nil
}

// transferFromPool moves amount from the custodial pool to destination with
// the config as the signing authority. Ledger failures are returned unmodified.
func transferFromPool(ctx context.Context, host runtime.Host, config *solana.ProgramDerivedAddress, pool, destination ed25519.PublicKey, amount uint64) error {
	ix := token.Transfer(
		pool,
		destination,
		config.Address,
		amount,
	)

	return host.Invoke(ctx, ix, config.Signer())
}
