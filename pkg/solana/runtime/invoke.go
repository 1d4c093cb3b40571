package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"math/bits"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana"
	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
)

// execution is the state shared by every instruction in a transaction
type execution struct {
	unixTimestamp  int64
	rent           Rent
	maxInvokeDepth int
}

// invocation is a single program's view of a running instruction. It
// implements Host.
type invocation struct {
	bank *Bank
	exec *execution

	programID ed25519.PublicKey
	accounts  []*AccountInfo
	depth     int

	pre []*preAccount
}

// preAccount is an account's state at the point its current program gained
// control, used to attribute changes.
type preAccount struct {
	account    *accounts.Account
	isWritable bool
	state      accounts.Account
}

// UnixTimestamp implements Host.UnixTimestamp
func (inv *invocation) UnixTimestamp() int64 {
	return inv.exec.unixTimestamp
}

// Rent implements Host.Rent
func (inv *invocation) Rent() Rent {
	return inv.exec.rent
}

// Invoke implements Host.Invoke
func (inv *invocation) Invoke(ctx context.Context, ix solana.Instruction, signers ...solana.SignerSeeds) error {
	if inv.depth >= inv.exec.maxInvokeDepth {
		return ErrCallDepth
	}

	if inv.find(ix.Program) == nil {
		return errors.Wrapf(ErrMissingAccount, "program %s", base58.Encode(ix.Program))
	}

	calleeAccounts := make([]*AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		callerAccount := inv.find(meta.PublicKey)
		if callerAccount == nil {
			return errors.Wrapf(ErrMissingAccount, "account %s", base58.Encode(meta.PublicKey))
		}

		if meta.IsWritable && !callerAccount.IsWritable {
			return errors.Wrapf(ErrPrivilegeEscalation, "%s is not writable", base58.Encode(meta.PublicKey))
		}

		if meta.IsSigner && !callerAccount.IsSigner && !inv.signsFor(meta.PublicKey, signers) {
			return errors.Wrapf(ErrPrivilegeEscalation, "%s is not a signer", base58.Encode(meta.PublicKey))
		}

		calleeAccounts[i] = &AccountInfo{
			Key:        meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    callerAccount.Account,
		}
	}

	// Changes made by the caller up to this point are its own
	if err := inv.verify(); err != nil {
		return err
	}

	err := inv.bank.processInstruction(ctx, inv.exec, ix.Program, calleeAccounts, ix.Data, inv.depth+1)
	if err != nil {
		return err
	}

	// Changes made by the callee were verified against the callee
	inv.pre = snapshot(inv.accounts)
	return nil
}

func (inv *invocation) find(key ed25519.PublicKey) *AccountInfo {
	// A key can appear more than once with different privileges, so the most
	// privileged reference wins.
	var res *AccountInfo
	for _, info := range inv.accounts {
		if !bytes.Equal(info.Key, key) {
			continue
		}

		if res == nil {
			res = &AccountInfo{Key: info.Key, Account: info.Account}
		}
		res.IsSigner = res.IsSigner || info.IsSigner
		res.IsWritable = res.IsWritable || info.IsWritable
	}
	return res
}

func (inv *invocation) signsFor(key ed25519.PublicKey, signers []solana.SignerSeeds) bool {
	for _, seeds := range signers {
		if solana.VerifySigner(inv.programID, key, seeds) {
			return true
		}
	}
	return false
}

// verify checks every change made to the invocation's accounts since they were
// last snapshotted is one the running program is allowed to make.
func (inv *invocation) verify() error {
	var preHi, preLo, postHi, postLo uint64
	var carry uint64

	for _, pre := range inv.pre {
		post := pre.account

		if err := verifyAccount(inv.programID, pre, post); err != nil {
			return errors.Wrapf(err, "account %s", base58.Encode(post.Address))
		}

		preLo, carry = bits.Add64(preLo, pre.state.Lamports, 0)
		preHi += carry
		postLo, carry = bits.Add64(postLo, post.Lamports, 0)
		postHi += carry
	}

	if preHi != postHi || preLo != postLo {
		return ErrUnbalancedInstruction
	}
	return nil
}

func verifyAccount(programID ed25519.PublicKey, pre *preAccount, post *accounts.Account) error {
	isOwner := bytes.Equal(pre.state.Owner, programID)

	if !bytes.Equal(pre.state.Owner, post.Owner) {
		if !isOwner || !pre.isWritable || pre.state.Executable {
			return ErrModifiedProgramID
		}
	}

	if post.Lamports != pre.state.Lamports {
		if !pre.isWritable {
			return ErrReadonlyLamportChange
		}
		if post.Lamports < pre.state.Lamports && !isOwner {
			return ErrExternalAccountLamportSpend
		}
	}

	if !bytes.Equal(pre.state.Data, post.Data) {
		if !pre.isWritable {
			return ErrReadonlyDataModified
		}
		if !isOwner {
			return ErrExternalAccountDataModified
		}
	}

	if pre.state.Executable != post.Executable {
		return ErrExecutableModified
	}

	return nil
}

// snapshot records the state of each distinct account in infos
func snapshot(infos []*AccountInfo) []*preAccount {
	var res []*preAccount
	for _, info := range infos {
		var existing *preAccount
		for _, pre := range res {
			if pre.account == info.Account {
				existing = pre
				break
			}
		}

		if existing != nil {
			existing.isWritable = existing.isWritable || info.IsWritable
			continue
		}

		res = append(res, &preAccount{
			account:    info.Account,
			isWritable: info.IsWritable,
			state:      *info.Account.Clone(),
		})
	}
	return res
}
