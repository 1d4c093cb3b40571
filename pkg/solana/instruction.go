package solana

import (
	"bytes"
	"crypto/ed25519"
	"sort"

	"github.com/pkg/errors"
)

var (
	ErrIncorrectProgram     = errors.New("incorrect program")
	ErrIncorrectInstruction = errors.New("incorrect instruction")
)

// AccountMeta is an account referenced by an instruction, along with the
// privileges the instruction needs for it.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
	isPayer    bool
	isProgram  bool
}

// NewAccountMeta returns a writable account reference
func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: true,
	}
}

// NewReadonlyAccountMeta returns a read-only account reference
func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey: pub,
		IsSigner:  isSigner,
	}
}

// rank places an account in a message's account list. The payer comes first,
// then accounts before programs, and within each of those signers before
// non-signers and writable before read-only.
//
// Reference: https://docs.solana.com/transaction#account-addresses-format
func (a AccountMeta) rank() int {
	if a.isPayer {
		return 0
	}

	rank := 1
	if a.isProgram {
		rank += 4
	}
	if !a.IsSigner {
		rank += 2
	}
	if !a.IsWritable {
		rank++
	}
	return rank
}

// sortAccountMetas orders accounts by rank, then by key
func sortAccountMetas(accounts []AccountMeta) {
	sort.Slice(accounts, func(i, j int) bool {
		if ri, rj := accounts[i].rank(), accounts[j].rank(); ri != rj {
			return ri < rj
		}
		return bytes.Compare(accounts[i].PublicKey, accounts[j].PublicKey) < 0
	})
}

// Instruction is a single program invocation before it's compiled into a
// message.
type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

// NewInstruction returns an instruction for program
func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		Program:  program,
		Data:     data,
		Accounts: accounts,
	}
}

// CompiledInstruction is an instruction within a message, with its program
// and accounts replaced by indexes into the message's account list.
type CompiledInstruction struct {
	ProgramIndex byte
	Accounts     []byte
	Data         []byte
}
