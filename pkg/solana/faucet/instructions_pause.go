package faucet

import (
	"crypto/ed25519"

	"github.com/code-payments/code-faucet/pkg/solana"
)

type PauseInstructionArgs struct {
}

type PauseInstructionAccounts struct {
	Admin  ed25519.PublicKey
	Config ed25519.PublicKey
}

func NewPauseInstruction(
	accounts *PauseInstructionAccounts,
	args *PauseInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: args.Marshal(),

		// Instruction accounts
		Accounts: adminAccounts(accounts.Admin, accounts.Config),
	}
}

func (args *PauseInstructionArgs) Type() InstructionType {
	return InstructionTypePause
}

func (args *PauseInstructionArgs) Marshal() []byte {
	return []byte{byte(InstructionTypePause)}
}

type DecompiledPause struct {
	Accounts PauseInstructionAccounts
}

func DecompilePause(m solana.Message, index int) (*DecompiledPause, error) {
	i, _, err := getInstruction(m, index, InstructionTypePause, 2)
	if err != nil {
		return nil, err
	}

	return &DecompiledPause{
		Accounts: PauseInstructionAccounts{
			Admin:  accountAt(m, i, 0),
			Config: accountAt(m, i, 1),
		},
	}, nil
}
