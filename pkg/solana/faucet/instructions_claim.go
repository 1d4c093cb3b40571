package faucet

import (
	"crypto/ed25519"

	"github.com/code-payments/code-faucet/pkg/solana"
)

type ClaimInstructionArgs struct {
}

type ClaimInstructionAccounts struct {
	User             ed25519.PublicKey
	UserClaimRecord  ed25519.PublicKey
	UserTokenAccount ed25519.PublicKey
	Pool             ed25519.PublicKey
	Config           ed25519.PublicKey
}

func NewClaimInstruction(
	accounts *ClaimInstructionAccounts,
	args *ClaimInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: args.Marshal(),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.User,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.UserClaimRecord,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Pool,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Config,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func (args *ClaimInstructionArgs) Type() InstructionType {
	return InstructionTypeClaim
}

func (args *ClaimInstructionArgs) Marshal() []byte {
	return []byte{byte(InstructionTypeClaim)}
}

type DecompiledClaim struct {
	Accounts ClaimInstructionAccounts
}

func DecompileClaim(m solana.Message, index int) (*DecompiledClaim, error) {
	i, _, err := getInstruction(m, index, InstructionTypeClaim, 7)
	if err != nil {
		return nil, err
	}

	return &DecompiledClaim{
		Accounts: ClaimInstructionAccounts{
			User:             accountAt(m, i, 0),
			UserClaimRecord:  accountAt(m, i, 1),
			UserTokenAccount: accountAt(m, i, 2),
			Pool:             accountAt(m, i, 3),
			Config:           accountAt(m, i, 4),
		},
	}, nil
}
