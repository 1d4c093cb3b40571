package faucet

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana"
	"github.com/code-payments/code-faucet/pkg/solana/binary"
)

const (
	InitializeInstructionArgsSize = (8 + // tokens_per_claim
		8) // cooldown_seconds
)

type InitializeInstructionArgs struct {
	TokensPerClaim uint64
	CooldownSecs   int64
}

type InitializeInstructionAccounts struct {
	Admin  ed25519.PublicKey
	Config ed25519.PublicKey
	Mint   ed25519.PublicKey
}

func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
	args *InitializeInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: args.Marshal(),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Admin,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Config,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
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

func (args *InitializeInstructionArgs) Type() InstructionType {
	return InstructionTypeInitialize
}

func (args *InitializeInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+InitializeInstructionArgsSize)

	putInstructionType(data, InstructionTypeInitialize, &offset)
	binary.PutUint64(data[offset:], args.TokensPerClaim, &offset)
	binary.PutInt64(data[offset:], args.CooldownSecs, &offset)

	return data
}

func (args *InitializeInstructionArgs) unmarshal(data []byte) error {
	if len(data) != InitializeInstructionArgsSize {
		return errors.Wrapf(ErrInvalidInstructionData, "invalid initialize args size: %d", len(data))
	}

	var offset int
	binary.GetUint64(data[offset:], &args.TokensPerClaim, &offset)
	binary.GetInt64(data[offset:], &args.CooldownSecs, &offset)
	return nil
}

type DecompiledInitialize struct {
	Accounts InitializeInstructionAccounts
	Args     InitializeInstructionArgs
}

func DecompileInitialize(m solana.Message, index int) (*DecompiledInitialize, error) {
	i, args, err := getInstruction(m, index, InstructionTypeInitialize, 4)
	if err != nil {
		return nil, err
	}

	return &DecompiledInitialize{
		Accounts: InitializeInstructionAccounts{
			Admin:  accountAt(m, i, 0),
			Config: accountAt(m, i, 1),
			Mint:   accountAt(m, i, 2),
		},
		Args: *args.(*InitializeInstructionArgs),
	}, nil
}
