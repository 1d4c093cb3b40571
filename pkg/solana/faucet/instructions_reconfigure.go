package faucet

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana"
	"github.com/code-payments/code-faucet/pkg/solana/binary"
)

// ReconfigureInstructionArgs holds the config fields to overwrite. Nil fields
// are left unchanged.
type ReconfigureInstructionArgs struct {
	TokensPerClaim *uint64
	CooldownSecs   *int64
	IsActive       *bool
}

type ReconfigureInstructionAccounts struct {
	Admin  ed25519.PublicKey
	Config ed25519.PublicKey
}

func NewReconfigureInstruction(
	accounts *ReconfigureInstructionAccounts,
	args *ReconfigureInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: args.Marshal(),

		// Instruction accounts
		Accounts: adminAccounts(accounts.Admin, accounts.Config),
	}
}

func (args *ReconfigureInstructionArgs) Type() InstructionType {
	return InstructionTypeReconfigure
}

func (args *ReconfigureInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+
		binary.BorshOptionSize(args.TokensPerClaim != nil, 8)+
		binary.BorshOptionSize(args.CooldownSecs != nil, 8)+
		binary.BorshOptionSize(args.IsActive != nil, 1),
	)

	putInstructionType(data, InstructionTypeReconfigure, &offset)
	binary.PutBorshOptionalUint64(data[offset:], args.TokensPerClaim, &offset)
	binary.PutBorshOptionalInt64(data[offset:], args.CooldownSecs, &offset)
	binary.PutBorshOptionalBool(data[offset:], args.IsActive, &offset)

	return data
}

func (args *ReconfigureInstructionArgs) unmarshal(data []byte) error {
	var offset int
	if err := binary.GetBorshOptionalUint64(data[offset:], &args.TokensPerClaim, &offset); err != nil {
		return errors.Wrapf(ErrInvalidInstructionData, "tokens_per_claim: %v", err)
	}
	if err := binary.GetBorshOptionalInt64(data[offset:], &args.CooldownSecs, &offset); err != nil {
		return errors.Wrapf(ErrInvalidInstructionData, "cooldown_seconds: %v", err)
	}
	if err := binary.GetBorshOptionalBool(data[offset:], &args.IsActive, &offset); err != nil {
		return errors.Wrapf(ErrInvalidInstructionData, "is_active: %v", err)
	}
	return expectEmpty(data[offset:])
}

// Apply merges the present fields into config.
func (args *ReconfigureInstructionArgs) Apply(config *FaucetConfigAccount) {
	if args.TokensPerClaim != nil {
		config.TokensPerClaim = *args.TokensPerClaim
	}
	if args.CooldownSecs != nil {
		config.CooldownSecs = *args.CooldownSecs
	}
	if args.IsActive != nil {
		config.IsActive = *args.IsActive
	}
}

type DecompiledReconfigure struct {
	Accounts ReconfigureInstructionAccounts
	Args     ReconfigureInstructionArgs
}

func DecompileReconfigure(m solana.Message, index int) (*DecompiledReconfigure, error) {
	i, args, err := getInstruction(m, index, InstructionTypeReconfigure, 2)
	if err != nil {
		return nil, err
	}

	return &DecompiledReconfigure{
		Accounts: ReconfigureInstructionAccounts{
			Admin:  accountAt(m, i, 0),
			Config: accountAt(m, i, 1),
		},
		Args: *args.(*ReconfigureInstructionArgs),
	}, nil
}

func adminAccounts(admin, config ed25519.PublicKey) []solana.AccountMeta {
	return []solana.AccountMeta{
		{
			PublicKey:  admin,
			IsWritable: false,
			IsSigner:   true,
		},
		{
			PublicKey:  config,
			IsWritable: true,
			IsSigner:   false,
		},
	}
}
