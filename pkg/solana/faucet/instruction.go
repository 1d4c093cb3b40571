package faucet

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana"
)

// InstructionData is the decoded, typed payload of a faucet instruction.
type InstructionData interface {
	Type() InstructionType
	Marshal() []byte
}

// UnmarshalInstructionData decodes a faucet instruction payload. Unknown tags,
// truncated fields, out of range values and trailing bytes all fail with
// ErrInvalidInstructionData.
func UnmarshalInstructionData(data []byte) (InstructionData, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidInstructionData, "missing instruction type")
	}

	var args InstructionData
	var err error

	switch InstructionType(data[0]) {
	case InstructionTypeInitialize:
		var v InitializeInstructionArgs
		err = v.unmarshal(data[1:])
		args = &v
	case InstructionTypeClaim:
		args, err = &ClaimInstructionArgs{}, expectEmpty(data[1:])
	case InstructionTypeReconfigure:
		var v ReconfigureInstructionArgs
		err = v.unmarshal(data[1:])
		args = &v
	case InstructionTypePause:
		args, err = &PauseInstructionArgs{}, expectEmpty(data[1:])
	default:
		return nil, errors.Wrapf(ErrInvalidInstructionData, "unknown instruction type %d", data[0])
	}

	if err != nil {
		return nil, err
	}
	return args, nil
}

func expectEmpty(data []byte) error {
	if len(data) != 0 {
		return errors.Wrapf(ErrInvalidInstructionData, "%d trailing bytes", len(data))
	}
	return nil
}

// getInstruction returns the compiled faucet instruction at index, verifying its
// type and account count.
func getInstruction(m solana.Message, index int, expected InstructionType, numAccounts int) (*solana.CompiledInstruction, InstructionData, error) {
	if index >= len(m.Instructions) {
		return nil, nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], PROGRAM_ID) {
		return nil, nil, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 || InstructionType(i.Data[0]) != expected {
		return nil, nil, solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != numAccounts {
		return nil, nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	args, err := UnmarshalInstructionData(i.Data)
	if err != nil {
		return nil, nil, err
	}

	return &i, args, nil
}

func accountAt(m solana.Message, i *solana.CompiledInstruction, position int) ed25519.PublicKey {
	return m.Accounts[i.Accounts[position]]
}
