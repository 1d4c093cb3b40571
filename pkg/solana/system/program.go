package system

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/code-faucet/pkg/solana"
)

// https://explorer.solana.com/address/11111111111111111111111111111111
var ProgramKey [32]byte

const (
	commandCreateAccount uint32 = 0
	commandAssign        uint32 = 1
	commandTransfer      uint32 = 2
	commandAllocate      uint32 = 8
)

const (
	createAccountDataSize = 4 + 2*8 + ed25519.PublicKeySize
	assignDataSize        = 4 + ed25519.PublicKeySize
	transferDataSize      = 4 + 8
	allocateDataSize      = 4 + 8
)

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/system_instruction.rs#L15-L31
const (
	ErrorAccountAlreadyInUse solana.CustomError = iota
	ErrorResultWithNegativeLamports
	ErrorInvalidProgramID
	ErrorInvalidAccountDataLength
)

// MaxPermittedDataLength bounds the space an account can be created with.
const MaxPermittedDataLength = 10 * 1024 * 1024

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE, SIGNER] New account
	//
	// CreateAccount {
	//   // Number of lamports to transfer to the new account
	//   lamports: u64,
	//   // Number of bytes of memory to allocate
	//   space: u64,
	//
	//   //Address of program that will own the new account
	//   owner: Pubkey,
	// }
	//
	data := make([]byte, createAccountDataSize)
	binary.LittleEndian.PutUint32(data, commandCreateAccount)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[4+8:], size)
	copy(data[4+2*8:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

type DecompiledCreateAccount struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccount(m solana.Message, index int) (*DecompiledCreateAccount, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey[:]) {
		return nil, solana.ErrIncorrectProgram
	}
	if !hasCommand(i.Data, commandCreateAccount) {
		return nil, solana.ErrIncorrectInstruction
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	lamports, size, owner, err := UnmarshalCreateAccountData(i.Data)
	if err != nil {
		return nil, err
	}

	return &DecompiledCreateAccount{
		Funder:   m.Accounts[i.Accounts[0]],
		Address:  m.Accounts[i.Accounts[1]],
		Lamports: lamports,
		Size:     size,
		Owner:    owner,
	}, nil
}

// UnmarshalCreateAccountData parses the data of a CreateAccount instruction.
func UnmarshalCreateAccountData(data []byte) (lamports, size uint64, owner ed25519.PublicKey, err error) {
	if !hasCommand(data, commandCreateAccount) {
		return 0, 0, nil, solana.ErrIncorrectInstruction
	}
	if len(data) != createAccountDataSize {
		return 0, 0, nil, errors.Errorf("invalid instruction data size: %d", len(data))
	}

	lamports = binary.LittleEndian.Uint64(data[4:])
	size = binary.LittleEndian.Uint64(data[4+8:])
	owner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(owner, data[4+2*8:])
	return lamports, size, owner, nil
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L96-L101
func Transfer(from, to ed25519.PublicKey, lamports uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE] Recipient account
	data := make([]byte, transferDataSize)
	binary.LittleEndian.PutUint32(data, commandTransfer)
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(from, true),
		solana.NewAccountMeta(to, false),
	)
}

// UnmarshalTransferData parses the data of a Transfer instruction.
func UnmarshalTransferData(data []byte) (uint64, error) {
	if !hasCommand(data, commandTransfer) {
		return 0, solana.ErrIncorrectInstruction
	}
	if len(data) != transferDataSize {
		return 0, errors.Errorf("invalid instruction data size: %d", len(data))
	}
	return binary.LittleEndian.Uint64(data[4:]), nil
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/system_instruction.rs#L84-L90
func Assign(address, owner ed25519.PublicKey) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Assigned account public key
	data := make([]byte, assignDataSize)
	binary.LittleEndian.PutUint32(data, commandAssign)
	copy(data[4:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(address, true),
	)
}

// UnmarshalAssignData parses the data of an Assign instruction.
func UnmarshalAssignData(data []byte) (ed25519.PublicKey, error) {
	if !hasCommand(data, commandAssign) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(data) != assignDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(data))
	}

	owner := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(owner, data[4:])
	return owner, nil
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/system_instruction.rs#L170-L176
func Allocate(address ed25519.PublicKey, size uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] New account
	data := make([]byte, allocateDataSize)
	binary.LittleEndian.PutUint32(data, commandAllocate)
	binary.LittleEndian.PutUint64(data[4:], size)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(address, true),
	)
}

// UnmarshalAllocateData parses the data of an Allocate instruction.
func UnmarshalAllocateData(data []byte) (uint64, error) {
	if !hasCommand(data, commandAllocate) {
		return 0, solana.ErrIncorrectInstruction
	}
	if len(data) != allocateDataSize {
		return 0, errors.Errorf("invalid instruction data size: %d", len(data))
	}
	return binary.LittleEndian.Uint64(data[4:]), nil
}

// IsCreateAccount reports whether data encodes a CreateAccount instruction.
func IsCreateAccount(data []byte) bool {
	return hasCommand(data, commandCreateAccount)
}

// IsTransfer reports whether data encodes a Transfer instruction.
func IsTransfer(data []byte) bool {
	return hasCommand(data, commandTransfer)
}

// IsAssign reports whether data encodes an Assign instruction.
func IsAssign(data []byte) bool {
	return hasCommand(data, commandAssign)
}

// IsAllocate reports whether data encodes an Allocate instruction.
func IsAllocate(data []byte) bool {
	return hasCommand(data, commandAllocate)
}

func hasCommand(data []byte, cmd uint32) bool {
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], cmd)
	return bytes.HasPrefix(data, prefix[:])
}
