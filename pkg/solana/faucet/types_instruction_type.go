package faucet

type InstructionType uint8

const (
	InstructionTypeInitialize InstructionType = iota
	InstructionTypeClaim
	InstructionTypeReconfigure
	InstructionTypePause

	Unknown InstructionType = 0xff
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeInitialize:
		return "initialize"
	case InstructionTypeClaim:
		return "claim"
	case InstructionTypeReconfigure:
		return "reconfigure"
	case InstructionTypePause:
		return "pause"
	}
	return "unknown"
}

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}
