package decoder

// Opcode is the low seven bits of an instruction word, classifying it
// into one of the eleven RV32I instruction families (spec §4.2 stage 1).
type Opcode uint32

const (
	OpcodeOPIMM  Opcode = 0b0010011
	OpcodeLUI    Opcode = 0b0110111
	OpcodeAUIPC  Opcode = 0b0010111
	OpcodeOPRR   Opcode = 0b0110011
	OpcodeJAL    Opcode = 0b1101111
	OpcodeJALR   Opcode = 0b1100111
	OpcodeBRANCH Opcode = 0b1100011
	OpcodeLOAD   Opcode = 0b0000011
	OpcodeSTORE  Opcode = 0b0100011
	OpcodeFENCE  Opcode = 0b0001111
	OpcodeSYSTEM Opcode = 0b1110011
)

func (o Opcode) recognized() bool {
	switch o {
	case OpcodeOPIMM, OpcodeLUI, OpcodeAUIPC, OpcodeOPRR, OpcodeJAL, OpcodeJALR,
		OpcodeBRANCH, OpcodeLOAD, OpcodeSTORE, OpcodeFENCE, OpcodeSYSTEM:
		return true
	default:
		return false
	}
}

func (o Opcode) String() string {
	switch o {
	case OpcodeOPIMM:
		return "OPIMM"
	case OpcodeLUI:
		return "LUI"
	case OpcodeAUIPC:
		return "AUIPC"
	case OpcodeOPRR:
		return "OPRR"
	case OpcodeJAL:
		return "JAL"
	case OpcodeJALR:
		return "JALR"
	case OpcodeBRANCH:
		return "BRANCH"
	case OpcodeLOAD:
		return "LOAD"
	case OpcodeSTORE:
		return "STORE"
	case OpcodeFENCE:
		return "FENCE"
	case OpcodeSYSTEM:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// opcodeOf extracts the opcode field from a raw instruction word.
func opcodeOf(word uint32) Opcode {
	return Opcode(word & 0x7F)
}

// bitfield extracts bits [hi:lo] (inclusive, LSB-numbered) from word.
func bitfield(word uint32, hi, lo uint) uint32 {
	width := hi - lo + 1
	mask := uint32(1)<<width - 1
	return (word >> lo) & mask
}
