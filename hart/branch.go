package hart

import "github.com/idozipo/rv32i-sim/decoder"

// evaluateBranch evaluates a BRANCH family condition, interpreting
// registers as signed or unsigned 32-bit integers per the mnemonic.
func (h *Hart) evaluateBranch(inst decoder.Instruction) bool {
	rs1 := h.Reg(inst.Rs1)
	rs2 := h.Reg(inst.Rs2)

	switch inst.Mnemonic {
	case decoder.BEQ:
		return rs1 == rs2
	case decoder.BNE:
		return rs1 != rs2
	case decoder.BLT:
		return int32(rs1) < int32(rs2)
	case decoder.BGE:
		return int32(rs1) >= int32(rs2)
	case decoder.BLTU:
		return rs1 < rs2
	case decoder.BGEU:
		return rs1 >= rs2
	default:
		return false
	}
}
