package hart

import "github.com/idozipo/rv32i-sim/decoder"

// executeOpImm applies the OPIMM family: ADDI/SLTI/SLTIU/XORI/ORI/ANDI
// and the immediate shifts SLLI/SRLI/SRAI. All arithmetic wraps modulo
// 2^32, per spec §4.3.
func (h *Hart) executeOpImm(inst decoder.Instruction) {
	rs1 := h.Reg(inst.Rs1)

	switch inst.Mnemonic {
	case decoder.ADDI:
		h.setReg(inst.Rd, rs1+uint32(inst.Imm))
	case decoder.SLTI:
		if int32(rs1) < inst.Imm {
			h.setReg(inst.Rd, 1)
		} else {
			h.setReg(inst.Rd, 0)
		}
	case decoder.SLTIU:
		if rs1 < uint32(inst.Imm) {
			h.setReg(inst.Rd, 1)
		} else {
			h.setReg(inst.Rd, 0)
		}
	case decoder.XORI:
		h.setReg(inst.Rd, rs1^uint32(inst.Imm))
	case decoder.ORI:
		h.setReg(inst.Rd, rs1|uint32(inst.Imm))
	case decoder.ANDI:
		h.setReg(inst.Rd, rs1&uint32(inst.Imm))
	case decoder.SLLI:
		h.setReg(inst.Rd, rs1<<inst.Shamt)
	case decoder.SRLI:
		h.setReg(inst.Rd, rs1>>inst.Shamt)
	case decoder.SRAI:
		h.setReg(inst.Rd, uint32(int32(rs1)>>inst.Shamt))
	}
}

// executeOpRR applies the OPRR family: the register-register
// counterparts of OPIMM plus SUB. Shift amount is the low 5 bits of
// rs2, per spec §4.3.
func (h *Hart) executeOpRR(inst decoder.Instruction) {
	rs1 := h.Reg(inst.Rs1)
	rs2 := h.Reg(inst.Rs2)
	shamt := rs2 & 0x1F

	switch inst.Mnemonic {
	case decoder.ADD:
		h.setReg(inst.Rd, rs1+rs2)
	case decoder.SUB:
		h.setReg(inst.Rd, rs1-rs2)
	case decoder.SLL:
		h.setReg(inst.Rd, rs1<<shamt)
	case decoder.SLT:
		if int32(rs1) < int32(rs2) {
			h.setReg(inst.Rd, 1)
		} else {
			h.setReg(inst.Rd, 0)
		}
	case decoder.SLTU:
		if rs1 < rs2 {
			h.setReg(inst.Rd, 1)
		} else {
			h.setReg(inst.Rd, 0)
		}
	case decoder.XOR:
		h.setReg(inst.Rd, rs1^rs2)
	case decoder.SRL:
		h.setReg(inst.Rd, rs1>>shamt)
	case decoder.SRA:
		h.setReg(inst.Rd, uint32(int32(rs1)>>shamt))
	case decoder.OR:
		h.setReg(inst.Rd, rs1|rs2)
	case decoder.AND:
		h.setReg(inst.Rd, rs1&rs2)
	}
}
