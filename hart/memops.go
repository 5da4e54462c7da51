package hart

import (
	"github.com/idozipo/rv32i-sim/decoder"
	"github.com/idozipo/rv32i-sim/memory"
)

// executeLoad applies the LOAD family. LW/LH/LHU require alignment
// matching their width (enforced by Memory); LB/LBU need none.
func (h *Hart) executeLoad(inst decoder.Instruction, mem *memory.Memory) error {
	addr := h.Reg(inst.Rs1) + uint32(inst.Imm)

	switch inst.Mnemonic {
	case decoder.LW:
		value, err := mem.ReadWord(addr)
		if err != nil {
			return err
		}
		h.setReg(inst.Rd, value)

	case decoder.LH:
		value, err := mem.ReadHalfword(addr)
		if err != nil {
			return err
		}
		h.setReg(inst.Rd, uint32(int32(int16(value))))

	case decoder.LHU:
		value, err := mem.ReadHalfword(addr)
		if err != nil {
			return err
		}
		h.setReg(inst.Rd, uint32(value))

	case decoder.LB:
		value, err := mem.ReadByte(addr)
		if err != nil {
			return err
		}
		h.setReg(inst.Rd, uint32(int32(int8(value))))

	case decoder.LBU:
		value, err := mem.ReadByte(addr)
		if err != nil {
			return err
		}
		h.setReg(inst.Rd, uint32(value))
	}
	return nil
}

// executeStore applies the STORE family, writing the low 8/16/32 bits
// of rs2 to the computed address.
func (h *Hart) executeStore(inst decoder.Instruction, mem *memory.Memory) error {
	addr := h.Reg(inst.Rs1) + uint32(inst.Imm)
	value := h.Reg(inst.Rs2)

	switch inst.Mnemonic {
	case decoder.SW:
		return mem.WriteWord(addr, value)
	case decoder.SH:
		return mem.WriteHalfword(addr, uint16(value))
	case decoder.SB:
		return mem.WriteByte(addr, byte(value))
	}
	return nil
}
