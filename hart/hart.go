// Package hart implements the RV32I execution unit: the 32-entry
// register file, the program counter, and the single-step
// fetch-decode-execute-advance cycle described in spec §4.3.
package hart

import (
	"errors"

	"github.com/idozipo/rv32i-sim/decoder"
	"github.com/idozipo/rv32i-sim/fault"
	"github.com/idozipo/rv32i-sim/memory"
)

// Hart owns the register file and program counter for a single
// hardware thread of execution. There is exactly one hart in this
// simulator.
type Hart struct {
	regs [32]uint32
	pc   uint32

	// Cycles counts completed steps, for harness-level reporting. It is
	// not part of THE CORE's contract and is never read by Step itself.
	Cycles uint64
}

// New creates a Hart with all registers and the program counter
// zeroed, per spec §3.
func New() *Hart {
	return &Hart{}
}

// Reset zeroes the register file, the program counter, and the cycle
// counter.
func (h *Hart) Reset() {
	for i := range h.regs {
		h.regs[i] = 0
	}
	h.pc = 0
	h.Cycles = 0
}

// PC returns the current program counter.
func (h *Hart) PC() uint32 {
	return h.pc
}

// SetPC overrides the program counter. Used by a harness to set an
// entry point before the first step.
func (h *Hart) SetPC(addr uint32) {
	h.pc = addr
}

// Reg reads a register. Register 0 always reads as 0.
func (h *Hart) Reg(index int) uint32 {
	if index == 0 {
		return 0
	}
	return h.regs[index]
}

// setReg writes a register, silently dropping writes to register 0.
// Centralizing the drop here (rather than guarding every instruction
// handler) is the approach spec §9 prefers.
func (h *Hart) setReg(index int, value uint32) {
	if index == 0 {
		return
	}
	h.regs[index] = value
}

// pcUpdate is what an instruction handler hands back to Step: either
// "advance by 4" (the zero value) or "jump to an absolute target".
type pcUpdate struct {
	target  uint32
	jumping bool
}

func advance() pcUpdate {
	return pcUpdate{}
}

func jumpTo(target uint32) pcUpdate {
	return pcUpdate{target: target, jumping: true}
}

// Step fetches, decodes and executes one instruction, then advances
// the program counter exactly once, per spec §4.3's public contract.
// Any fault terminates stepping; the hart's state after an error is
// undefined, matching spec §4.3's failure semantics.
func (h *Hart) Step(mem *memory.Memory) error {
	fetchAddr := h.pc

	word, err := mem.ReadWord(fetchAddr)
	if err != nil {
		return err
	}

	inst, err := decoder.Decode(word)
	if err != nil {
		// Decode has no notion of where the word came from; name the
		// fetch address here.
		var f *fault.Fault
		if errors.As(err, &f) {
			f.Addr = fetchAddr
		}
		return err
	}

	update, err := h.execute(inst, mem, fetchAddr)
	if err != nil {
		return err
	}

	if update.jumping {
		if update.target%4 != 0 {
			return fault.AtAddr(fault.KindAlignment, update.target, "branch/jump target must be 4-byte aligned")
		}
		h.pc = update.target
	} else {
		h.pc = fetchAddr + 4
	}

	h.Cycles++
	return nil
}

// execute dispatches a decoded instruction to its semantic action. pc
// is the address of the instruction being executed (the fetch
// address), matching "pc_of_this_instruction" throughout spec §4.3.
func (h *Hart) execute(inst decoder.Instruction, mem *memory.Memory, pc uint32) (pcUpdate, error) {
	switch inst.Mnemonic {
	case decoder.ADDI, decoder.SLTI, decoder.SLTIU, decoder.XORI, decoder.ORI, decoder.ANDI,
		decoder.SLLI, decoder.SRLI, decoder.SRAI:
		h.executeOpImm(inst)
		return advance(), nil

	case decoder.ADD, decoder.SUB, decoder.SLL, decoder.SLT, decoder.SLTU,
		decoder.XOR, decoder.SRL, decoder.SRA, decoder.OR, decoder.AND:
		h.executeOpRR(inst)
		return advance(), nil

	case decoder.LUI:
		h.setReg(inst.Rd, uint32(inst.Imm))
		return advance(), nil

	case decoder.AUIPC:
		h.setReg(inst.Rd, pc+uint32(inst.Imm))
		return advance(), nil

	case decoder.JAL:
		target := pc + uint32(inst.Imm)
		h.setReg(inst.Rd, pc+4)
		return jumpTo(target), nil

	case decoder.JALR:
		target := (h.Reg(inst.Rs1) + uint32(inst.Imm)) &^ 1
		h.setReg(inst.Rd, pc+4)
		return jumpTo(target), nil

	case decoder.BEQ, decoder.BNE, decoder.BLT, decoder.BGE, decoder.BLTU, decoder.BGEU:
		taken := h.evaluateBranch(inst)
		if taken {
			return jumpTo(pc + uint32(inst.Imm)), nil
		}
		return advance(), nil

	case decoder.LB, decoder.LH, decoder.LW, decoder.LBU, decoder.LHU:
		if err := h.executeLoad(inst, mem); err != nil {
			return pcUpdate{}, err
		}
		return advance(), nil

	case decoder.SB, decoder.SH, decoder.SW:
		if err := h.executeStore(inst, mem); err != nil {
			return pcUpdate{}, err
		}
		return advance(), nil

	default:
		return pcUpdate{}, fault.AtAddr(fault.KindDecode, pc, "no execute action for decoded mnemonic")
	}
}
