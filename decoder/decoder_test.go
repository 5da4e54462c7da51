package decoder

import (
	"errors"
	"testing"

	"github.com/idozipo/rv32i-sim/fault"
)

// Encoding helpers build raw instruction words field by field, the
// way an assembler would, so test cases read as "what instruction"
// rather than a magic binary literal.

func encodeR(funct7, rs2, rs1, funct3, rd uint32, opcode Opcode) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | uint32(opcode)
}

func encodeI(imm uint32, rs1, funct3, rd uint32, opcode Opcode) uint32 {
	return (imm&0xFFF)<<20 | rs1<<15 | funct3<<12 | rd<<7 | uint32(opcode)
}

func encodeU(imm uint32, rd uint32, opcode Opcode) uint32 {
	return (imm & 0xFFFFF000) | rd<<7 | uint32(opcode)
}

func encodeJ(imm uint32, rd uint32) uint32 {
	imm20 := (imm >> 20) & 1
	imm101 := (imm >> 1) & 0x3FF
	imm11 := (imm >> 11) & 1
	imm1912 := (imm >> 12) & 0xFF
	return imm20<<31 | imm1912<<12 | imm11<<20 | imm101<<21 | rd<<7 | uint32(OpcodeJAL)
}

func encodeB(imm uint32, rs2, rs1, funct3 uint32) uint32 {
	imm12 := (imm >> 12) & 1
	imm105 := (imm >> 5) & 0x3F
	imm41 := (imm >> 1) & 0xF
	imm11 := (imm >> 11) & 1
	return imm12<<31 | imm105<<25 | rs2<<20 | rs1<<15 | funct3<<12 | imm41<<8 | imm11<<7 | uint32(OpcodeBRANCH)
}

func encodeS(imm uint32, rs2, rs1, funct3 uint32) uint32 {
	imm115 := (imm >> 5) & 0x7F
	imm40 := imm & 0x1F
	return imm115<<25 | rs2<<20 | rs1<<15 | funct3<<12 | imm40<<7 | uint32(OpcodeSTORE)
}

// u32 reinterprets a signed value's bit pattern as uint32. Going through
// a function keeps negative constants from being rejected at compile time.
func u32(v int32) uint32 {
	return uint32(v)
}

func TestDecodeOpImm(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		want Instruction
	}{
		{"ADDI x1, x2, 2", encodeI(2, 2, 0b000, 1, OpcodeOPIMM), Instruction{Mnemonic: ADDI, Rd: 1, Rs1: 2, Imm: 2}},
		{"ADDI negative imm", encodeI(0xFFF, 0, 0b000, 2, OpcodeOPIMM), Instruction{Mnemonic: ADDI, Rd: 2, Rs1: 0, Imm: -1}},
		{"SLTI", encodeI(5, 3, 0b010, 4, OpcodeOPIMM), Instruction{Mnemonic: SLTI, Rd: 4, Rs1: 3, Imm: 5}},
		{"SLTIU", encodeI(5, 3, 0b011, 4, OpcodeOPIMM), Instruction{Mnemonic: SLTIU, Rd: 4, Rs1: 3, Imm: 5}},
		{"XORI", encodeI(0xF0, 1, 0b100, 1, OpcodeOPIMM), Instruction{Mnemonic: XORI, Rd: 1, Rs1: 1, Imm: 0xF0}},
		{"ORI", encodeI(0xF0, 1, 0b110, 1, OpcodeOPIMM), Instruction{Mnemonic: ORI, Rd: 1, Rs1: 1, Imm: 0xF0}},
		{"ANDI", encodeI(0xF0, 1, 0b111, 1, OpcodeOPIMM), Instruction{Mnemonic: ANDI, Rd: 1, Rs1: 1, Imm: 0xF0}},
		{"SLLI", encodeI(7, 1, 0b001, 1, OpcodeOPIMM), Instruction{Mnemonic: SLLI, Rd: 1, Rs1: 1, Shamt: 7}},
		{"SRLI", encodeI(7, 1, 0b101, 1, OpcodeOPIMM), Instruction{Mnemonic: SRLI, Rd: 1, Rs1: 1, Shamt: 7}},
		{"SRAI", encodeI(0b0100000<<5|7, 1, 0b101, 1, OpcodeOPIMM), Instruction{Mnemonic: SRAI, Rd: 1, Rs1: 1, Shamt: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.word)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeSLLIRejectsNonzeroHighBits(t *testing.T) {
	word := encodeI(0b0100000<<5|3, 1, 0b001, 1, OpcodeOPIMM)
	_, err := Decode(word)
	assertKind(t, err, fault.KindDecode)
}

func TestDecodeOpRR(t *testing.T) {
	tests := []struct {
		name             string
		funct7           uint32
		funct3           uint32
		wantMnemonic     Mnemonic
	}{
		{"ADD", 0b0000000, 0b000, ADD},
		{"SUB", 0b0100000, 0b000, SUB},
		{"SLL", 0b0000000, 0b001, SLL},
		{"SLT", 0b0000000, 0b010, SLT},
		{"SLTU", 0b0000000, 0b011, SLTU},
		{"XOR", 0b0000000, 0b100, XOR},
		{"SRL", 0b0000000, 0b101, SRL},
		{"SRA", 0b0100000, 0b101, SRA},
		{"OR", 0b0000000, 0b110, OR},
		{"AND", 0b0000000, 0b111, AND},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := encodeR(tt.funct7, 3, 2, tt.funct3, 1, OpcodeOPRR)
			got, err := Decode(word)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Mnemonic != tt.wantMnemonic || got.Rd != 1 || got.Rs1 != 2 || got.Rs2 != 3 {
				t.Errorf("Decode() = %+v, want mnemonic %v rd=1 rs1=2 rs2=3", got, tt.wantMnemonic)
			}
		})
	}
}

func TestDecodeLUIAUIPC(t *testing.T) {
	lui, err := Decode(encodeU(0x12345000, 5, OpcodeLUI))
	if err != nil {
		t.Fatalf("Decode LUI: %v", err)
	}
	if lui.Mnemonic != LUI || lui.Rd != 5 || lui.Imm != 0x12345000 {
		t.Errorf("LUI decode = %+v", lui)
	}

	auipc, err := Decode(encodeU(0x12345000, 6, OpcodeAUIPC))
	if err != nil {
		t.Fatalf("Decode AUIPC: %v", err)
	}
	if auipc.Mnemonic != AUIPC || auipc.Rd != 6 {
		t.Errorf("AUIPC decode = %+v", auipc)
	}
}

func TestDecodeJAL(t *testing.T) {
	got, err := Decode(encodeJ(0x100, 1))
	if err != nil {
		t.Fatalf("Decode JAL: %v", err)
	}
	if got.Mnemonic != JAL || got.Rd != 1 || got.Imm != 0x100 {
		t.Errorf("JAL decode = %+v, want imm 0x100", got)
	}
}

func TestDecodeJALRRejectsNonzeroFunct3(t *testing.T) {
	word := encodeI(4, 1, 0b010, 2, OpcodeJALR)
	_, err := Decode(word)
	assertKind(t, err, fault.KindDecode)
}

func TestDecodeBranch(t *testing.T) {
	tests := []struct {
		name         string
		funct3       uint32
		wantMnemonic Mnemonic
	}{
		{"BEQ", 0b000, BEQ},
		{"BNE", 0b001, BNE},
		{"BLT", 0b100, BLT},
		{"BGE", 0b101, BGE},
		{"BLTU", 0b110, BLTU},
		{"BGEU", 0b111, BGEU},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := encodeB(8, 2, 1, tt.funct3)
			got, err := Decode(word)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Mnemonic != tt.wantMnemonic || got.Imm != 8 {
				t.Errorf("Decode() = %+v, want mnemonic %v imm 8", got, tt.wantMnemonic)
			}
		})
	}
}

func TestDecodeBranchNegativeOffset(t *testing.T) {
	got, err := Decode(encodeB(u32(-16), 2, 1, 0b000))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Imm != -16 {
		t.Errorf("Imm = %d, want -16", got.Imm)
	}
}

func TestDecodeStore(t *testing.T) {
	tests := []struct {
		name         string
		funct3       uint32
		wantMnemonic Mnemonic
	}{
		{"SB", 0b000, SB},
		{"SH", 0b001, SH},
		{"SW", 0b010, SW},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := encodeS(12, 2, 1, tt.funct3)
			got, err := Decode(word)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Mnemonic != tt.wantMnemonic || got.Imm != 12 {
				t.Errorf("Decode() = %+v, want mnemonic %v imm 12", got, tt.wantMnemonic)
			}
		})
	}
}

func TestDecodeLoad(t *testing.T) {
	tests := []struct {
		name         string
		funct3       uint32
		wantMnemonic Mnemonic
	}{
		{"LB", 0b000, LB},
		{"LH", 0b001, LH},
		{"LW", 0b010, LW},
		{"LBU", 0b100, LBU},
		{"LHU", 0b101, LHU},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := encodeI(4, 1, tt.funct3, 2, OpcodeLOAD)
			got, err := Decode(word)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Mnemonic != tt.wantMnemonic {
				t.Errorf("Mnemonic = %v, want %v", got.Mnemonic, tt.wantMnemonic)
			}
		})
	}
}

func TestDecodeUnrecognizedOpcode(t *testing.T) {
	_, err := Decode(0b1111111) // opcode bits all set, not a valid RV32I opcode
	assertKind(t, err, fault.KindDecode)
}

func TestDecodeFenceAndSystemAreFatal(t *testing.T) {
	for _, op := range []Opcode{OpcodeFENCE, OpcodeSYSTEM} {
		_, err := Decode(uint32(op))
		assertKind(t, err, fault.KindDecode)
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		value uint32
		bits  uint
		want  int32
	}{
		{0x7FF, 12, 2047},
		{0x800, 12, -2048},
		{0xFFF, 12, -1},
		{0, 12, 0},
		{0x1FFFFF, 21, -1},
		{0x100000, 21, -1048576},
	}
	for _, tt := range tests {
		if got := SignExtend(tt.value, tt.bits); got != tt.want {
			t.Errorf("SignExtend(0x%X, %d) = %d, want %d", tt.value, tt.bits, got, tt.want)
		}
	}
}

func assertKind(t *testing.T, err error, want fault.Kind) {
	t.Helper()
	var f *fault.Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *fault.Fault, got %T: %v", err, err)
	}
	if f.Kind != want {
		t.Errorf("Kind = %v, want %v", f.Kind, want)
	}
}
