// Package memory implements the simulator's byte-addressable storage:
// a fixed-size byte array with aligned word and halfword access
// helpers. Memory is the sole owner of program and data bytes.
package memory

import (
	"github.com/idozipo/rv32i-sim/fault"
)

// Size constants. ReferenceSize matches the reference implementation;
// MinSize is the smallest size the core guarantees to work correctly
// with bounds checking.
const (
	ReferenceSize = 16 * 1024 * 1024 // 16 MiB
	MinSize       = 64 * 1024        // 64 KiB
)

// Memory is a flat, little-endian byte-addressable array. It has no
// notion of segments or permissions: every access is checked only for
// bounds and alignment, per spec §4.1.
type Memory struct {
	bytes []byte
}

// New creates a Memory of the given size in bytes. Sizes below MinSize
// are rejected by rounding up to MinSize, since the core makes no
// promises below that floor.
func New(size int) *Memory {
	if size < MinSize {
		size = MinSize
	}
	return &Memory{bytes: make([]byte, size)}
}

// NewDefault creates a Memory of ReferenceSize bytes.
func NewDefault() *Memory {
	return New(ReferenceSize)
}

// Size returns the memory's capacity in bytes.
func (m *Memory) Size() int {
	return len(m.bytes)
}

func (m *Memory) checkBounds(addr uint32, width uint32) error {
	end := uint64(addr) + uint64(width)
	if end > uint64(len(m.bytes)) {
		return fault.AtAddr(fault.KindBounds, addr, "access out of range")
	}
	return nil
}

// ReadByte reads a single byte. Bytes require no alignment.
func (m *Memory) ReadByte(addr uint32) (byte, error) {
	if err := m.checkBounds(addr, 1); err != nil {
		return 0, err
	}
	return m.bytes[addr], nil
}

// WriteByte writes a single byte.
func (m *Memory) WriteByte(addr uint32, value byte) error {
	if err := m.checkBounds(addr, 1); err != nil {
		return err
	}
	m.bytes[addr] = value
	return nil
}

// ReadHalfword reads a little-endian 16-bit value at a 2-aligned
// address.
func (m *Memory) ReadHalfword(addr uint32) (uint16, error) {
	if addr%2 != 0 {
		return 0, fault.AtAddr(fault.KindAlignment, addr, "halfword access must be 2-byte aligned")
	}
	if err := m.checkBounds(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.bytes[addr]) | uint16(m.bytes[addr+1])<<8, nil
}

// WriteHalfword writes a little-endian 16-bit value at a 2-aligned
// address.
func (m *Memory) WriteHalfword(addr uint32, value uint16) error {
	if addr%2 != 0 {
		return fault.AtAddr(fault.KindAlignment, addr, "halfword access must be 2-byte aligned")
	}
	if err := m.checkBounds(addr, 2); err != nil {
		return err
	}
	m.bytes[addr] = byte(value)
	m.bytes[addr+1] = byte(value >> 8)
	return nil
}

// ReadWord reads a little-endian 32-bit value at a 4-aligned address.
func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, fault.AtAddr(fault.KindAlignment, addr, "word access must be 4-byte aligned")
	}
	if err := m.checkBounds(addr, 4); err != nil {
		return 0, err
	}
	return uint32(m.bytes[addr]) |
		uint32(m.bytes[addr+1])<<8 |
		uint32(m.bytes[addr+2])<<16 |
		uint32(m.bytes[addr+3])<<24, nil
}

// WriteWord writes a little-endian 32-bit value at a 4-aligned address.
func (m *Memory) WriteWord(addr uint32, value uint32) error {
	if addr%4 != 0 {
		return fault.AtAddr(fault.KindAlignment, addr, "word access must be 4-byte aligned")
	}
	if err := m.checkBounds(addr, 4); err != nil {
		return err
	}
	m.bytes[addr] = byte(value)
	m.bytes[addr+1] = byte(value >> 8)
	m.bytes[addr+2] = byte(value >> 16)
	m.bytes[addr+3] = byte(value >> 24)
	return nil
}

// LoadBytes copies data into memory starting at addr, byte by byte.
// The loader package does not use it; it installs images word by word
// through WriteWord.
func (m *Memory) LoadBytes(addr uint32, data []byte) error {
	for i, b := range data {
		if err := m.WriteByte(addr+uint32(i), b); err != nil {
			return err
		}
	}
	return nil
}

// Reset zeroes every byte of memory.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}
