// Package loader installs a raw program image into simulator memory.
// Program loading is deliberately outside THE CORE (spec §1): it is a
// harness/host concern that uses only Memory's public store-word
// operation.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/idozipo/rv32i-sim/fault"
	"github.com/idozipo/rv32i-sim/memory"
	"github.com/idozipo/rv32i-sim/safeconv"
)

// Load reads a raw little-endian stream of 32-bit instruction words
// from r and installs them into mem starting at address 0, using
// Memory's word-store operation, per spec §6. The input must be a
// whole number of 4-byte words.
func Load(mem *memory.Memory, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read program image: %w", err)
	}
	return LoadBytes(mem, data)
}

// LoadBytes installs a raw program image already held in memory (as
// opposed to read from a stream) into mem starting at address 0.
func LoadBytes(mem *memory.Memory, data []byte) error {
	if len(data)%4 != 0 {
		return fault.New(fault.KindLoader, fmt.Sprintf("program file size %d is not a multiple of 4", len(data)))
	}

	for i := 0; i+4 <= len(data); i += 4 {
		word := uint32(data[i]) |
			uint32(data[i+1])<<8 |
			uint32(data[i+2])<<16 |
			uint32(data[i+3])<<24
		addr, err := safeconv.IntToUint32(i)
		if err != nil {
			return fmt.Errorf("failed to compute offset for word at index %d: %w", i, err)
		}
		if err := mem.WriteWord(addr, word); err != nil {
			return fmt.Errorf("failed to install word at offset %d: %w", i, err)
		}
	}
	return nil
}

// LoadFile opens path and loads it into mem, per spec §9's
// parameterization of the original's hardcoded "program.bin".
func LoadFile(mem *memory.Memory, path string) error {
	f, err := os.Open(path) // #nosec G304 -- path is an explicit CLI argument
	if err != nil {
		return fault.Wrap(fault.KindLoader, 0, fmt.Sprintf("failed to open program image %q", path), err)
	}
	defer f.Close()

	if err := Load(mem, f); err != nil {
		return err
	}
	return nil
}
