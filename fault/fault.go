// Package fault defines the typed, fatal error currency shared by the
// memory, decoder and hart packages.
package fault

import "fmt"

// Kind categorizes a fault the way spec §7's taxonomy does.
type Kind int

const (
	// KindDecode covers unrecognized opcodes, invalid funct3/funct7
	// combinations, bad shift-immediate high bits, and the recognized
	// but unimplemented FENCE/SYSTEM families.
	KindDecode Kind = iota
	// KindAlignment covers misaligned fetch/load/store addresses and
	// misaligned branch/jump targets.
	KindAlignment
	// KindBounds covers any access that touches a byte outside memory.
	KindBounds
	// KindLoader covers program-image loading failures (size not a
	// multiple of 4, file missing). The core never raises this kind
	// itself; it exists so the loader package can speak the same
	// error currency as the core.
	KindLoader
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindAlignment:
		return "alignment"
	case KindBounds:
		return "bounds"
	case KindLoader:
		return "loader"
	default:
		return "unknown"
	}
}

// Fault is a fatal, non-recoverable simulator error. It always carries
// the offending address and/or instruction word so a diagnostic can
// name exactly what went wrong, per spec §7's user-visible behavior
// requirement.
type Fault struct {
	Kind    Kind
	Addr    uint32
	Word    uint32
	HasAddr bool
	HasWord bool
	Message string
	Wrapped error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	loc := ""
	if f.HasAddr {
		loc = fmt.Sprintf(" at 0x%08X", f.Addr)
	}
	if f.HasWord {
		loc += fmt.Sprintf(" (word 0x%08X)", f.Word)
	}
	if f.Wrapped != nil {
		return fmt.Sprintf("%s fault%s: %s: %v", f.Kind, loc, f.Message, f.Wrapped)
	}
	return fmt.Sprintf("%s fault%s: %s", f.Kind, loc, f.Message)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (f *Fault) Unwrap() error {
	return f.Wrapped
}

// Is reports whether target is a *Fault of the same Kind, so callers
// can write errors.Is(err, fault.New(fault.KindBounds, "")) style
// checks without caring about address/message details.
func (f *Fault) Is(target error) bool {
	other, ok := target.(*Fault)
	if !ok {
		return false
	}
	return f.Kind == other.Kind
}

// New creates a Fault with no address/word context.
func New(kind Kind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// AtAddr creates a Fault naming the offending address.
func AtAddr(kind Kind, addr uint32, message string) *Fault {
	return &Fault{Kind: kind, Addr: addr, HasAddr: true, Message: message}
}

// AtWord creates a Fault naming the offending instruction word and its
// address.
func AtWord(kind Kind, addr, word uint32, message string) *Fault {
	return &Fault{Kind: kind, Addr: addr, HasAddr: true, Word: word, HasWord: true, Message: message}
}

// Wrap attaches an underlying cause to a Fault.
func Wrap(kind Kind, addr uint32, message string, err error) *Fault {
	return &Fault{Kind: kind, Addr: addr, HasAddr: true, Message: message, Wrapped: err}
}
