// Package safeconv provides bounds-checked integer narrowing for the
// places this simulator crosses from Go's machine-word int into the
// fixed-width types the RV32I state uses, adapted from the teacher's
// vm.SafeIntToUint32 family.
package safeconv

import (
	"fmt"
	"math"
)

// IntToUint32 converts an int to uint32, rejecting negative values and
// anything too large to fit.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative int %d to uint32", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("int value %d exceeds uint32 maximum", v)
	}
	return uint32(v), nil
}

// Uint32ToUint16 converts a uint32 to uint16, rejecting values that
// don't fit.
func Uint32ToUint16(v uint32) (uint16, error) {
	if v > math.MaxUint16 {
		return 0, fmt.Errorf("uint32 value 0x%X exceeds uint16 maximum", v)
	}
	return uint16(v), nil
}

// AsInt32 reinterprets a uint32's bit pattern as int32, for display of
// a register's signed interpretation. The bit pattern is preserved;
// there is nothing to validate.
func AsInt32(v uint32) int32 {
	return int32(v) // #nosec G115 -- reinterpretation, not narrowing
}
