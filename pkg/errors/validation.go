package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxCanvasSide bounds canvas dimensions accepted from user input.
const MaxCanvasSide = 16384

// ValidateCanvas checks canvas dimensions taken from user input before they
// are handed to the layout engine, which treats bad sizes as a contract
// violation rather than a runtime error.
func ValidateCanvas(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidCanvas, "canvas size must be finite, got %vx%v", width, height)
		}
		if v <= 0 {
			return New(ErrCodeInvalidCanvas, "canvas size must be positive, got %vx%v", width, height)
		}
		if v > MaxCanvasSide {
			return New(ErrCodeInvalidCanvas, "canvas side %v exceeds %d", v, MaxCanvasSide)
		}
	}
	return nil
}

// ValidateSourceCount checks a pane count taken from user input.
func ValidateSourceCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "source count cannot be negative, got %d", n)
	}
	return nil
}

// ValidateDisplayName rejects names that cannot be shown on a single line.
//
// The rules are conservative:
//   - No empty names
//   - No control characters (newlines, tabs, null bytes)
//   - Maximum length of 255 bytes
func ValidateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "display name cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "display name too long (max 255 bytes)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "display name contains control characters")
		}
	}
	return nil
}

// ValidateRef checks a media reference (a path or URL) for obvious damage.
func ValidateRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "media reference cannot be empty")
	}
	if strings.ContainsRune(ref, '\x00') {
		return New(ErrCodeInvalidInput, "media reference contains a null byte")
	}
	return nil
}
