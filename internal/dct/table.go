package dct

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// BlockSize is the edge length of a transform block.
const BlockSize = 8

// MaxStep bounds a single quantization step. Any coefficient of an 8-bit
// block is far below it, so larger steps would quantize identically.
const MaxStep = 1 << 16

var (
	// ErrInvalidQuantTable is returned for a table with a step outside [1, MaxStep].
	ErrInvalidQuantTable = errors.New("invalid quantization table")
	// ErrInvalidScale is returned for a NaN, infinite or negative scale factor.
	ErrInvalidScale = errors.New("invalid table scale")
)

// QuantTable holds one step size per coefficient position, indexed
// [row frequency][column frequency].
type QuantTable [BlockSize][BlockSize]int

// DefaultQuantTable is the step table used by the standard profile.
var DefaultQuantTable = QuantTable{
	{4, 3, 2, 4, 6, 10, 13, 15},
	{3, 3, 3, 5, 6, 14, 15, 14},
	{3, 3, 4, 6, 10, 14, 17, 14},
	{3, 4, 5, 7, 13, 22, 20, 15},
	{4, 5, 9, 14, 17, 27, 26, 19},
	{6, 9, 14, 16, 20, 26, 28, 23},
	{12, 16, 19, 22, 26, 30, 30, 25},
	{18, 23, 24, 24, 28, 25, 26, 25},
}

// UnitQuantTable leaves coefficients untouched.
var UnitQuantTable = func() QuantTable {
	var t QuantTable
	for x := range t {
		for y := range t[x] {
			t[x][y] = 1
		}
	}
	return t
}()

// Validate checks that every step is in [1, MaxStep].
func (t QuantTable) Validate() error {
	for x := range t {
		for y, q := range t[x] {
			if q <= 0 || q > MaxStep {
				return fmt.Errorf("step %d at (%d,%d): %w", q, x, y, ErrInvalidQuantTable)
			}
		}
	}
	return nil
}

// CheckScale reports whether f is usable with Scale. Zero means "no
// scaling" and is accepted.
func CheckScale(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%g: %w", f, ErrInvalidScale)
	}
	return nil
}

// Scale multiplies every step by f and rounds, keeping each step in
// [1, MaxStep]. Zero, one and any f rejected by CheckScale return the
// table unchanged.
func (t QuantTable) Scale(f float64) QuantTable {
	if f == 0 || f == 1 || CheckScale(f) != nil {
		return t
	}
	for x := range t {
		for y := range t[x] {
			v := math.Round(float64(t[x][y]) * f)
			switch {
			case v < 1:
				v = 1
			case v > MaxStep:
				v = MaxStep
			}
			t[x][y] = int(v)
		}
	}
	return t
}

// String renders the table as eight right-aligned rows.
func (t QuantTable) String() string {
	var sb strings.Builder
	for x := range t {
		for y, q := range t[x] {
			if y > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%3d", q)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
