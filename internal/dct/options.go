package dct

import (
	"fmt"
	"runtime"
	"strings"
)

// FillPolicy decides what the padder writes outside the source raster.
type FillPolicy int

const (
	// FillZero writes 0 into padding rows and columns.
	FillZero FillPolicy = iota
	// FillEdge replicates the last valid column, then the last valid row.
	FillEdge
)

// Rounding decides how reconstructed values become samples.
type Rounding int

const (
	// RoundNearest rounds half away from zero.
	RoundNearest Rounding = iota
	// RoundTruncate drops the fractional part.
	RoundTruncate
)

// IndexOrder selects how the inverse pass addresses a block's
// coefficients.
type IndexOrder int

const (
	// IndexNatural reads coefficient (u,v) for basis pair (u,v).
	IndexNatural IndexOrder = iota
	// IndexTransposed reads coefficient (v,u) for basis pair (u,v). The
	// reconstructed block comes out transposed.
	IndexTransposed
)

// DequantDomain selects where the step table is multiplied back in.
type DequantDomain int

const (
	// DequantCoefficient scales each coefficient before the inverse sum.
	DequantCoefficient DequantDomain = iota
	// DequantSample scales each finished sample by the step at its
	// position within the block.
	DequantSample
)

// Options parameterize a reconstruction.
type Options struct {
	Table QuantTable
	Fill  FillPolicy
	// RoundCoefficients rounds quantized coefficients to integers. Without
	// it quantization followed by coefficient dequantization is lossless.
	RoundCoefficients bool
	Rounding          Rounding
	Order             IndexOrder
	Dequant           DequantDomain
	// Workers is the number of goroutines transforming block rows.
	// 0 means runtime.NumCPU().
	Workers int
}

// DefaultOptions returns a JPEG-like pipeline over DefaultQuantTable.
func DefaultOptions() Options {
	return Options{
		Table:             DefaultQuantTable,
		Fill:              FillZero,
		RoundCoefficients: true,
		Rounding:          RoundNearest,
		Order:             IndexNatural,
		Dequant:           DequantCoefficient,
	}
}

// ReferenceOptions reproduces the original reconstruction discipline:
// unrounded coefficients, transposed inverse addressing, sample-domain
// dequantization and truncating casts.
func ReferenceOptions() Options {
	return Options{
		Table:    DefaultQuantTable,
		Fill:     FillZero,
		Rounding: RoundTruncate,
		Order:    IndexTransposed,
		Dequant:  DequantSample,
	}
}

func (o *Options) workers(blockRows int) int {
	n := o.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > blockRows {
		n = blockRows
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (p FillPolicy) String() string {
	switch p {
	case FillZero:
		return "zero"
	case FillEdge:
		return "edge"
	default:
		return fmt.Sprintf("FillPolicy(%d)", int(p))
	}
}

// ParseFillPolicy maps "zero" or "edge" to a FillPolicy.
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch strings.ToLower(s) {
	case "zero":
		return FillZero, nil
	case "edge":
		return FillEdge, nil
	}
	return 0, fmt.Errorf("unknown fill policy %q", s)
}

func (r Rounding) String() string {
	switch r {
	case RoundNearest:
		return "nearest"
	case RoundTruncate:
		return "truncate"
	default:
		return fmt.Sprintf("Rounding(%d)", int(r))
	}
}

// ParseRounding maps "nearest" or "truncate" to a Rounding.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(s) {
	case "nearest":
		return RoundNearest, nil
	case "truncate", "trunc":
		return RoundTruncate, nil
	}
	return 0, fmt.Errorf("unknown rounding %q", s)
}

func (o IndexOrder) String() string {
	if o == IndexTransposed {
		return "transposed"
	}
	return "natural"
}

func (d DequantDomain) String() string {
	if d == DequantSample {
		return "sample"
	}
	return "coefficient"
}
