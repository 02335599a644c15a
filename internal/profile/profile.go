package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/dct"
)

// Profile defines reconstruction parameters for a batch run.
type Profile struct {
	Name    string
	Table   dct.QuantTable
	Scale   float64        // multiplier applied to Table (1 = as is)
	Fill    dct.FillPolicy // padding policy
	Round   dct.Rounding   // sample rounding
	Order   dct.IndexOrder
	Dequant dct.DequantDomain
	// RoundCoefficients makes quantization lossy.
	RoundCoefficients bool
	Formats           []string // output formats in priority order
}

// Built-in profiles.
var profiles = map[string]Profile{
	"standard": {
		Name:              "standard",
		Table:             dct.DefaultQuantTable,
		Scale:             1,
		Fill:              dct.FillZero,
		Round:             dct.RoundNearest,
		RoundCoefficients: true,
		Formats:           []string{"png"},
	},
	"fine": {
		Name:              "fine",
		Table:             dct.DefaultQuantTable,
		Scale:             0.5,
		Fill:              dct.FillEdge,
		Round:             dct.RoundNearest,
		RoundCoefficients: true,
		Formats:           []string{"png"},
	},
	"coarse": {
		Name:              "coarse",
		Table:             dct.DefaultQuantTable,
		Scale:             2,
		Fill:              dct.FillEdge,
		Round:             dct.RoundNearest,
		RoundCoefficients: true,
		Formats:           []string{"png"},
	},
	"lossless-check": {
		Name:    "lossless-check",
		Table:   dct.UnitQuantTable,
		Scale:   1,
		Fill:    dct.FillZero,
		Round:   dct.RoundNearest,
		Formats: []string{"png"},
	},
	"reference": {
		Name:    "reference",
		Table:   dct.DefaultQuantTable,
		Scale:   1,
		Fill:    dct.FillZero,
		Round:   dct.RoundTruncate,
		Order:   dct.IndexTransposed,
		Dequant: dct.DequantSample,
		Formats: []string{"png"},
	},
}

// Get returns a profile by name. Falls back to standard if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["standard"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles in lexical order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks the scale factor and the scaled table.
func (p Profile) Validate() error {
	if err := dct.CheckScale(p.Scale); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if err := p.EffectiveTable().Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return nil
}

// NameList returns the built-in profile names joined for flag help.
func NameList() string {
	return strings.Join(Names(), ", ")
}

// EffectiveTable returns Table with Scale applied.
func (p Profile) EffectiveTable() dct.QuantTable {
	return p.Table.Scale(p.Scale)
}

// Options converts the profile to reconstruction options.
func (p Profile) Options(workers int) dct.Options {
	return dct.Options{
		Table:             p.EffectiveTable(),
		Fill:              p.Fill,
		RoundCoefficients: p.RoundCoefficients,
		Rounding:          p.Round,
		Order:             p.Order,
		Dequant:           p.Dequant,
		Workers:           workers,
	}
}
