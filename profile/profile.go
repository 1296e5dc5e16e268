// Package profile carries per-title surface conventions as explicit,
// read-only configuration. A profile never teaches the parser any field
// semantics; it only tunes how ambiguous surface forms are read and how
// canonical output is formatted.
package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Block classification policies for empty blocks.
const (
	EmptySequence = "sequence"
	EmptyMapping  = "mapping"
)

type Profile struct {
	Name string `json:"name"`

	// FloatPrecision is the number of decimals canonical float output
	// carries.
	FloatPrecision int `json:"float_precision"`

	// EmptyBlocks classifies a block with no entries: EmptySequence
	// (the default) or EmptyMapping.
	EmptyBlocks string `json:"empty_blocks,omitempty"`

	// MaxDepth bounds block nesting while parsing; zero means
	// unlimited. A deeper subtree fails the parse in strict mode and is
	// skipped with a diagnostic in lenient mode.
	MaxDepth int `json:"max_depth,omitempty"`
}

// Default returns the conventions shared across titles: three-decimal
// floats, empty blocks read as sequences, unbounded nesting.
func Default() Profile {
	return Profile{
		Name:           "default",
		FloatPrecision: 3,
		EmptyBlocks:    EmptySequence,
	}
}

func EU4() Profile {
	p := Default()
	p.Name = "eu4"
	return p
}

func HOI4() Profile {
	p := Default()
	p.Name = "hoi4"
	return p
}

func CK3() Profile {
	p := Default()
	p.Name = "ck3"
	p.FloatPrecision = 5
	return p
}

// Load reads a profile from a JWCC file (JSON with comments and trailing
// commas). Unset fields keep their Default values.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Profile{}, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}
	p := Default()
	if err := json.Unmarshal(standardized, &p); err != nil {
		return Profile{}, fmt.Errorf("invalid profile in %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p Profile) Validate() error {
	if p.FloatPrecision < 0 || p.FloatPrecision > 17 {
		return fmt.Errorf("float_precision %d out of range", p.FloatPrecision)
	}
	switch p.EmptyBlocks {
	case "", EmptySequence, EmptyMapping:
	default:
		return fmt.Errorf("unrecognized empty_blocks policy %q", p.EmptyBlocks)
	}
	if p.MaxDepth < 0 {
		return fmt.Errorf("max_depth %d out of range", p.MaxDepth)
	}
	return nil
}

// EmptyMappings reports whether empty blocks classify as mappings under
// this profile.
func (p Profile) EmptyMappings() bool {
	return p.EmptyBlocks == EmptyMapping
}
