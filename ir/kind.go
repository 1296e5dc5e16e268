package ir

import "fmt"

type Kind int

const (
	StringKind Kind = iota
	IntKind
	FloatKind
	BoolKind
	DateKind
	MappingKind
	SequenceKind
	HybridKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		StringKind:   "String",
		IntKind:      "Int",
		FloatKind:    "Float",
		BoolKind:     "Bool",
		DateKind:     "Date",
		MappingKind:  "Mapping",
		SequenceKind: "Sequence",
		HybridKind:   "Hybrid",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"String":   StringKind,
		"Int":      IntKind,
		"Float":    FloatKind,
		"Bool":     BoolKind,
		"Date":     DateKind,
		"Mapping":  MappingKind,
		"Sequence": SequenceKind,
		"Hybrid":   HybridKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{
		StringKind,
		IntKind,
		FloatKind,
		BoolKind,
		DateKind,
		MappingKind,
		SequenceKind,
		HybridKind,
	}
}

// IsScalar reports whether the kind carries a single value rather than
// children.
func (k Kind) IsScalar() bool {
	switch k {
	case MappingKind, SequenceKind, HybridKind:
		return false
	default:
		return true
	}
}

// IsBlock reports whether the kind holds children.
func (k Kind) IsBlock() bool {
	return !k.IsScalar()
}
