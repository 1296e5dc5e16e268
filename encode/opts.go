package encode

import "github.com/106-/paradox-savedata-parser/profile"

type EncodeOption func(*EncState)

// EncodeProfile applies per-title conventions to canonical output,
// chiefly float precision.
func EncodeProfile(p profile.Profile) EncodeOption {
	return func(es *EncState) { es.profile = p }
}

// EncodeCanonical renders the whole document in canonical form,
// ignoring preserved bytes. Comments and original layout are lost;
// values and entry order are not.
func EncodeCanonical(v bool) EncodeOption {
	return func(es *EncState) { es.canonical = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
