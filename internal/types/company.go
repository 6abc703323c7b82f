package types

// NormalizedCompanyName is the result of canonicalizing a raw company string.
type NormalizedCompanyName struct {
	// Canonical is the representative form shared by all known variants.
	Canonical string `json:"canonical"`
	// NormalizedKey is the lowercase, suffix-stripped lookup key.
	NormalizedKey string  `json:"normalized_key"`
	Confidence    float64 `json:"confidence"`
	// IsLearned is true when the canonical came from a learned alias rather
	// than the cleaned input itself.
	IsLearned bool `json:"is_learned"`
}

// IsUnknown reports whether the name resolved to the reserved sentinel that
// dedup and stats layers must not aggregate on.
func (n NormalizedCompanyName) IsUnknown() bool {
	return n.Canonical == UnknownCompanyCanonical
}

// UnknownCompanyCanonical is the reserved sentinel canonical for empty or
// placeholder company names.
const UnknownCompanyCanonical = "__unknown_company__"
