// Package dimension defines the closed vocabularies of the cigar attributes and the logic to normalise free text onto
// them.
//
// Every vocabulary has a fallback value, its first element, which is used when a value can not be matched.
// For example, "robustos", "ROBUSTO" and "Robusto" are all read as Robusto, "Kuba" is read as Cuba, while "Culebra"
// falls back to Robusto.
package dimension

import "strings"

// vocabulary is the set of the canonical values of a dimension with the aliases known for them.
type vocabulary[T ~string] struct {
	values  []T
	aliases map[string]T
}

func (v vocabulary[T]) fallback() T {
	return v.values[0]
}

// parse matches s against the canonical values first and the aliases second, case-insensitively.
func (v vocabulary[T]) parse(s string) (T, bool) {
	k := key(s)
	if k == "" {
		return v.fallback(), false
	}
	for _, el := range v.values {
		if key(string(el)) == k {
			return el, true
		}
	}
	if el, ok := v.aliases[k]; ok {
		return el, true
	}
	return v.fallback(), false
}

func (v vocabulary[T]) contains(s T) bool {
	for _, el := range v.values {
		if el == s {
			return true
		}
	}
	return false
}

func (v vocabulary[T]) strings() []string {
	o := make([]string, len(v.values))
	for i, el := range v.values {
		o[i] = string(el)
	}
	return o
}

func key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
