package namematch

import "strings"

// Variations maps normalized name fragments to the names that produce
// them. A fragment shared by several names (a common surname) holds all
// of them in source order. Keys iterate in insertion order.
type Variations struct {
	keys  []string
	names map[string][]string
}

// BuildVariations indexes, for every name: the lower-cased name, the
// lower-cased name without spaces, the first character as a surname
// fragment (names of two or more characters), and the remainder after the
// first character as a given-name fragment (names of three or more).
func BuildVariations(names []string) *Variations {
	v := &Variations{names: make(map[string][]string)}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		runes := []rune(lower)

		v.add(lower, name)
		v.add(strings.ReplaceAll(lower, " ", ""), name)
		if len(runes) >= 2 {
			v.add(string(runes[0]), name)
		}
		if len(runes) >= 3 {
			v.add(strings.TrimSpace(string(runes[1:])), name)
		}
	}
	return v
}

func (v *Variations) add(key, name string) {
	if key == "" {
		return
	}
	existing, ok := v.names[key]
	if !ok {
		v.keys = append(v.keys, key)
	}
	for _, n := range existing {
		if n == name {
			return
		}
	}
	v.names[key] = append(existing, name)
}

// Lookup returns the names indexed under key.
func (v *Variations) Lookup(key string) ([]string, bool) {
	if v == nil {
		return nil, false
	}
	names, ok := v.names[key]
	return names, ok
}

// Keys returns all fragments in insertion order.
func (v *Variations) Keys() []string {
	if v == nil {
		return nil
	}
	return v.keys
}

// Len returns the number of distinct fragments.
func (v *Variations) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Ambiguous reports whether key maps to more than one name.
func (v *Variations) Ambiguous(key string) bool {
	names, _ := v.Lookup(key)
	return len(names) > 1
}
