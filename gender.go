package genderlens

import "strings"

// A Gender is an immutable named bundle of one or more pronoun series
// plus an optional set of proper names. Its identifiers, the union of
// all series forms and names, are what the proximity scanner matches
// tokens against. Names count as identifiers but never as subject or
// object pronouns.
//
// Identifiers may overlap between two Gender values used in the same
// analysis; a token matching both is counted toward both.
type Gender struct {
	label  string
	series []PronounSeries
	names  []string // lowercase, unique, first-seen order
}

// NewGender builds a gender from a label and its pronoun series.
// Duplicate series (by Equal) are dropped.
func NewGender(label string, series ...PronounSeries) Gender {
	g := Gender{label: label}
	for _, s := range series {
		if !g.hasSeries(s) {
			g.series = append(g.series, s)
		}
	}
	return g
}

func (g Gender) hasSeries(s PronounSeries) bool {
	for _, have := range g.series {
		if have.Equal(s) {
			return true
		}
	}
	return false
}

// WithNames returns a copy of the gender with the given proper names
// added as identifiers. The receiver is not modified; custom
// identifiers never leak into other analyses. Names are lowercased so
// they match the scanner's lowercase token comparison.
func (g Gender) WithNames(names ...string) Gender {
	out := Gender{label: g.label}
	out.series = append(out.series, g.series...)
	seen := make(map[string]bool, len(g.names)+len(names))
	for _, name := range g.names {
		seen[name] = true
		out.names = append(out.names, name)
	}
	for _, name := range names {
		name = strings.ToLower(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out.names = append(out.names, name)
	}
	return out
}

// Label returns the display name of the gender.
func (g Gender) Label() string { return g.label }

// Series returns the gender's pronoun series in first-seen order.
func (g Gender) Series() []PronounSeries {
	out := make([]PronounSeries, len(g.series))
	copy(out, g.series)
	return out
}

// Names returns the proper names attached to the gender.
func (g Gender) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Pronouns returns the union of all series forms, deduplicated in
// series order then form order.
func (g Gender) Pronouns() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range g.series {
		for _, form := range s.Pronouns() {
			if !seen[form] {
				seen[form] = true
				out = append(out, form)
			}
		}
	}
	return out
}

// Identifiers returns every surface form that marks a token as
// referring to this gender: the pronoun union plus any names.
func (g Gender) Identifiers() []string {
	out := g.Pronouns()
	seen := make(map[string]bool, len(out))
	for _, form := range out {
		seen[form] = true
	}
	for _, name := range g.names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// identifierSet returns the identifiers as a lookup set.
func (g Gender) identifierSet() map[string]bool {
	set := make(map[string]bool)
	for _, s := range g.series {
		for _, form := range s.Pronouns() {
			set[form] = true
		}
	}
	for _, name := range g.names {
		set[name] = true
	}
	return set
}

// Subjects returns the union of subject forms across the series.
func (g Gender) Subjects() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range g.series {
		if subj := s.Subject(); subj != "" && !seen[subj] {
			seen[subj] = true
			out = append(out, subj)
		}
	}
	return out
}

// Objects returns the union of object forms across the series.
func (g Gender) Objects() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range g.series {
		if obj := s.Object(); obj != "" && !seen[obj] {
			seen[obj] = true
			out = append(out, obj)
		}
	}
	return out
}

// HasIdentifier reports whether word is one of the gender's
// identifiers, case-insensitively.
func (g Gender) HasIdentifier(word string) bool {
	word = strings.ToLower(word)
	for _, s := range g.series {
		if s.Contains(word) {
			return true
		}
	}
	for _, name := range g.names {
		if name == word {
			return true
		}
	}
	return false
}

// Equal reports whether two genders have the same label, series, and
// names.
func (g Gender) Equal(other Gender) bool {
	if g.label != other.label ||
		len(g.series) != len(other.series) ||
		len(g.names) != len(other.names) {
		return false
	}
	for _, s := range g.series {
		if !other.hasSeries(s) {
			return false
		}
	}
	theirs := make(map[string]bool, len(other.names))
	for _, name := range other.names {
		theirs[name] = true
	}
	for _, name := range g.names {
		if !theirs[name] {
			return false
		}
	}
	return true
}

func (g Gender) String() string { return g.label }

// Built-in genders. Functions rather than package variables: each call
// returns a fresh value, so there is no process-wide default for a
// caller to mutate.

// Male is the built-in masculine gender over the He series.
func Male() Gender { return NewGender("Male", He()) }

// Female is the built-in feminine gender over the She series.
func Female() Gender { return NewGender("Female", She()) }

// Nonbinary is the built-in nonbinary gender over the They series.
func Nonbinary() Gender { return NewGender("Nonbinary", They()) }

// Neogenders bundles the neopronoun series under one label for
// analyses that track them collectively.
func Neogenders() Gender {
	return NewGender("Neo", Xe(), Ae(), Fae(), Ey(), Ve(), Per(), ZeHir())
}

// BinaryGroup returns the conventional two-gender analysis set:
// Female, Male.
func BinaryGroup() []Gender { return []Gender{Female(), Male()} }

// TrinaryGroup returns Female, Male, Nonbinary.
func TrinaryGroup() []Gender { return []Gender{Female(), Male(), Nonbinary()} }
