package genderlens

import "strings"

// A PronounSeries is an immutable named set of pronoun forms sharing
// one grammatical identity, with designated subject and object forms.
// Matching is case-insensitive: every form is lowercased once at
// construction and lookup keys are lowercased per call. The identifier
// is a display label only and is never matched against tokens.
type PronounSeries struct {
	identifier string
	forms      []string // lowercase, unique, first-seen order
	members    map[string]bool
	subject    string
	object     string
}

// NewPronounSeries builds a series from the given forms. The subject
// and object forms are added to the set if they are not already
// members, so a caller may list only the remaining forms.
func NewPronounSeries(identifier string, pronouns []string, subject, object string) PronounSeries {
	s := PronounSeries{
		identifier: identifier,
		members:    make(map[string]bool, len(pronouns)+2),
		subject:    strings.ToLower(subject),
		object:     strings.ToLower(object),
	}
	add := func(form string) {
		form = strings.ToLower(form)
		if form == "" || s.members[form] {
			return
		}
		s.members[form] = true
		s.forms = append(s.forms, form)
	}
	for _, p := range pronouns {
		add(p)
	}
	add(s.subject)
	add(s.object)
	return s
}

// Identifier returns the display label of the series.
func (s PronounSeries) Identifier() string { return s.identifier }

// Subject returns the designated subject form.
func (s PronounSeries) Subject() string { return s.subject }

// Object returns the designated object form.
func (s PronounSeries) Object() string { return s.object }

// Contains reports whether word is a member of the series,
// case-insensitively.
func (s PronounSeries) Contains(word string) bool {
	return s.members[strings.ToLower(word)]
}

// Pronouns returns the series' forms in stable first-seen order.
func (s PronounSeries) Pronouns() []string {
	out := make([]string, len(s.forms))
	copy(out, s.forms)
	return out
}

// Len returns the number of distinct forms.
func (s PronounSeries) Len() int { return len(s.forms) }

// Equal reports whether two series have the same identifier, the same
// forms, and the same subject and object designations.
func (s PronounSeries) Equal(other PronounSeries) bool {
	if s.identifier != other.identifier ||
		s.subject != other.subject ||
		s.object != other.object ||
		len(s.forms) != len(other.forms) {
		return false
	}
	for form := range s.members {
		if !other.members[form] {
			return false
		}
	}
	return true
}

func (s PronounSeries) String() string { return s.identifier }

// Built-in series. Each call returns a fresh value, so no caller can
// mutate a shared default out from under another.

// He is the masculine series: he / him / his / himself.
func He() PronounSeries {
	return NewPronounSeries("Masc", []string{"he", "him", "his", "himself"}, "he", "him")
}

// She is the feminine series: she / her / hers / herself.
func She() PronounSeries {
	return NewPronounSeries("Fem", []string{"she", "her", "hers", "herself"}, "she", "her")
}

// They is the singular-they series: they / them / theirs / themself.
func They() PronounSeries {
	return NewPronounSeries("Andy", []string{"they", "them", "theirs", "themself"}, "they", "them")
}

// It is the neuter series: it / itself.
func It() PronounSeries {
	return NewPronounSeries("It", []string{"it", "itself"}, "it", "it")
}

// Xe is the xe/xem neopronoun series.
func Xe() PronounSeries {
	return NewPronounSeries("Xe", []string{"xe", "xem", "xyr", "xyrs", "xemself"}, "xe", "xem")
}

// Ae is the ae/aer neopronoun series.
func Ae() PronounSeries {
	return NewPronounSeries("Ae", []string{"ae", "aer", "aers", "aerself"}, "ae", "aer")
}

// Fae is the fae/faer neopronoun series.
func Fae() PronounSeries {
	return NewPronounSeries("Fae", []string{"fae", "faer", "faers", "faerself"}, "fae", "faer")
}

// Ey is the ey/em neopronoun series.
func Ey() PronounSeries {
	return NewPronounSeries("Ey", []string{"ey", "em", "eir", "eirs", "eirself"}, "ey", "em")
}

// Ve is the ve/ver neopronoun series.
func Ve() PronounSeries {
	return NewPronounSeries("Ve", []string{"ve", "ver", "vis", "verself"}, "ve", "ver")
}

// Per is the per/pers neopronoun series.
func Per() PronounSeries {
	return NewPronounSeries("Per", []string{"per", "pers", "perself"}, "per", "per")
}

// ZeHir is the ze/hir neopronoun series.
func ZeHir() PronounSeries {
	return NewPronounSeries("Ze", []string{"ze", "hir", "hirs", "hirself"}, "ze", "hir")
}
