package genderlens

import (
	"fmt"
	"sort"
)

// A Token is one unit of a document's text stream: a surface form and,
// when the stream has been part-of-speech tagged, its Penn Treebank
// tag. Tokens arrive in reading order and are never reordered.
type Token struct {
	Text string // surface form, case preserved
	Tag  string // Penn Treebank POS tag; empty when untagged
}

// A WordCount pairs a word with how many times it was counted.
type WordCount struct {
	Word  string
	Count int
}

// A WordScore pairs a word with a signed association score. Positive
// scores mean the word leans toward the gender being reported on.
type WordScore struct {
	Word  string
	Score int
}

// A TagGroup names a family of Penn Treebank tags that can be used as
// a part-of-speech filter without spelling out individual tags.
type TagGroup string

const (
	Adjectives TagGroup = "adjectives" // JJ, JJR, JJS
	Adverbs    TagGroup = "adverbs"    // RB, RBR, RBS, WRB
	Nouns      TagGroup = "nouns"      // NN, NNS, NNP, NNPS
	Pronouns   TagGroup = "pronouns"   // PRP, PRP$, WP, WP$
	Verbs      TagGroup = "verbs"      // VB, VBD, VBG, VBN, VBP, VBZ
)

var tagGroups = map[TagGroup][]string{
	Adjectives: {"JJ", "JJR", "JJS"},
	Adverbs:    {"RB", "RBR", "RBS", "WRB"},
	Nouns:      {"NN", "NNS", "NNP", "NNPS"},
	Pronouns:   {"PRP", "PRP$", "WP", "WP$"},
	Verbs:      {"VB", "VBD", "VBG", "VBN", "VBP", "VBZ"},
}

// Tags returns the Penn Treebank tags the group stands for.
func (g TagGroup) Tags() ([]string, error) {
	tags, ok := tagGroups[g]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tag group %q", ErrConfiguration, string(g))
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out, nil
}

// TagGroups lists the known group names in alphabetical order.
func TagGroups() []TagGroup {
	groups := make([]TagGroup, 0, len(tagGroups))
	for g := range tagGroups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}

// ResolveTags expands a set of group names into the union of their
// tags, deduplicated, preserving group order then tag order. An
// unknown group is a configuration error.
func ResolveTags(groups ...TagGroup) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, g := range groups {
		tags, err := g.Tags()
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out, nil
}
