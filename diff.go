package genderlens

import (
	"fmt"
	"sort"
)

// Difference scores every word in the union of the tables, per table:
// the word's count there minus its counts everywhere else. A word
// absent from a table counts zero, so for exactly two tables the score
// lists are mirror images. The same rule covers any number of tables;
// two is not a special case.
//
// Results are keyed by label and sorted by descending score, ties in
// union order, which follows the tables' first-seen word orders. The
// options' Limit and stop-word settings apply per label.
func Difference(tables []*FrequencyTable, labels []string, opts ViewOptions) (map[string][]WordScore, error) {
	if len(tables) != len(labels) {
		return nil, fmt.Errorf("%w: %d tables for %d labels", ErrConfiguration, len(tables), len(labels))
	}

	var stops map[string]bool
	if opts.RemoveStopWords {
		stops = opts.StopWords
		if stops == nil {
			stops = DefaultStopWords()
		}
	}

	union := Merge(tables...)

	out := make(map[string][]WordScore, len(labels))
	for i, label := range labels {
		own := tables[i]
		scores := make([]WordScore, 0, union.Len())
		for _, word := range union.Words() {
			if stops[word] {
				continue
			}
			score := own.Count(word) - (union.Count(word) - own.Count(word))
			scores = append(scores, WordScore{Word: word, Score: score})
		}
		sort.SliceStable(scores, func(a, b int) bool { return scores[a].Score > scores[b].Score })
		if opts.Limit > 0 && opts.Limit < len(scores) {
			scores = scores[:opts.Limit]
		}
		out[label] = scores
	}
	return out, nil
}
