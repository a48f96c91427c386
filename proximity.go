package genderlens

import (
	"fmt"
	"strings"
	"unicode"
)

// ScanConfig controls a proximity scan.
type ScanConfig struct {
	// Radius is how many tokens to inspect on either side of a match.
	// It must be positive.
	Radius int

	// TagGroups and Tags together form the part-of-speech allow-list
	// for window words. Groups expand to their Penn Treebank tags and
	// Tags adds individual ones. When both are empty, no tag filtering
	// happens.
	TagGroups []TagGroup
	Tags      []string

	// StopWords are never counted as window words.
	StopWords map[string]bool

	// Exclude lists words never counted as window words. When nil,
	// Scan excludes every supplied gender's identifiers, so one
	// gender's pronouns do not surface as another's associations.
	// Supply a non-nil map, even an empty one, to take full control.
	Exclude map[string]bool
}

// DefaultScanConfig returns the usual scan setup: a radius of five
// tokens and adjectives only.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Radius:    5,
		TagGroups: []TagGroup{Adjectives},
	}
}

// allowedTags expands the config's tag groups and extra tags into one
// lookup set. A nil result means no tag filtering.
func (cfg ScanConfig) allowedTags() (map[string]bool, error) {
	if len(cfg.TagGroups) == 0 && len(cfg.Tags) == 0 {
		return nil, nil
	}
	allowed := make(map[string]bool)
	for _, group := range cfg.TagGroups {
		tags, err := group.Tags()
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			allowed[tag] = true
		}
	}
	for _, tag := range cfg.Tags {
		allowed[tag] = true
	}
	return allowed, nil
}

// excludeSet resolves the window-word exclusions for a gender list.
func (cfg ScanConfig) excludeSet(genders []Gender) map[string]bool {
	if cfg.Exclude != nil {
		return cfg.Exclude
	}
	exclude := make(map[string]bool)
	for _, g := range genders {
		for _, id := range g.Identifiers() {
			exclude[id] = true
		}
	}
	return exclude
}

func hasWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Scan walks the token stream once per gender, and at every token
// whose lowercased text is one of the gender's identifiers counts the
// surrounding window words that survive the config's filters. Windows
// span radius tokens on each side, clamped at the stream edges, and
// never include the match position itself. Words count once per
// window they fall in, so overlapping windows count them repeatedly.
//
// The result maps gender label to its association table; a gender
// with no identifiers, or no matches, gets an empty table.
func Scan(tokens []Token, genders []Gender, cfg ScanConfig) (map[string]*FrequencyTable, error) {
	if cfg.Radius <= 0 {
		return nil, fmt.Errorf("%w: window radius %d is not positive", ErrConfiguration, cfg.Radius)
	}
	if len(genders) == 0 {
		return nil, fmt.Errorf("%w: at least one gender is required", ErrConfiguration)
	}
	allowed, err := cfg.allowedTags()
	if err != nil {
		return nil, err
	}
	exclude := cfg.excludeSet(genders)

	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = strings.ToLower(tok.Text)
	}

	results := make(map[string]*FrequencyTable, len(genders))
	for _, g := range genders {
		ids := g.identifierSet()
		table := NewFrequencyTable()
		for i := range tokens {
			if !ids[words[i]] {
				continue
			}
			lo := i - cfg.Radius
			if lo < 0 {
				lo = 0
			}
			hi := i + cfg.Radius
			if hi > len(tokens)-1 {
				hi = len(tokens) - 1
			}
			for j := lo; j <= hi; j++ {
				if j == i {
					continue
				}
				word := words[j]
				if !hasWordChar(word) {
					continue
				}
				if allowed != nil && !allowed[tokens[j].Tag] {
					continue
				}
				if cfg.StopWords[word] || exclude[word] {
					continue
				}
				table.Add(word, 1)
			}
		}
		results[g.Label()] = table
	}
	return results, nil
}

// GenderResults maps gender label to an association table. It is what
// proximity views hand back before any ranking or differencing.
type GenderResults map[string]*FrequencyTable

// ViewOptions adjusts how ranked views present results.
type ViewOptions struct {
	// Limit caps each ranked list; zero or negative means no cap.
	Limit int

	// RemoveStopWords drops stop words before ranking. StopWords
	// overrides which; when nil the English set is used.
	RemoveStopWords bool
	StopWords       map[string]bool
}

// Ranked turns each gender's table into a descending count list, ties
// in first-seen order, applying the view options.
func (r GenderResults) Ranked(opts ViewOptions) map[string][]WordCount {
	var stops map[string]bool
	if opts.RemoveStopWords {
		stops = opts.StopWords
		if stops == nil {
			stops = DefaultStopWords()
		}
	}
	out := make(map[string][]WordCount, len(r))
	for label, table := range r {
		if stops != nil {
			table = table.WithoutWords(stops)
		}
		out[label] = table.MostCommon(opts.Limit)
	}
	return out
}

// merge folds a second result set into this one, in place.
func (r GenderResults) merge(other GenderResults) GenderResults {
	for label, table := range other {
		r[label] = Merge(r[label], table)
	}
	return r
}

func (r GenderResults) clone() GenderResults {
	out := make(GenderResults, len(r))
	for label, table := range r {
		out[label] = table.Clone()
	}
	return out
}

// A ProximityAnalyzer scans every document of a corpus once, at
// construction, and serves the results through grouping views. Views
// return GenderResults tables; rank with GenderResults.Ranked or
// difference with Differenced.
type ProximityAnalyzer struct {
	corpus  *Corpus
	genders []Gender
	labels  []string
	config  ScanConfig

	// per document label: per gender label: association table
	results map[string]GenderResults
}

// NewProximityAnalyzer scans the corpus with the given config. A nil
// or empty gender list falls back to BinaryGroup.
func NewProximityAnalyzer(c *Corpus, genders []Gender, cfg ScanConfig) (*ProximityAnalyzer, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil corpus", ErrConfiguration)
	}
	if len(genders) == 0 {
		genders = BinaryGroup()
	}

	a := &ProximityAnalyzer{
		corpus:  c,
		genders: genders,
		config:  cfg,
		results: make(map[string]GenderResults, c.Len()),
	}
	for _, g := range genders {
		a.labels = append(a.labels, g.Label())
	}

	for _, doc := range c.Documents() {
		scanned, err := Scan(doc.Tokens(), genders, cfg)
		if err != nil {
			return nil, err
		}
		a.results[doc.Label()] = scanned
	}
	return a, nil
}

// Genders returns the genders the analyzer was built with.
func (a *ProximityAnalyzer) Genders() []Gender {
	out := make([]Gender, len(a.genders))
	copy(out, a.genders)
	return out
}

// Config returns the scan config the analyzer ran with.
func (a *ProximityAnalyzer) Config() ScanConfig { return a.config }

func (a *ProximityAnalyzer) emptyResults() GenderResults {
	r := make(GenderResults, len(a.labels))
	for _, label := range a.labels {
		r[label] = NewFrequencyTable()
	}
	return r
}

func (a *ProximityAnalyzer) mergeDocs(docs []*Document) GenderResults {
	merged := a.emptyResults()
	for _, doc := range docs {
		merged = merged.merge(a.results[doc.Label()])
	}
	return merged
}

// ByDocument returns each document's association tables, keyed by
// document label.
func (a *ProximityAnalyzer) ByDocument() map[string]GenderResults {
	out := make(map[string]GenderResults, len(a.results))
	for _, doc := range a.corpus.Documents() {
		out[doc.Label()] = a.results[doc.Label()].clone()
	}
	return out
}

// ByGender merges every document's tables into one result set for the
// whole corpus.
func (a *ProximityAnalyzer) ByGender() GenderResults {
	return a.mergeDocs(a.corpus.Documents())
}

// ByDate merges results within [start, end) bins of binSize years,
// keyed by bin start year. Documents without a known date are
// skipped.
func (a *ProximityAnalyzer) ByDate(start, end, binSize int) (map[int]GenderResults, error) {
	bins, err := a.corpus.binsByDate(start, end, binSize)
	if err != nil {
		return nil, err
	}
	out := make(map[int]GenderResults, len(bins))
	for year, docs := range bins {
		out[year] = a.mergeDocs(docs)
	}
	return out, nil
}

// ByMetadata merges results per value of one metadata field, skipping
// documents where the field is unset.
func (a *ProximityAnalyzer) ByMetadata(field string) (map[string]GenderResults, error) {
	groups, err := a.corpus.groupsByField(field)
	if err != nil {
		return nil, err
	}
	out := make(map[string]GenderResults, len(groups))
	for value, docs := range groups {
		out[value] = a.mergeDocs(docs)
	}
	return out, nil
}

// ByOverlap returns the words every gender's corpus-wide table has a
// nonzero count for, mapped to each gender's count.
func (a *ProximityAnalyzer) ByOverlap() map[string]map[string]int {
	merged := a.ByGender()
	out := make(map[string]map[string]int)
	if len(a.labels) == 0 {
		return out
	}

	first := merged[a.labels[0]]
	for _, word := range first.Words() {
		if first.Count(word) == 0 {
			continue
		}
		shared := true
		for _, label := range a.labels[1:] {
			if merged[label].Count(word) == 0 {
				shared = false
				break
			}
		}
		if !shared {
			continue
		}
		counts := make(map[string]int, len(a.labels))
		for _, label := range a.labels {
			counts[label] = merged[label].Count(word)
		}
		out[word] = counts
	}
	return out
}

// Differenced scores one result set's words by how much more often
// they associate with each gender than with all others, using the
// analyzer's gender order. See Difference for the scoring rule.
func (a *ProximityAnalyzer) Differenced(results GenderResults, opts ViewOptions) (map[string][]WordScore, error) {
	tables := make([]*FrequencyTable, len(a.labels))
	for i, label := range a.labels {
		tables[i] = results[label]
	}
	return Difference(tables, a.labels, opts)
}
