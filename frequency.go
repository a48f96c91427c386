package genderlens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// A FrequencyTable maps lowercased words to nonnegative counts while
// remembering the order words were first added. The order is what
// makes "most common" views deterministic: ties break by stable
// first-seen position, never by map iteration.
//
// Tables returned by this package are snapshots; callers must not rely
// on mutating them to affect the producer.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Add increases word's count by n, registering the word on first
// sight. Adding zero still registers the word, which is how views seed
// explicit zero counts for identifiers that never occur.
func (t *FrequencyTable) Add(word string, n int) {
	if _, ok := t.counts[word]; !ok {
		t.order = append(t.order, word)
	}
	t.counts[word] += n
}

// Count returns word's count; a word never added counts zero.
func (t *FrequencyTable) Count(word string) int {
	if t == nil {
		return 0
	}
	return t.counts[word]
}

// Has reports whether word was ever registered, even at count zero.
func (t *FrequencyTable) Has(word string) bool {
	if t == nil {
		return false
	}
	_, ok := t.counts[word]
	return ok
}

// Len returns the number of registered words.
func (t *FrequencyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Sum returns the total of all counts.
func (t *FrequencyTable) Sum() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Words returns the registered words in first-seen order.
func (t *FrequencyTable) Words() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// MostCommon returns up to n entries in descending count order, ties
// broken by first-seen order. n <= 0 returns all entries.
func (t *FrequencyTable) MostCommon(n int) []WordCount {
	if t == nil {
		return nil
	}
	out := make([]WordCount, 0, len(t.order))
	for _, word := range t.order {
		out = append(out, WordCount{Word: word, Count: t.counts[word]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// WithoutWords returns a copy of the table with the given words
// dropped. Used for stopword removal in ranked views.
func (t *FrequencyTable) WithoutWords(words map[string]bool) *FrequencyTable {
	out := NewFrequencyTable()
	if t == nil {
		return out
	}
	for _, word := range t.order {
		if !words[word] {
			out.Add(word, t.counts[word])
		}
	}
	return out
}

// Clone returns an independent copy.
func (t *FrequencyTable) Clone() *FrequencyTable {
	out := NewFrequencyTable()
	if t == nil {
		return out
	}
	for _, word := range t.order {
		out.Add(word, t.counts[word])
	}
	return out
}

// Equal compares two tables count-wise over the union of their words:
// a word absent from one side counts zero there. Registration order
// and explicit zeros do not affect equality.
func (t *FrequencyTable) Equal(other *FrequencyTable) bool {
	for _, word := range t.Words() {
		if t.Count(word) != other.Count(word) {
			return false
		}
	}
	for _, word := range other.Words() {
		if t.Count(word) != other.Count(word) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the table as a JSON object in first-seen order.
func (t *FrequencyTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, word := range t.Words() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", t.Count(word))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the table for debugging, in first-seen order.
func (t *FrequencyTable) String() string {
	parts := make([]string, 0, t.Len())
	for _, word := range t.Words() {
		parts = append(parts, fmt.Sprintf("%s:%d", word, t.Count(word)))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Merge sums tables pointwise into a fresh table. A word absent from
// one table contributes zero. Counts are independent of argument
// order, so the operation is commutative and associative under Equal;
// only the resulting word order follows the arguments.
func Merge(tables ...*FrequencyTable) *FrequencyTable {
	out := NewFrequencyTable()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, word := range t.Words() {
			out.Add(word, t.Count(word))
		}
	}
	return out
}

// FormatBy selects how frequency views report values.
type FormatBy string

const (
	FormatCount     FormatBy = "count"     // raw occurrence counts
	FormatFrequency FormatBy = "frequency" // counts over the grouping's total word count
	FormatRelative  FormatBy = "relative"  // counts over all genders' identifier occurrences
)

// GroupBy selects how frequency views aggregate a gender's counts.
type GroupBy string

const (
	GroupIdentifier GroupBy = "identifier" // one value per identifier
	GroupRole       GroupBy = "role"       // subject / object / other buckets
	GroupAggregate  GroupBy = "aggregate"  // one value per gender
)

// Role restricts pronoun counting to a grammatical role.
type Role string

const (
	RoleAny     Role = ""
	RoleSubject Role = "subject"
	RoleObject  Role = "object"
)

// RoleShares splits a gender's identifier share by grammatical role.
// Other collects names and forms that are neither the subject nor the
// object pronoun, such as possessives and reflexives. The three values
// sum to the gender's aggregate share.
type RoleShares struct {
	Subject float64 `json:"subject"`
	Object  float64 `json:"object"`
	Other   float64 `json:"other"`
}

type freqConfig struct {
	format FormatBy
	role   Role
}

// A FreqOption adjusts pronoun-frequency computation.
type FreqOption func(*freqConfig)

// FreqFormat selects absolute counts (FormatCount, the default) or
// shares of all genders' occurrences (FormatRelative).
func FreqFormat(f FormatBy) FreqOption {
	return func(cfg *freqConfig) { cfg.format = f }
}

// FreqRole restricts counting to subject or object pronoun forms.
func FreqRole(r Role) FreqOption {
	return func(cfg *freqConfig) { cfg.role = r }
}

func (cfg *freqConfig) validate(genders []Gender) error {
	if len(genders) == 0 {
		return fmt.Errorf("%w: at least one gender is required", ErrConfiguration)
	}
	switch cfg.format {
	case FormatCount, FormatRelative:
	case FormatFrequency:
		return fmt.Errorf("%w: format %q needs document word counts; use a FrequencyAnalyzer", ErrConfiguration, cfg.format)
	default:
		return fmt.Errorf("%w: unknown format %q", ErrConfiguration, string(cfg.format))
	}
	switch cfg.role {
	case RoleAny, RoleSubject, RoleObject:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrConfiguration, string(cfg.role))
	}
	return nil
}

// matchSet returns the lookup set a role restriction leaves in play.
func matchSet(g Gender, role Role) map[string]bool {
	switch role {
	case RoleSubject:
		set := make(map[string]bool)
		for _, form := range g.Subjects() {
			set[form] = true
		}
		return set
	case RoleObject:
		set := make(map[string]bool)
		for _, form := range g.Objects() {
			set[form] = true
		}
		return set
	default:
		return g.identifierSet()
	}
}

// PronounFrequency counts each gender's identifier occurrences in the
// token stream, keyed by gender label. With FormatRelative each count
// is divided by the total across all supplied genders; when that total
// is zero every share is zero rather than an error.
func PronounFrequency(tokens []Token, genders []Gender, opts ...FreqOption) (map[string]float64, error) {
	cfg := freqConfig{format: FormatCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(genders); err != nil {
		return nil, err
	}

	counts := make(map[string]float64, len(genders))
	total := 0.0
	for _, g := range genders {
		set := matchSet(g, cfg.role)
		n := 0
		for _, tok := range tokens {
			if set[strings.ToLower(tok.Text)] {
				n++
			}
		}
		counts[g.Label()] = float64(n)
		total += float64(n)
	}

	if cfg.format == FormatRelative {
		for label, n := range counts {
			if total == 0 {
				counts[label] = 0
			} else {
				counts[label] = n / total
			}
		}
	}
	return counts, nil
}

// PronounFrequencyByRole splits each gender's identifier occurrences
// into subject / object / other buckets. A form that is both a subject
// and an object pronoun (as in the It series) lands in the subject
// bucket. FormatRelative divides every bucket by the total across all
// genders, so the buckets sum to the gender's aggregate share.
func PronounFrequencyByRole(tokens []Token, genders []Gender, opts ...FreqOption) (map[string]RoleShares, error) {
	cfg := freqConfig{format: FormatCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(genders); err != nil {
		return nil, err
	}

	type buckets struct{ subj, obj, other float64 }
	raw := make(map[string]buckets, len(genders))
	total := 0.0

	for _, g := range genders {
		ids := g.identifierSet()
		subj := matchSet(g, RoleSubject)
		obj := matchSet(g, RoleObject)
		var b buckets
		for _, tok := range tokens {
			word := strings.ToLower(tok.Text)
			if !ids[word] {
				continue
			}
			switch {
			case subj[word]:
				b.subj++
			case obj[word]:
				b.obj++
			default:
				b.other++
			}
			total++
		}
		raw[g.Label()] = b
	}

	out := make(map[string]RoleShares, len(raw))
	for label, b := range raw {
		if cfg.format == FormatRelative {
			if total == 0 {
				out[label] = RoleShares{}
				continue
			}
			out[label] = RoleShares{Subject: b.subj / total, Object: b.obj / total, Other: b.other / total}
			continue
		}
		out[label] = RoleShares{Subject: b.subj, Object: b.obj, Other: b.other}
	}
	return out, nil
}

// A GenderTally is one gender's formatted result within a frequency
// view. The Group field says which of the remaining fields carries the
// value.
type GenderTally struct {
	Group       GroupBy            `json:"group"`
	Identifiers map[string]float64 `json:"identifiers,omitempty"`
	Roles       RoleShares         `json:"roles"`
	Total       float64            `json:"total"`
}

// A FrequencyAnalyzer precomputes per-document identifier counts for a
// corpus and serves them through grouping views. Counting happens once
// at construction; views only reshape.
type FrequencyAnalyzer struct {
	corpus  *Corpus
	genders []Gender
	labels  []string

	// per document label: per gender label: identifier counts,
	// pre-seeded with zero for every identifier
	counts map[string]map[string]*FrequencyTable
}

// NewFrequencyAnalyzer counts every gender's identifiers in every
// document of the corpus. A nil or empty gender list falls back to
// BinaryGroup.
func NewFrequencyAnalyzer(c *Corpus, genders []Gender) (*FrequencyAnalyzer, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil corpus", ErrConfiguration)
	}
	if len(genders) == 0 {
		genders = BinaryGroup()
	}

	a := &FrequencyAnalyzer{
		corpus:  c,
		genders: genders,
		counts:  make(map[string]map[string]*FrequencyTable),
	}
	for _, g := range genders {
		a.labels = append(a.labels, g.Label())
	}

	for _, doc := range c.Documents() {
		perGender := make(map[string]*FrequencyTable, len(genders))
		for _, g := range genders {
			perGender[g.Label()] = doc.CountsOf(g.Identifiers()...)
		}
		a.counts[doc.Label()] = perGender
	}
	return a, nil
}

// Genders returns the genders the analyzer was built with.
func (a *FrequencyAnalyzer) Genders() []Gender {
	out := make([]Gender, len(a.genders))
	copy(out, a.genders)
	return out
}

func validateView(format FormatBy, group GroupBy) error {
	switch format {
	case "", FormatCount, FormatFrequency, FormatRelative:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrConfiguration, string(format))
	}
	switch group {
	case "", GroupIdentifier, GroupRole, GroupAggregate:
	default:
		return fmt.Errorf("%w: unknown group %q", ErrConfiguration, string(group))
	}
	return nil
}

// formatTallies applies format and group options to one grouping's
// per-gender identifier counts. totalWords is the grouping's word
// count, used by FormatFrequency; a zero denominator yields zeros.
func (a *FrequencyAnalyzer) formatTallies(perGender map[string]*FrequencyTable, format FormatBy, group GroupBy, totalWords int) map[string]GenderTally {
	if format == "" {
		format = FormatCount
	}
	if group == "" {
		group = GroupIdentifier
	}

	grandTotal := 0
	for _, label := range a.labels {
		grandTotal += perGender[label].Sum()
	}

	value := func(count int) float64 {
		switch format {
		case FormatFrequency:
			if totalWords == 0 {
				return 0
			}
			return float64(count) / float64(totalWords)
		case FormatRelative:
			if grandTotal == 0 {
				return 0
			}
			return float64(count) / float64(grandTotal)
		default:
			return float64(count)
		}
	}

	out := make(map[string]GenderTally, len(a.genders))
	for _, g := range a.genders {
		table := perGender[g.Label()]
		tally := GenderTally{Group: group}
		switch group {
		case GroupRole:
			subj := matchSet(g, RoleSubject)
			obj := matchSet(g, RoleObject)
			var roles RoleShares
			for _, id := range table.Words() {
				v := value(table.Count(id))
				switch {
				case subj[id]:
					roles.Subject += v
				case obj[id]:
					roles.Object += v
				default:
					roles.Other += v
				}
			}
			tally.Roles = roles
			tally.Total = roles.Subject + roles.Object + roles.Other
		case GroupAggregate:
			for _, id := range table.Words() {
				tally.Total += value(table.Count(id))
			}
		default:
			tally.Identifiers = make(map[string]float64, table.Len())
			for _, id := range table.Words() {
				v := value(table.Count(id))
				tally.Identifiers[id] = v
				tally.Total += v
			}
		}
		out[g.Label()] = tally
	}
	return out
}

// ByDocument returns formatted tallies keyed by document label.
func (a *FrequencyAnalyzer) ByDocument(format FormatBy, group GroupBy) (map[string]map[string]GenderTally, error) {
	if err := validateView(format, group); err != nil {
		return nil, err
	}
	out := make(map[string]map[string]GenderTally, a.corpus.Len())
	for _, doc := range a.corpus.Documents() {
		out[doc.Label()] = a.formatTallies(a.counts[doc.Label()], format, group, doc.WordCount())
	}
	return out, nil
}

// ByGender merges counts across the whole corpus and returns one tally
// per gender label.
func (a *FrequencyAnalyzer) ByGender(format FormatBy, group GroupBy) (map[string]GenderTally, error) {
	if err := validateView(format, group); err != nil {
		return nil, err
	}
	merged, totalWords := a.mergeDocs(a.corpus.Documents())
	return a.formatTallies(merged, format, group, totalWords), nil
}

// ByIdentifier merges counts across the corpus and across genders,
// returning one value per identifier. Identifiers shared between
// genders accumulate from each.
func (a *FrequencyAnalyzer) ByIdentifier(format FormatBy) (map[string]float64, error) {
	perGender, err := a.ByGender(format, GroupIdentifier)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, label := range a.labels {
		for id, v := range perGender[label].Identifiers {
			out[id] += v
		}
	}
	return out, nil
}

// mergeDocs merges the precomputed per-gender counts of a set of
// documents, returning the merged tables and the combined word count.
func (a *FrequencyAnalyzer) mergeDocs(docs []*Document) (map[string]*FrequencyTable, int) {
	merged := make(map[string]*FrequencyTable, len(a.labels))
	for _, label := range a.labels {
		merged[label] = NewFrequencyTable()
	}
	words := 0
	for _, doc := range docs {
		words += doc.WordCount()
		for _, label := range a.labels {
			merged[label] = Merge(merged[label], a.counts[doc.Label()][label])
		}
	}
	return merged, words
}

// ByDate groups documents into [start, end) bins of binSize years
// keyed by bin start year, merging counts within each bin. Documents
// without a known date are skipped.
func (a *FrequencyAnalyzer) ByDate(start, end, binSize int, format FormatBy, group GroupBy) (map[int]map[string]GenderTally, error) {
	if err := validateView(format, group); err != nil {
		return nil, err
	}
	bins, err := a.corpus.binsByDate(start, end, binSize)
	if err != nil {
		return nil, err
	}
	out := make(map[int]map[string]GenderTally, len(bins))
	for year, docs := range bins {
		merged, words := a.mergeDocs(docs)
		out[year] = a.formatTallies(merged, format, group, words)
	}
	return out, nil
}

// ByMetadata groups documents by the value of one metadata field,
// skipping documents where the field is unset.
func (a *FrequencyAnalyzer) ByMetadata(field string, format FormatBy, group GroupBy) (map[string]map[string]GenderTally, error) {
	if err := validateView(format, group); err != nil {
		return nil, err
	}
	groups, err := a.corpus.groupsByField(field)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]GenderTally, len(groups))
	for value, docs := range groups {
		merged, words := a.mergeDocs(docs)
		out[value] = a.formatTallies(merged, format, group, words)
	}
	return out, nil
}
