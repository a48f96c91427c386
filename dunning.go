package genderlens

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	prose "github.com/tsawler/prose/v3"
	"gonum.org/v1/gonum/stat/distuv"
)

// DunningScore computes the signed Dunning log-likelihood statistic
// for one word counted c1 times among t1 words in the first corpus and
// c2 times among t2 in the second. The magnitude is the two-sample
// log-likelihood ratio; the sign is positive when the word's rate in
// the first corpus exceeds its rate in the second and negative
// otherwise. Zero-count terms contribute zero, the x·ln(x) limit, so a
// word absent from one side still scores finitely.
func DunningScore(c1, t1, c2, t2 int) (float64, error) {
	if c1 < 0 || c2 < 0 || c1 > t1 || c2 > t2 {
		return 0, fmt.Errorf("%w: counts %d/%d and %d/%d", ErrConfiguration, c1, t1, c2, t2)
	}
	if t1+t2 == 0 {
		return 0, fmt.Errorf("%w: zero tokens on both sides", ErrDegenerateInput)
	}

	e1 := float64(t1) * float64(c1+c2) / float64(t1+t2)
	e2 := float64(t2) * float64(c1+c2) / float64(t1+t2)

	term := func(c int, e float64) float64 {
		if c == 0 {
			return 0
		}
		return float64(c) * math.Log(float64(c)/e)
	}
	magnitude := math.Abs(2 * (term(c1, e1) + term(c2, e2)))
	if magnitude == 0 {
		return 0, nil
	}

	rate1, rate2 := 0.0, 0.0
	if t1 > 0 {
		rate1 = float64(c1) / float64(t1)
	}
	if t2 > 0 {
		rate2 = float64(c2) / float64(t2)
	}
	if rate1 > rate2 {
		return magnitude, nil
	}
	return -magnitude, nil
}

// dunningPValue is the two-sided significance of a score, from the
// chi-squared distribution with one degree of freedom the statistic
// follows under the null hypothesis.
func dunningPValue(score float64) float64 {
	return distuv.ChiSquared{K: 1}.Survival(math.Abs(score))
}

// A DunningEntry is one word's comparison between two corpora.
type DunningEntry struct {
	Word       string  `json:"word"`
	Dunning    float64 `json:"dunning"`
	PValue     float64 `json:"p_value"`
	CountTotal int     `json:"count_total"`
	Count1     int     `json:"count_corp1"`
	Count2     int     `json:"count_corp2"`
	FreqTotal  float64 `json:"freq_total"`
	Freq1      float64 `json:"freq_corp1"`
	Freq2      float64 `json:"freq_corp2"`
}

// A DunningResult holds per-word comparison entries in the order the
// words were first seen across both input tables.
type DunningResult struct {
	name1, name2 string
	words        []string
	entries      map[string]DunningEntry
}

// DunningOptions adjusts DunningTotal and the comparison helpers.
type DunningOptions struct {
	// MinTotal excludes words whose combined count across both tables
	// is below it. Zero keeps every shared word.
	MinTotal int

	// Name1 and Name2 label the corpora in rendered tables. They
	// default to "corpus1" and "corpus2", or to whatever the
	// comparison helper derives from its inputs.
	Name1 string
	Name2 string
}

// DunningTotal scores every word in the union of the two tables,
// treating a word absent from one side as count zero there. Each
// table's total is the sum of its counts. Words with zero occurrences
// on both sides are excluded; if both totals are zero there is nothing
// to compare and the call fails.
func DunningTotal(counts1, counts2 *FrequencyTable, opts DunningOptions) (*DunningResult, error) {
	t1 := counts1.Sum()
	t2 := counts2.Sum()
	if t1+t2 == 0 {
		return nil, fmt.Errorf("%w: zero tokens on both sides", ErrDegenerateInput)
	}

	result := &DunningResult{
		name1:   opts.Name1,
		name2:   opts.Name2,
		entries: make(map[string]DunningEntry),
	}
	if result.name1 == "" {
		result.name1 = "corpus1"
	}
	if result.name2 == "" {
		result.name2 = "corpus2"
	}

	for _, word := range Merge(counts1, counts2).Words() {
		c1 := counts1.Count(word)
		c2 := counts2.Count(word)
		if c1+c2 == 0 || c1+c2 < opts.MinTotal {
			continue
		}
		score, err := DunningScore(c1, t1, c2, t2)
		if err != nil {
			return nil, err
		}

		entry := DunningEntry{
			Word:       word,
			Dunning:    score,
			PValue:     dunningPValue(score),
			CountTotal: c1 + c2,
			Count1:     c1,
			Count2:     c2,
			FreqTotal:  float64(c1+c2) / float64(t1+t2),
		}
		if t1 > 0 {
			entry.Freq1 = float64(c1) / float64(t1)
		}
		if t2 > 0 {
			entry.Freq2 = float64(c2) / float64(t2)
		}
		result.words = append(result.words, word)
		result.entries[word] = entry
	}
	return result, nil
}

// Names returns the display names of the two compared corpora.
func (r *DunningResult) Names() (string, string) { return r.name1, r.name2 }

// Len returns the number of scored words.
func (r *DunningResult) Len() int { return len(r.words) }

// Words returns the scored words in first-seen order.
func (r *DunningResult) Words() []string {
	out := make([]string, len(r.words))
	copy(out, r.words)
	return out
}

// Entry returns one word's entry; the second return is false when the
// word was not scored.
func (r *DunningResult) Entry(word string) (DunningEntry, bool) {
	e, ok := r.entries[word]
	return e, ok
}

// Entries returns all entries in first-seen order.
func (r *DunningResult) Entries() []DunningEntry {
	out := make([]DunningEntry, 0, len(r.words))
	for _, word := range r.words {
		out = append(out, r.entries[word])
	}
	return out
}

// SortedByScore returns the entries in ascending score order, so the
// words most distinctive of the second corpus come first and those of
// the first corpus come last. Ties keep first-seen order.
func (r *DunningResult) SortedByScore() []DunningEntry {
	out := r.Entries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Dunning < out[j].Dunning })
	return out
}

// MostDistinctive returns up to n entries from each end of the score
// spectrum: first the words over-represented in the first corpus, in
// descending score order, then those of the second corpus, ascending.
// n <= 0 returns everything on both sides.
func (r *DunningResult) MostDistinctive(n int) (first, second []DunningEntry) {
	asc := r.SortedByScore()
	desc := make([]DunningEntry, len(asc))
	for i, e := range asc {
		desc[len(asc)-1-i] = e
	}
	if n <= 0 || n > len(asc) {
		n = len(asc)
	}
	return desc[:n], asc[:n]
}

// TagOf returns the Penn Treebank tag the tagger assigns a word in
// isolation.
func TagOf(word string) (string, error) {
	doc, err := prose.NewDocument(word,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return "", err
	}
	tokens := doc.Tokens()
	if len(tokens) == 0 {
		return "", nil
	}
	return tokens[0].Tag, nil
}

// FilterByTag keeps only the entries whose word, tagged in isolation,
// falls in the given part-of-speech group. Entry order is preserved.
func (r *DunningResult) FilterByTag(group TagGroup) (*DunningResult, error) {
	tags, err := group.Tags()
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(tags))
	for _, tag := range tags {
		allowed[tag] = true
	}

	out := &DunningResult{
		name1:   r.name1,
		name2:   r.name2,
		entries: make(map[string]DunningEntry),
	}
	for _, word := range r.words {
		tag, err := TagOf(word)
		if err != nil {
			return nil, err
		}
		if !allowed[tag] {
			continue
		}
		out.words = append(out.words, word)
		out.entries[word] = r.entries[word]
	}
	return out, nil
}

// associationCounts builds one corpus's table of words co-occurring
// with the targets. A positive radius scans token windows; radius zero
// counts the word immediately following each target.
func associationCounts(c *Corpus, targets []string, radius int) (*FrequencyTable, error) {
	if radius == 0 {
		return c.WordsAssociated(targets...), nil
	}
	target := NewGender("target").WithNames(targets...)
	tables := make([]*FrequencyTable, 0, c.Len())
	for _, doc := range c.Documents() {
		scanned, err := Scan(doc.Tokens(), []Gender{target}, ScanConfig{Radius: radius})
		if err != nil {
			return nil, err
		}
		tables = append(tables, scanned[target.Label()])
	}
	return Merge(tables...), nil
}

// CompareWordAssociation compares the words that co-occur with the
// targets in one corpus against those in another, scoring each with
// the Dunning statistic. A positive radius counts words within that
// many tokens of each target occurrence; radius zero counts only the
// immediately following word.
func CompareWordAssociation(c1, c2 *Corpus, targets []string, radius int, opts DunningOptions) (*DunningResult, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: window radius %d is negative", ErrConfiguration, radius)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one target word is required", ErrConfiguration)
	}

	counts1, err := associationCounts(c1, targets, radius)
	if err != nil {
		return nil, err
	}
	counts2, err := associationCounts(c2, targets, radius)
	if err != nil {
		return nil, err
	}

	if opts.Name1 == "" {
		opts.Name1 = c1.Name()
	}
	if opts.Name2 == "" {
		opts.Name2 = c2.Name()
	}
	return DunningTotal(counts1, counts2, opts)
}

// CompareWordPair compares, within one corpus, the words co-occurring
// with word1 against those co-occurring with word2.
func CompareWordPair(c *Corpus, word1, word2 string, radius int, opts DunningOptions) (*DunningResult, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: window radius %d is negative", ErrConfiguration, radius)
	}
	counts1, err := associationCounts(c, []string{word1}, radius)
	if err != nil {
		return nil, err
	}
	counts2, err := associationCounts(c, []string{word2}, radius)
	if err != nil {
		return nil, err
	}
	if opts.Name1 == "" {
		opts.Name1 = word1
	}
	if opts.Name2 == "" {
		opts.Name2 = word2
	}
	return DunningTotal(counts1, counts2, opts)
}

// CompareByMetadata splits a corpus on one metadata field and scores
// the full word counts of the two slices against each other, for
// example author_gender "female" vs "male".
func CompareByMetadata(c *Corpus, field, value1, value2 string, opts DunningOptions) (*DunningResult, error) {
	sub1 := c.Subcorpus(field, value1)
	sub2 := c.Subcorpus(field, value2)
	if opts.Name1 == "" {
		opts.Name1 = value1
	}
	if opts.Name2 == "" {
		opts.Name2 = value2
	}
	return DunningTotal(sub1.WordCounts(), sub2.WordCounts(), opts)
}

// WriteDunningTable renders the n most distinctive words of each
// corpus as two aligned text tables.
func WriteDunningTable(w io.Writer, r *DunningResult, n int) error {
	first, second := r.MostDistinctive(n)
	name1, name2 := r.Names()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	sections := []struct {
		name    string
		entries []DunningEntry
	}{
		{name1, first},
		{name2, second},
	}
	for _, section := range sections {
		fmt.Fprintf(tw, "Dunning log-likelihood results for %s\n", section.name)
		fmt.Fprintf(tw, "term\tdunning\tcount total\tcount %s\tcount %s\tfreq total\tfreq %s\tfreq %s\n",
			name1, name2, name1, name2)
		for _, e := range section.entries {
			fmt.Fprintf(tw, "%s\t%.2f\t%d\t%d\t%d\t%.4f%%\t%.4f%%\t%.4f%%\n",
				e.Word, e.Dunning, e.CountTotal, e.Count1, e.Count2,
				e.FreqTotal*100, e.Freq1*100, e.Freq2*100)
		}
		fmt.Fprint(tw, strings.Repeat("-", 40)+"\n")
	}
	return tw.Flush()
}
