package genderlens

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// A Corpus is an ordered collection of documents analyzed together.
// Analysis views key their results by document label, so labels should
// be unique within a corpus; loading from a directory guarantees that.
type Corpus struct {
	name string
	docs []*Document
}

// NewCorpus builds a corpus from already constructed documents.
func NewCorpus(name string, docs ...*Document) *Corpus {
	c := &Corpus{name: name}
	c.docs = append(c.docs, docs...)
	return c
}

// A CorpusOption adjusts corpus loading.
type CorpusOption func(*corpusConfig)

type corpusConfig struct {
	name    string
	csvPath string
	docOpts []DocOption
}

// WithName names the corpus; the default is the directory base name.
func WithName(name string) CorpusOption {
	return func(cfg *corpusConfig) { cfg.name = name }
}

// WithCSVMetadata joins a metadata CSV onto the loaded documents. The
// file needs a header row with a "filename" column; "title", "author",
// "author_gender" and "date" fill the matching Metadata fields and any
// other column lands in Extra. Rows naming files that are not in the
// directory are ignored.
func WithCSVMetadata(path string) CorpusOption {
	return func(cfg *corpusConfig) { cfg.csvPath = path }
}

// WithDocOptions forwards document options to every loaded document,
// for example WithTagging(false) to skip POS tagging across the whole
// corpus.
func WithDocOptions(opts ...DocOption) CorpusOption {
	return func(cfg *corpusConfig) { cfg.docOpts = append(cfg.docOpts, opts...) }
}

// LoadCorpus reads every .txt file in dir, in name order, into a
// corpus. Each document's label is its filename without the extension.
func LoadCorpus(dir string, opts ...CorpusOption) (*Corpus, error) {
	var cfg corpusConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	meta := make(map[string]Metadata)
	if cfg.csvPath != "" {
		loaded, err := readMetadataCSV(cfg.csvPath)
		if err != nil {
			return nil, err
		}
		meta = loaded
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		m := meta[entry.Name()]
		m.Filename = entry.Name()
		docOpts := append([]DocOption{WithMetadata(m)}, cfg.docOpts...)
		doc, err := NewDocument(string(raw), docOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		docs = append(docs, doc)
	}

	name := cfg.name
	if name == "" {
		name = filepath.Base(dir)
	}
	return NewCorpus(name, docs...), nil
}

func readMetadataCSV(path string) (map[string]Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("metadata csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("metadata csv %s: no header row", path)
	}

	header := rows[0]
	fileCol := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), "filename") {
			fileCol = i
		}
	}
	if fileCol < 0 {
		return nil, fmt.Errorf("metadata csv %s: no filename column", path)
	}

	out := make(map[string]Metadata, len(rows)-1)
	for _, row := range rows[1:] {
		var m Metadata
		for i, value := range row {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(header[i])) {
			case "filename":
				m.Filename = value
			case "title":
				m.Title = value
			case "author":
				m.Author = value
			case "author_gender":
				m.AuthorGender = value
			case "date":
				if year, err := strconv.Atoi(value); err == nil {
					m.Date = year
				}
			default:
				if m.Extra == nil {
					m.Extra = make(map[string]string)
				}
				m.Extra[strings.ToLower(strings.TrimSpace(header[i]))] = value
			}
		}
		if m.Filename != "" {
			out[m.Filename] = m
		}
	}
	return out, nil
}

// Name returns the corpus name.
func (c *Corpus) Name() string { return c.name }

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.docs) }

// Documents returns the documents in corpus order.
func (c *Corpus) Documents() []*Document {
	out := make([]*Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Merge combines two corpora into a new one holding the documents of
// both, this corpus's first.
func (c *Corpus) Merge(other *Corpus, name string) *Corpus {
	merged := NewCorpus(name, c.docs...)
	if other != nil {
		merged.docs = append(merged.docs, other.docs...)
	}
	return merged
}

// Subcorpus returns the documents whose metadata field equals value,
// compared case-insensitively. Documents without the field never
// match.
func (c *Corpus) Subcorpus(field, value string) *Corpus {
	sub := NewCorpus(fmt.Sprintf("%s:%s=%s", c.name, field, value))
	for _, doc := range c.docs {
		v, ok := doc.Metadata().Value(field)
		if ok && strings.EqualFold(v, value) {
			sub.docs = append(sub.docs, doc)
		}
	}
	return sub
}

// FieldValues returns the distinct values a metadata field takes
// across the corpus, sorted.
func (c *Corpus) FieldValues(field string) []string {
	seen := make(map[string]bool)
	for _, doc := range c.docs {
		if v, ok := doc.Metadata().Value(field); ok {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// binsByDate groups documents into [start, end) bins of size years,
// keyed by bin start year. Every bin in range is present, possibly
// empty. Documents without a known date, or dated outside the frame,
// are left out.
func (c *Corpus) binsByDate(start, end, size int) (map[int][]*Document, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: bin size %d is not positive", ErrConfiguration, size)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: empty time frame [%d, %d)", ErrConfiguration, start, end)
	}
	bins := make(map[int][]*Document)
	for year := start; year < end; year += size {
		bins[year] = nil
	}
	for _, doc := range c.docs {
		date := doc.Metadata().Date
		if date == 0 || date < start || date >= end {
			continue
		}
		bin := (date-start)/size*size + start
		bins[bin] = append(bins[bin], doc)
	}
	return bins, nil
}

// groupsByField groups documents by the value of one metadata field,
// leaving out documents where the field is unset.
func (c *Corpus) groupsByField(field string) (map[string][]*Document, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: empty metadata field", ErrConfiguration)
	}
	groups := make(map[string][]*Document)
	for _, doc := range c.docs {
		value, ok := doc.Metadata().Value(field)
		if !ok || value == "" {
			continue
		}
		groups[value] = append(groups[value], doc)
	}
	return groups, nil
}

// WordCounts merges every document's word-frequency table.
func (c *Corpus) WordCounts() *FrequencyTable {
	tables := make([]*FrequencyTable, 0, len(c.docs))
	for _, doc := range c.docs {
		tables = append(tables, doc.wordCounts)
	}
	return Merge(tables...)
}

// WordCount returns the total number of words across the corpus.
func (c *Corpus) WordCount() int {
	total := 0
	for _, doc := range c.docs {
		total += doc.WordCount()
	}
	return total
}

// WordsAssociated merges, across the corpus, the words that
// immediately follow any of the target words.
func (c *Corpus) WordsAssociated(targets ...string) *FrequencyTable {
	tables := make([]*FrequencyTable, 0, len(c.docs))
	for _, doc := range c.docs {
		tables = append(tables, doc.WordsAssociated(targets...))
	}
	return Merge(tables...)
}

// WordWindows merges, across the corpus, the words within radius
// positions of each target-word occurrence.
func (c *Corpus) WordWindows(targets []string, radius int) (*FrequencyTable, error) {
	tables := make([]*FrequencyTable, 0, len(c.docs))
	for _, doc := range c.docs {
		t, err := doc.WordWindows(targets, radius)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return Merge(tables...), nil
}
