package genderlens

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	prose "github.com/tsawler/prose/v3"
)

// Metadata carries the catalog record attached to a document. The
// named fields mirror the columns a corpus metadata CSV usually has;
// anything else lands in Extra.
type Metadata struct {
	Filename     string            // source file name, if loaded from disk
	Title        string            // work title
	Author       string            // author name
	AuthorGender string            // author gender label, free-form
	Date         int               // publication year; 0 means unknown
	Extra        map[string]string // any further fields, keyed by column name
}

// Value looks up a metadata field by name, case-insensitively. The
// named struct fields answer to "filename", "title", "author",
// "author_gender" and "date"; any other name is tried against Extra,
// whose keys are lowercase. The second return is false when the field
// is unset or unknown.
func (m Metadata) Value(field string) (string, bool) {
	switch strings.ToLower(field) {
	case "filename":
		return m.Filename, m.Filename != ""
	case "title":
		return m.Title, m.Title != ""
	case "author":
		return m.Author, m.Author != ""
	case "author_gender":
		return m.AuthorGender, m.AuthorGender != ""
	case "date":
		if m.Date == 0 {
			return "", false
		}
		return fmt.Sprintf("%d", m.Date), true
	}
	v, ok := m.Extra[strings.ToLower(field)]
	return v, ok && v != ""
}

// A DocOption represents a setting that changes the document creation
// process.
//
// For example, it might disable part-of-speech tagging:
//
//	doc := genderlens.NewDocument("...", genderlens.WithTagging(false))
type DocOption func(doc *Document, opts *DocOptions)

// DocOptions controls the Document creation process:
type DocOptions struct {
	Tag      bool           // If true, include POS tagging
	Language prose.Language // Language passed to the tokenizer
	Timeout  time.Duration  // Processing timeout; zero keeps the tokenizer default
	Tokens   []Token        // Pre-tagged tokens; skips tokenization entirely
}

// WithLabel sets the document's label, the key analysis views use for
// it. Without one the label falls back to the metadata filename stem,
// then to the title.
func WithLabel(label string) DocOption {
	return func(doc *Document, opts *DocOptions) {
		doc.label = label
	}
}

// WithMetadata attaches a catalog record to the document.
func WithMetadata(m Metadata) DocOption {
	return func(doc *Document, opts *DocOptions) {
		doc.metadata = m
	}
}

// WithTagging can enable (the default) or disable POS tagging. Untagged
// documents still tokenize; their tokens carry empty tags, so tag-
// filtered proximity scans will match nothing.
func WithTagging(include bool) DocOption {
	return func(doc *Document, opts *DocOptions) {
		opts.Tag = include
	}
}

// WithDocLanguage sets the language handed to the tokenizer.
func WithDocLanguage(lang prose.Language) DocOption {
	return func(doc *Document, opts *DocOptions) {
		opts.Language = lang
	}
}

// WithTimeout bounds tokenization and tagging time.
func WithTimeout(timeout time.Duration) DocOption {
	return func(doc *Document, opts *DocOptions) {
		opts.Timeout = timeout
	}
}

// WithTokens supplies an already tagged token stream, bypassing the
// tokenizer. Useful for tests and for text tagged elsewhere.
func WithTokens(tokens []Token) DocOption {
	return func(doc *Document, opts *DocOptions) {
		opts.Tokens = tokens
	}
}

// A Document represents one analyzed text. It is immutable once built;
// all derived views are computed at construction, so a Document is safe
// for concurrent reads.
type Document struct {
	label    string
	metadata Metadata
	text     string

	tokens     []Token
	words      []string
	wordCounts *FrequencyTable
}

var defaultDocOptions = DocOptions{
	Tag:      true,
	Language: prose.English,
}

// NewDocument tokenizes and tags text according to the user-specified
// options.
//
// For example,
//
//	doc, err := genderlens.NewDocument("She was very cold and tired.")
func NewDocument(text string, opts ...DocOption) (*Document, error) {
	doc := Document{text: text}

	base := defaultDocOptions
	for _, applyOpt := range opts {
		applyOpt(&doc, &base)
	}

	switch {
	case base.Tokens != nil:
		doc.tokens = make([]Token, len(base.Tokens))
		copy(doc.tokens, base.Tokens)
	case strings.TrimSpace(text) != "":
		proseOpts := []prose.DocOpt{
			prose.WithExtraction(false),
			prose.WithSegmentation(false),
			prose.WithTagging(base.Tag),
			prose.WithLanguage(base.Language),
		}
		if base.Timeout > 0 {
			proseOpts = append(proseOpts, prose.WithTimeout(base.Timeout))
		}
		parsed, err := prose.NewDocument(text, proseOpts...)
		if err != nil {
			return nil, err
		}
		for _, tok := range parsed.Tokens() {
			doc.tokens = append(doc.tokens, Token{Text: tok.Text, Tag: tok.Tag})
		}
	}

	doc.words = splitWords(doc.text, doc.tokens)
	doc.wordCounts = NewFrequencyTable()
	for _, word := range doc.words {
		doc.wordCounts.Add(word, 1)
	}

	if doc.label == "" {
		switch {
		case doc.metadata.Filename != "":
			name := filepath.Base(doc.metadata.Filename)
			doc.label = strings.TrimSuffix(name, filepath.Ext(name))
		case doc.metadata.Title != "":
			doc.label = doc.metadata.Title
		}
	}
	return &doc, nil
}

// splitWords lowercases the text, strips ASCII punctuation from each
// whitespace-separated chunk and drops chunks that were nothing but
// punctuation. When there is no raw text the token stream stands in.
func splitWords(text string, tokens []Token) []string {
	var chunks []string
	if text != "" {
		chunks = strings.Fields(text)
	} else {
		for _, tok := range tokens {
			chunks = append(chunks, tok.Text)
		}
	}

	words := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		word := strings.Map(cleanRune, chunk)
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

func cleanRune(r rune) rune {
	if r < 128 && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
		return -1
	}
	return unicode.ToLower(r)
}

// Label returns the document's label.
func (doc *Document) Label() string { return doc.label }

// Metadata returns the document's catalog record.
func (doc *Document) Metadata() Metadata { return doc.metadata }

// Text returns the raw text the document was built from.
func (doc *Document) Text() string { return doc.text }

// Tokens returns the document's tagged tokens.
func (doc *Document) Tokens() []Token {
	tokens := make([]Token, len(doc.tokens))
	copy(tokens, doc.tokens)
	return tokens
}

// Words returns the document's lowercased, punctuation-stripped words
// in text order.
func (doc *Document) Words() []string {
	words := make([]string, len(doc.words))
	copy(words, doc.words)
	return words
}

// WordCount returns the number of words in the document.
func (doc *Document) WordCount() int { return len(doc.words) }

// CountOf returns how often a word occurs, matched case-insensitively.
func (doc *Document) CountOf(word string) int {
	return doc.wordCounts.Count(strings.ToLower(word))
}

// CountsOf returns a table holding the counts of just the given
// words, in argument order, with explicit zeros for words that never
// occur.
func (doc *Document) CountsOf(words ...string) *FrequencyTable {
	table := NewFrequencyTable()
	for _, word := range words {
		table.Add(strings.ToLower(word), 0)
	}
	for _, word := range doc.words {
		if table.Has(word) {
			table.Add(word, 1)
		}
	}
	return table
}

// WordCounts returns the document's full word-frequency table.
func (doc *Document) WordCounts() *FrequencyTable {
	return doc.wordCounts.Clone()
}

// WordFrequency returns a word's share of the document's words, zero
// for an empty document.
func (doc *Document) WordFrequency(word string) float64 {
	if len(doc.words) == 0 {
		return 0
	}
	return float64(doc.CountOf(word)) / float64(len(doc.words))
}

// WordsAssociated counts the words that immediately follow any of the
// given target words, matched case-insensitively. A target at the very
// end of the document has no follower and contributes nothing.
func (doc *Document) WordsAssociated(targets ...string) *FrequencyTable {
	set := make(map[string]bool, len(targets))
	for _, t := range targets {
		set[strings.ToLower(t)] = true
	}
	table := NewFrequencyTable()
	for i, word := range doc.words {
		if set[word] && i+1 < len(doc.words) {
			table.Add(doc.words[i+1], 1)
		}
	}
	return table
}

// InstanceDistances returns the distance in words between each pair
// of consecutive occurrences of any of the given words, matched
// case-insensitively. Adjacent occurrences are distance one apart; a
// document with fewer than two occurrences yields nothing.
func (doc *Document) InstanceDistances(words ...string) []int {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}

	var out []int
	started := false
	count := 0
	for _, word := range doc.words {
		if !started {
			started = set[word]
			continue
		}
		count++
		if set[word] {
			out = append(out, count)
			count = 0
		}
	}
	return out
}

// WordWindows counts the words within radius positions of each
// occurrence of any target word. Windows are clamped at the document
// edges, and target words never count, not even when one falls inside
// another's window.
func (doc *Document) WordWindows(targets []string, radius int) (*FrequencyTable, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: window radius %d is not positive", ErrConfiguration, radius)
	}
	set := make(map[string]bool, len(targets))
	for _, t := range targets {
		set[strings.ToLower(t)] = true
	}

	table := NewFrequencyTable()
	for i, word := range doc.words {
		if !set[word] {
			continue
		}
		lo := i - radius
		if lo < 0 {
			lo = 0
		}
		hi := i + radius
		if hi > len(doc.words)-1 {
			hi = len(doc.words) - 1
		}
		for j := lo; j <= hi; j++ {
			if set[doc.words[j]] {
				continue
			}
			table.Add(doc.words[j], 1)
		}
	}
	return table, nil
}
