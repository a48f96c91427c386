package genderlens

import (
	"testing"
)

func TestNewDocumentWords(t *testing.T) {
	doc, err := NewDocument("She was very cold, and tired.", WithTokens([]Token{}))
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	want := []string{"she", "was", "very", "cold", "and", "tired"}
	got := doc.Words()
	if len(got) != len(want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Words()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if doc.WordCount() != 6 {
		t.Errorf("WordCount() = %d, want 6", doc.WordCount())
	}
}

func TestSplitWordsCleaning(t *testing.T) {
	tests := []struct {
		text string
		want []string
		desc string
	}{
		{"Hello, World!", []string{"hello", "world"}, "punctuation is stripped"},
		{"-- ... !!", nil, "pure punctuation chunks vanish"},
		{"Room 101 again", []string{"room", "101", "again"}, "digits survive"},
		{"", nil, "empty text"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			doc, err := NewDocument(tt.text, WithTokens([]Token{}))
			if err != nil {
				t.Fatalf("Failed to create document: %v", err)
			}
			got := doc.Words()
			if len(got) != len(tt.want) {
				t.Fatalf("Words() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Words()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDocumentCounts(t *testing.T) {
	doc, err := NewDocument("She was cold. She slept.", WithTokens([]Token{}))
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if got := doc.CountOf("SHE"); got != 2 {
		t.Errorf("CountOf(SHE) = %d, want 2", got)
	}
	if got := doc.CountOf("warm"); got != 0 {
		t.Errorf("CountOf(warm) = %d, want 0", got)
	}
	if got := doc.WordFrequency("she"); got != 0.4 {
		t.Errorf("WordFrequency(she) = %v, want 0.4", got)
	}

	table := doc.CountsOf("She", "missing")
	words := table.Words()
	if len(words) != 2 || words[0] != "she" || words[1] != "missing" {
		t.Fatalf("CountsOf order = %v, want [she missing]", words)
	}
	if table.Count("she") != 2 || table.Count("missing") != 0 {
		t.Errorf("CountsOf = she:%d missing:%d, want 2 and 0", table.Count("she"), table.Count("missing"))
	}

	// the full table is a copy
	doc.WordCounts().Add("she", 100)
	if got := doc.CountOf("she"); got != 2 {
		t.Error("WordCounts exposed the document's internal table")
	}
}

func TestEmptyDocument(t *testing.T) {
	doc, err := NewDocument("")
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	if doc.WordCount() != 0 || len(doc.Tokens()) != 0 {
		t.Errorf("empty document has %d words and %d tokens", doc.WordCount(), len(doc.Tokens()))
	}
	if got := doc.WordFrequency("she"); got != 0 {
		t.Errorf("WordFrequency on empty document = %v, want 0", got)
	}
}

func TestWithTokens(t *testing.T) {
	tokens := tagged("She", "PRP", "smiled", "VBD")

	doc, err := NewDocument("completely different text", WithTokens(tokens))
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	if got := doc.Tokens(); len(got) != 2 || got[0].Tag != "PRP" {
		t.Errorf("Tokens() = %v, want the supplied stream", got)
	}
	// with raw text present, words come from the text
	if got := doc.Words(); len(got) != 3 || got[0] != "completely" {
		t.Errorf("Words() = %v, want the text's words", got)
	}

	doc, err = NewDocument("", WithTokens(tokens))
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	// without text the token stream stands in
	if got := doc.Words(); len(got) != 2 || got[0] != "she" || got[1] != "smiled" {
		t.Errorf("Words() = %v, want [she smiled]", got)
	}
}

func TestDocumentLabel(t *testing.T) {
	tests := []struct {
		opts []DocOption
		want string
		desc string
	}{
		{[]DocOption{WithLabel("explicit")}, "explicit", "explicit label wins"},
		{[]DocOption{WithMetadata(Metadata{Filename: "novels/middlemarch.txt"})}, "middlemarch", "filename stem"},
		{[]DocOption{WithMetadata(Metadata{Title: "Middlemarch"})}, "Middlemarch", "title fallback"},
		{nil, "", "nothing to fall back to"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			opts := append([]DocOption{WithTokens([]Token{})}, tt.opts...)
			doc, err := NewDocument("some text", opts...)
			if err != nil {
				t.Fatalf("Failed to create document: %v", err)
			}
			if doc.Label() != tt.want {
				t.Errorf("Label() = %q, want %q", doc.Label(), tt.want)
			}
		})
	}
}

func TestMetadataValue(t *testing.T) {
	m := Metadata{
		Filename:     "eyre.txt",
		Title:        "Jane Eyre",
		AuthorGender: "female",
		Date:         1847,
		Extra:        map[string]string{"publisher": "Smith, Elder & Co."},
	}

	tests := []struct {
		field  string
		want   string
		wantOK bool
		desc   string
	}{
		{"title", "Jane Eyre", true, "named field"},
		{"TITLE", "Jane Eyre", true, "lookup ignores case"},
		{"date", "1847", true, "date renders as a string"},
		{"Publisher", "Smith, Elder & Co.", true, "extra field"},
		{"author", "", false, "unset field"},
		{"isbn", "", false, "unknown field"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := m.Value(tt.field)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Value(%q) = %q, %v, want %q, %v", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := (Metadata{}).Value("date"); ok {
		t.Error("a zero date should read as unset")
	}
}

func TestWordsAssociated(t *testing.T) {
	doc, err := NewDocument("she was cold she went home she", WithTokens([]Token{}))
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	table := doc.WordsAssociated("SHE")
	if table.Count("was") != 1 || table.Count("went") != 1 {
		t.Errorf("associated words = %v, want was:1 went:1", table.Words())
	}
	// the trailing occurrence has no follower
	if table.Sum() != 2 {
		t.Errorf("association total = %d, want 2", table.Sum())
	}
}

func TestWordWindows(t *testing.T) {
	doc, err := NewDocument("cold she was she warm", WithTokens([]Token{}))
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	table, err := doc.WordWindows([]string{"she"}, 1)
	if err != nil {
		t.Fatalf("WordWindows failed: %v", err)
	}
	if table.Count("cold") != 1 || table.Count("was") != 2 || table.Count("warm") != 1 {
		t.Errorf("window counts = %v, want cold:1 was:2 warm:1", table.Words())
	}
	if table.Has("she") {
		t.Error("a target word counted inside another target's window")
	}

	if _, err := doc.WordWindows([]string{"she"}, 0); !errorsIsConfiguration(err) {
		t.Errorf("zero radius: got %v, want a configuration error", err)
	}
}

func TestInstanceDistances(t *testing.T) {
	tests := []struct {
		text  string
		words []string
		want  []int
		desc  string
	}{
		{"her a b c her d her", []string{"her"}, []int{4, 2}, "gaps between occurrences"},
		{"her her", []string{"her"}, []int{1}, "adjacent occurrences are one apart"},
		{"a her b", []string{"her"}, nil, "single occurrence yields nothing"},
		{"a b c", []string{"her"}, nil, "no occurrences"},
		{"she a her", []string{"she", "her"}, []int{2}, "any listed word counts"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			doc, err := NewDocument(tt.text, WithTokens([]Token{}))
			if err != nil {
				t.Fatalf("Failed to create document: %v", err)
			}
			got := doc.InstanceDistances(tt.words...)
			if len(got) != len(tt.want) {
				t.Fatalf("InstanceDistances = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("InstanceDistances[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
