package genderlens

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCorpusDir(t *testing.T) (dir, csvPath string) {
	t.Helper()
	dir = t.TempDir()

	files := map[string]string{
		"alpha.txt": "She was cold and tired.",
		"beta.txt":  "He ran home.",
		"gamma.TXT": "She laughed.",
		"notes.md":  "not part of the corpus",
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	csvPath = filepath.Join(dir, "meta.csv")
	csvData := strings.Join([]string{
		"filename,title,author,author_gender,date,publisher",
		"alpha.txt,Alpha,A. Author,female,1900,X House",
		"beta.txt,Beta,B. Writer,male,1910,",
		"missing.txt,Ghost,,unknown,1800,",
	}, "\n")
	if err := os.WriteFile(csvPath, []byte(csvData), 0o644); err != nil {
		t.Fatalf("Failed to write metadata csv: %v", err)
	}
	return dir, csvPath
}

func TestLoadCorpus(t *testing.T) {
	dir, csvPath := writeCorpusDir(t)

	c, err := LoadCorpus(dir,
		WithName("shelf"),
		WithCSVMetadata(csvPath),
		WithDocOptions(WithTagging(false)),
	)
	if err != nil {
		t.Fatalf("LoadCorpus failed: %v", err)
	}

	if c.Name() != "shelf" {
		t.Errorf("Name() = %q, want shelf", c.Name())
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (.txt files only)", c.Len())
	}

	docs := c.Documents()
	wantLabels := []string{"alpha", "beta", "gamma"}
	for i, want := range wantLabels {
		if docs[i].Label() != want {
			t.Errorf("document %d label = %q, want %q", i, docs[i].Label(), want)
		}
	}

	alpha := docs[0].Metadata()
	if alpha.Title != "Alpha" || alpha.Author != "A. Author" || alpha.AuthorGender != "female" || alpha.Date != 1900 {
		t.Errorf("alpha metadata = %+v, want the csv row joined in", alpha)
	}
	if alpha.Filename != "alpha.txt" {
		t.Errorf("alpha filename = %q, want alpha.txt", alpha.Filename)
	}
	if got := alpha.Extra["publisher"]; got != "X House" {
		t.Errorf("alpha publisher = %q, want X House", got)
	}

	beta := docs[1].Metadata()
	if beta.Extra != nil {
		t.Errorf("beta Extra = %v, want none for empty csv cells", beta.Extra)
	}

	// gamma.TXT has no csv row; only the filename is known
	gamma := docs[2].Metadata()
	if gamma.Filename != "gamma.TXT" || gamma.Title != "" {
		t.Errorf("gamma metadata = %+v, want filename only", gamma)
	}

	if got := c.WordCount(); got != 10 {
		t.Errorf("WordCount() = %d, want 10", got)
	}
	if got := c.WordCounts().Count("she"); got != 2 {
		t.Errorf("corpus count of she = %d, want 2", got)
	}
}

func TestLoadCorpusDefaultName(t *testing.T) {
	dir, _ := writeCorpusDir(t)
	c, err := LoadCorpus(dir, WithDocOptions(WithTagging(false)))
	if err != nil {
		t.Fatalf("LoadCorpus failed: %v", err)
	}
	if c.Name() != filepath.Base(dir) {
		t.Errorf("Name() = %q, want the directory base %q", c.Name(), filepath.Base(dir))
	}
}

func TestLoadCorpusBadMetadata(t *testing.T) {
	dir, _ := writeCorpusDir(t)

	noFilename := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(noFilename, []byte("title,author\nAlpha,A. Author\n"), 0o644); err != nil {
		t.Fatalf("Failed to write csv: %v", err)
	}
	if _, err := LoadCorpus(dir, WithCSVMetadata(noFilename), WithDocOptions(WithTagging(false))); err == nil {
		t.Error("a metadata csv without a filename column loaded without error")
	}

	if _, err := LoadCorpus(dir, WithCSVMetadata(filepath.Join(dir, "absent.csv"))); err == nil {
		t.Error("a missing metadata csv loaded without error")
	}
}

func TestLoadCorpusMissingDir(t *testing.T) {
	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("a missing directory loaded without error")
	}
}

func TestCorpusFieldValues(t *testing.T) {
	dir, csvPath := writeCorpusDir(t)
	c, err := LoadCorpus(dir, WithCSVMetadata(csvPath), WithDocOptions(WithTagging(false)))
	if err != nil {
		t.Fatalf("LoadCorpus failed: %v", err)
	}

	got := c.FieldValues("author_gender")
	if len(got) != 2 || got[0] != "female" || got[1] != "male" {
		t.Errorf("FieldValues = %v, want [female male]", got)
	}
	if got := c.FieldValues("isbn"); len(got) != 0 {
		t.Errorf("FieldValues for an unknown field = %v, want none", got)
	}
}

func TestSubcorpus(t *testing.T) {
	dir, csvPath := writeCorpusDir(t)
	c, err := LoadCorpus(dir, WithName("shelf"), WithCSVMetadata(csvPath), WithDocOptions(WithTagging(false)))
	if err != nil {
		t.Fatalf("LoadCorpus failed: %v", err)
	}

	sub := c.Subcorpus("author_gender", "FEMALE")
	if sub.Len() != 1 || sub.Documents()[0].Label() != "alpha" {
		t.Errorf("Subcorpus matched %d documents, want only alpha", sub.Len())
	}
	if want := "shelf:author_gender=FEMALE"; sub.Name() != want {
		t.Errorf("Subcorpus name = %q, want %q", sub.Name(), want)
	}
	if got := c.Subcorpus("author_gender", "nonexistent"); got.Len() != 0 {
		t.Errorf("Subcorpus for an unused value has %d documents", got.Len())
	}
}

func TestCorpusMerge(t *testing.T) {
	a := NewCorpus("a", tokenDoc(t, "one", 0, "", "she", "was", "cold"))
	b := NewCorpus("b", tokenDoc(t, "two", 0, "", "he", "ran"))

	merged := a.Merge(b, "both")
	if merged.Name() != "both" || merged.Len() != 2 {
		t.Fatalf("merged = %q with %d documents, want both with 2", merged.Name(), merged.Len())
	}
	labels := []string{merged.Documents()[0].Label(), merged.Documents()[1].Label()}
	if labels[0] != "one" || labels[1] != "two" {
		t.Errorf("merged order = %v, want the receiver's documents first", labels)
	}
	if got := a.Merge(nil, "solo"); got.Len() != 1 {
		t.Errorf("merging with nil gives %d documents, want 1", got.Len())
	}
}

func TestCorpusWindows(t *testing.T) {
	c := NewCorpus("c",
		tokenDoc(t, "one", 0, "", "she", "was", "cold"),
		tokenDoc(t, "two", 0, "", "so", "she", "was", "warm"),
	)

	assoc := c.WordsAssociated("she")
	if assoc.Count("was") != 2 {
		t.Errorf("corpus-wide following count for was = %d, want 2", assoc.Count("was"))
	}

	windows, err := c.WordWindows([]string{"she"}, 1)
	if err != nil {
		t.Fatalf("WordWindows failed: %v", err)
	}
	if windows.Count("was") != 2 || windows.Count("so") != 1 {
		t.Errorf("corpus windows = %v, want was:2 so:1", windows.Words())
	}
	if _, err := c.WordWindows([]string{"she"}, -1); !errorsIsConfiguration(err) {
		t.Errorf("negative radius: got %v, want a configuration error", err)
	}
}
