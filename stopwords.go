package genderlens

import (
	"strings"
	"sync"

	"github.com/bbalet/stopwords"
	prose "github.com/tsawler/prose/v3"
)

// The stopwords library filters text but does not export its word
// lists, so the sets used for RemoveStopWords options are derived by
// probing it: a candidate word that CleanString removes or rewrites is
// a stop word. Derivation runs once per language and is cached.

var (
	stopMu    sync.Mutex
	stopCache = make(map[prose.Language]map[string]bool)
)

// StopWords returns the stop-word set for a language. The set is a
// copy; callers may add or delete words freely. Languages the
// underlying library does not know yield a small or empty set rather
// than an error.
func StopWords(lang prose.Language) map[string]bool {
	stopMu.Lock()
	cached, ok := stopCache[lang]
	if !ok {
		cached = deriveStopWords(lang)
		stopCache[lang] = cached
	}
	stopMu.Unlock()

	out := make(map[string]bool, len(cached))
	for word := range cached {
		out[word] = true
	}
	return out
}

// DefaultStopWords returns the English stop-word set.
func DefaultStopWords() map[string]bool {
	return StopWords(prose.English)
}

func deriveStopWords(lang prose.Language) map[string]bool {
	code := string(lang)
	set := make(map[string]bool)
	for _, word := range stopWordCandidates(lang) {
		cleaned := strings.TrimSpace(stopwords.CleanString(word, code, false))
		if cleaned == "" || cleaned != word {
			set[word] = true
		}
	}
	return set
}

// stopWordCandidates lists the words worth probing for a language:
// articles, pronouns, prepositions, conjunctions, auxiliaries and the
// most frequent function words. Words the library keeps are dropped
// again during derivation, so over-listing is harmless.
func stopWordCandidates(lang prose.Language) []string {
	base := []string{
		"a", "about", "after", "again", "all", "am", "an", "and", "any",
		"are", "as", "at", "be", "because", "been", "before", "being",
		"below", "between", "both", "but", "by", "can", "could", "did",
		"do", "does", "doing", "down", "during", "each", "few", "for",
		"from", "further", "had", "has", "have", "having", "he", "her",
		"here", "hers", "herself", "him", "himself", "his", "how", "i",
		"if", "in", "into", "is", "it", "its", "itself", "just", "me",
		"more", "most", "my", "myself", "no", "nor", "not", "now", "of",
		"off", "on", "once", "only", "or", "other", "our", "ours",
		"ourselves", "out", "over", "own", "same", "she", "should",
		"so", "some", "such", "than", "that", "the", "their", "theirs",
		"them", "themselves", "then", "there", "these", "they", "this",
		"those", "through", "to", "too", "under", "until", "up", "upon",
		"very", "was", "we", "were", "what", "when", "where", "which",
		"while", "who", "whom", "why", "will", "with", "would", "you",
		"your", "yours", "yourself", "yourselves",
	}

	switch lang {
	case prose.Spanish:
		base = append(base, []string{
			"el", "la", "los", "las", "un", "una", "unos", "unas", "y",
			"o", "pero", "que", "de", "en", "por", "para", "con", "sin",
			"se", "su", "sus", "es", "son", "era", "fue", "ser", "estar",
			"yo", "tu", "ella", "ellos", "ellas", "nosotros", "este",
			"esta", "ese", "esa", "lo", "le", "les", "mi", "muy", "mas",
			"como", "cuando", "donde", "todo", "nada", "otro",
		}...)
	case prose.French:
		base = append(base, []string{
			"le", "la", "les", "un", "une", "des", "de", "du", "et",
			"ou", "mais", "que", "qui", "quoi", "dont", "dans", "en",
			"pour", "par", "avec", "sans", "sur", "sous", "chez", "est",
			"sont", "etre", "avoir", "je", "tu", "il", "elle", "on",
			"nous", "vous", "ils", "elles", "ce", "cette", "ces", "se",
			"sa", "son", "ses", "ne", "pas", "plus", "tout", "tres",
		}...)
	case prose.German:
		base = append(base, []string{
			"der", "die", "das", "ein", "eine", "einen", "einem",
			"einer", "und", "oder", "aber", "dass", "wenn", "weil", "in",
			"an", "auf", "aus", "bei", "mit", "nach", "von", "zu", "ist",
			"sind", "war", "waren", "sein", "haben", "hat", "ich", "du",
			"er", "sie", "es", "wir", "ihr", "sich", "mein", "dein",
			"kein", "nicht", "auch", "noch", "nur", "sehr", "alle",
		}...)
	}
	return base
}
