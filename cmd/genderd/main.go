// Command genderd exposes gender-association analysis of a text corpus
// as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/genders
//	POST /api/proximity   body: {"text" | loaded corpus, "genders", "radius", "tag_groups", "diff", "limit", "remove_stopwords", "by_document"}
//	POST /api/frequency   body: {"text" | loaded corpus, "genders", "format", "group", "by_document"}
//	POST /api/dunning     body: {"field","value1","value2"} | {"word1","word2"} | {"field","value1","value2","words","radius"}
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/rs/cors"
	genderlens "github.com/tsawler/genderlens"
)

// ---- JSON response types ------------------------------------------------

type genderJSON struct {
	Label    string   `json:"label"`
	Pronouns []string `json:"pronouns"`
	Subjects []string `json:"subjects"`
	Objects  []string `json:"objects"`
}

type gendersResponse struct {
	Genders []genderJSON `json:"genders"`
}

type wordCountJSON struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type wordScoreJSON struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

type proximityResponse struct {
	Results    map[string][]wordCountJSON            `json:"results,omitempty"`
	ByDocument map[string]map[string][]wordCountJSON `json:"by_document,omitempty"`
	Diffed     map[string][]wordScoreJSON            `json:"diffed,omitempty"`
}

type frequencyResponse struct {
	Results    map[string]genderlens.GenderTally            `json:"results,omitempty"`
	ByDocument map[string]map[string]genderlens.GenderTally `json:"by_document,omitempty"`
}

type dunningResponse struct {
	Corpus1 string                    `json:"corpus1"`
	Corpus2 string                    `json:"corpus2"`
	First   []genderlens.DunningEntry `json:"for_corpus1"`
	Second  []genderlens.DunningEntry `json:"for_corpus2"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func builtinGenders() []genderlens.Gender {
	return append(genderlens.TrinaryGroup(), genderlens.Neogenders())
}

// resolveGenders maps request labels onto the built-in genders. An
// empty list returns nil, which the analyzers treat as the binary
// default.
func resolveGenders(names []string) ([]genderlens.Gender, error) {
	if len(names) == 0 {
		return nil, nil
	}
	byLabel := make(map[string]genderlens.Gender)
	for _, g := range builtinGenders() {
		byLabel[strings.ToLower(g.Label())] = g
	}
	out := make([]genderlens.Gender, 0, len(names))
	for _, name := range names {
		g, ok := byLabel[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown gender %q", genderlens.ErrConfiguration, name)
		}
		out = append(out, g)
	}
	return out, nil
}

// requestCorpus picks the corpus a request runs against: ad-hoc text
// when supplied, otherwise the corpus loaded at startup.
func requestCorpus(loaded *genderlens.Corpus, text string) (*genderlens.Corpus, error) {
	if text != "" {
		doc, err := genderlens.NewDocument(text, genderlens.WithLabel("text"))
		if err != nil {
			return nil, err
		}
		return genderlens.NewCorpus("text", doc), nil
	}
	if loaded.Len() == 0 {
		return nil, fmt.Errorf("%w: no corpus loaded and no text supplied", genderlens.ErrConfiguration)
	}
	return loaded, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, genderlens.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, genderlens.ErrDegenerateInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func toWordCountsJSON(ranked []genderlens.WordCount) []wordCountJSON {
	out := make([]wordCountJSON, 0, len(ranked))
	for _, wc := range ranked {
		out = append(out, wordCountJSON{Word: wc.Word, Count: wc.Count})
	}
	return out
}

func toWordScoresJSON(scored []genderlens.WordScore) []wordScoreJSON {
	out := make([]wordScoreJSON, 0, len(scored))
	for _, ws := range scored {
		out = append(out, wordScoreJSON{Word: ws.Word, Score: ws.Score})
	}
	return out
}

// ---- handlers -----------------------------------------------------------

func handleGenders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		resp := gendersResponse{}
		for _, g := range builtinGenders() {
			resp.Genders = append(resp.Genders, genderJSON{
				Label:    g.Label(),
				Pronouns: g.Pronouns(),
				Subjects: g.Subjects(),
				Objects:  g.Objects(),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleProximity(loaded *genderlens.Corpus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body struct {
			Text            string   `json:"text"`
			Genders         []string `json:"genders"`
			Radius          int      `json:"radius"`
			TagGroups       []string `json:"tag_groups"`
			Diff            bool     `json:"diff"`
			Limit           int      `json:"limit"`
			RemoveStopwords bool     `json:"remove_stopwords"`
			ByDocument      bool     `json:"by_document"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "body must be JSON")
			return
		}

		genders, err := resolveGenders(body.Genders)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		corpus, err := requestCorpus(loaded, body.Text)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		cfg := genderlens.DefaultScanConfig()
		if body.Radius > 0 {
			cfg.Radius = body.Radius
		}
		// an explicit "tag_groups": [] lifts the tag filter entirely
		if body.TagGroups != nil {
			cfg.TagGroups = nil
			for _, name := range body.TagGroups {
				cfg.TagGroups = append(cfg.TagGroups, genderlens.TagGroup(strings.ToLower(name)))
			}
		}

		analyzer, err := genderlens.NewProximityAnalyzer(corpus, genders, cfg)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		limit := body.Limit
		if limit == 0 {
			limit = 10
		}
		opts := genderlens.ViewOptions{Limit: limit, RemoveStopWords: body.RemoveStopwords}

		var resp proximityResponse
		switch {
		case body.Diff:
			scored, err := analyzer.Differenced(analyzer.ByGender(), opts)
			if err != nil {
				writeError(w, statusFor(err), err.Error())
				return
			}
			resp.Diffed = make(map[string][]wordScoreJSON, len(scored))
			for label, scores := range scored {
				resp.Diffed[label] = toWordScoresJSON(scores)
			}
		case body.ByDocument:
			resp.ByDocument = make(map[string]map[string][]wordCountJSON)
			for docLabel, results := range analyzer.ByDocument() {
				ranked := results.Ranked(opts)
				per := make(map[string][]wordCountJSON, len(ranked))
				for label, list := range ranked {
					per[label] = toWordCountsJSON(list)
				}
				resp.ByDocument[docLabel] = per
			}
		default:
			ranked := analyzer.ByGender().Ranked(opts)
			resp.Results = make(map[string][]wordCountJSON, len(ranked))
			for label, list := range ranked {
				resp.Results[label] = toWordCountsJSON(list)
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleFrequency(loaded *genderlens.Corpus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body struct {
			Text       string   `json:"text"`
			Genders    []string `json:"genders"`
			Format     string   `json:"format"`
			Group      string   `json:"group"`
			ByDocument bool     `json:"by_document"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "body must be JSON")
			return
		}

		genders, err := resolveGenders(body.Genders)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		corpus, err := requestCorpus(loaded, body.Text)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		analyzer, err := genderlens.NewFrequencyAnalyzer(corpus, genders)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		format := genderlens.FormatBy(strings.ToLower(body.Format))
		group := genderlens.GroupBy(strings.ToLower(body.Group))

		var resp frequencyResponse
		if body.ByDocument {
			resp.ByDocument, err = analyzer.ByDocument(format, group)
		} else {
			resp.Results, err = analyzer.ByGender(format, group)
		}
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleDunning(loaded *genderlens.Corpus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body struct {
			Field    string   `json:"field"`
			Value1   string   `json:"value1"`
			Value2   string   `json:"value2"`
			Words    []string `json:"words"`
			Word1    string   `json:"word1"`
			Word2    string   `json:"word2"`
			Radius   int      `json:"radius"`
			MinTotal int      `json:"min_total"`
			Limit    int      `json:"limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "body must be JSON")
			return
		}
		if loaded.Len() == 0 {
			writeError(w, http.StatusBadRequest, "no corpus loaded")
			return
		}

		opts := genderlens.DunningOptions{MinTotal: body.MinTotal}
		var (
			result *genderlens.DunningResult
			err    error
		)
		switch {
		case body.Word1 != "" && body.Word2 != "":
			result, err = genderlens.CompareWordPair(loaded, body.Word1, body.Word2, body.Radius, opts)
		case body.Field != "" && len(body.Words) > 0:
			sub1 := loaded.Subcorpus(body.Field, body.Value1)
			sub2 := loaded.Subcorpus(body.Field, body.Value2)
			result, err = genderlens.CompareWordAssociation(sub1, sub2, body.Words, body.Radius, opts)
		case body.Field != "":
			result, err = genderlens.CompareByMetadata(loaded, body.Field, body.Value1, body.Value2, opts)
		default:
			writeError(w, http.StatusBadRequest, "body must name either a metadata field or a word pair")
			return
		}
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		limit := body.Limit
		if limit == 0 {
			limit = 10
		}
		first, second := result.MostDistinctive(limit)
		name1, name2 := result.Names()
		writeJSON(w, http.StatusOK, dunningResponse{
			Corpus1: name1,
			Corpus2: name2,
			First:   first,
			Second:  second,
		})
	}
}

// ---- main ---------------------------------------------------------------

func main() {
	corpusDir := flag.String("corpus", "", "path to a directory of .txt documents")
	csvPath := flag.String("csv", "", "path to a metadata CSV joined on filename")
	name := flag.String("name", "", "corpus name (default: directory base name)")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	corpus := genderlens.NewCorpus("corpus")
	if *corpusDir != "" {
		var opts []genderlens.CorpusOption
		if *csvPath != "" {
			opts = append(opts, genderlens.WithCSVMetadata(*csvPath))
		}
		if *name != "" {
			opts = append(opts, genderlens.WithName(*name))
		}
		log.Printf("loading corpus from %s …", *corpusDir)
		loaded, err := genderlens.LoadCorpus(*corpusDir, opts...)
		if err != nil {
			log.Fatalf("failed to load corpus: %v", err)
		}
		corpus = loaded
		log.Printf("loaded %d documents, %d words", corpus.Len(), corpus.WordCount())
	} else {
		log.Println("no corpus directory given; only ad-hoc text analysis is available")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/genders", handleGenders())
	mux.HandleFunc("/api/proximity", handleProximity(corpus))
	mux.HandleFunc("/api/frequency", handleFrequency(corpus))
	mux.HandleFunc("/api/dunning", handleDunning(corpus))

	handler := cors.Default().Handler(mux)
	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
