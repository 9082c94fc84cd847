package source

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/claimscope/claimscope/internal/cache"
	"github.com/claimscope/claimscope/internal/model"
)

// ArxivSource fetches papers from the arXiv Atom API. Calls are rate
// limited per arXiv's access policy and responses are cached, so
// repeated ingestion of the same query is cheap.
type ArxivSource struct {
	cfg     model.ArxivConfig
	fetcher *Fetcher
	limiter *rate.Limiter
	cache   cache.Cache
	verbose bool
}

// NewArxivSource creates an arXiv paper source. A nil cache disables
// response caching.
func NewArxivSource(cfg model.ArxivConfig, httpCfg model.HTTPConfig, c cache.Cache, verbose bool) *ArxivSource {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 0.33
	}

	return &ArxivSource{
		cfg:     cfg,
		fetcher: NewFetcher(httpCfg),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cache:   c,
		verbose: verbose,
	}
}

// Fetch returns up to max papers matching the query, most relevant first
func (s *ArxivSource) Fetch(ctx context.Context, query string, max int) ([]model.Paper, error) {
	if max <= 0 {
		max = s.cfg.MaxPapers
	}

	cacheKey := cache.Key("arxiv:" + query + ":" + strconv.Itoa(max))
	if s.cache != nil {
		if data, found := s.cache.Get(cacheKey); found {
			var papers []model.Paper
			if err := json.Unmarshal(data, &papers); err == nil {
				if s.verbose {
					fmt.Fprintf(os.Stderr, "arXiv cache hit for %q (%d papers)\n", query, len(papers))
				}
				return papers, nil
			}
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("search_query", searchQuery(query))
	params.Set("max_results", strconv.Itoa(max))
	params.Set("sortBy", "relevance")

	result, err := s.fetcher.Fetch(ctx, s.cfg.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("arxiv query: %w", err)
	}

	papers, err := parseAtomFeed(result.Body)
	if err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(papers); err == nil {
			_ = s.cache.Set(cacheKey, data, 0)
		}
	}

	if s.verbose {
		fmt.Fprintf(os.Stderr, "Fetched %d papers from arXiv for %q\n", len(papers), query)
	}

	return papers, nil
}

// Field prefixes the arXiv query interface understands.
var arxivFields = []string{"ti:", "au:", "abs:", "co:", "jr:", "cat:", "rn:", "id:", "all:"}

// searchQuery prefixes all: unless the query already names a field, so
// category searches like cat:cs.CL pass through untouched.
func searchQuery(query string) string {
	for _, field := range arxivFields {
		if strings.HasPrefix(query, field) {
			return query
		}
	}
	return "all:" + query
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	DOI       string       `xml:"doi"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// parseAtomFeed converts an arXiv Atom feed into papers. Entries that
// fail to convert are dropped, not fatal.
func parseAtomFeed(body string) ([]model.Paper, error) {
	var feed atomFeed
	if err := xml.Unmarshal([]byte(body), &feed); err != nil {
		return nil, err
	}

	var papers []model.Paper
	for _, entry := range feed.Entries {
		if paper, ok := convertEntry(entry); ok {
			papers = append(papers, paper)
		}
	}
	return papers, nil
}

func convertEntry(entry atomEntry) (model.Paper, bool) {
	// Entry ID looks like http://arxiv.org/abs/2101.00001v2
	segments := strings.Split(strings.TrimRight(entry.ID, "/"), "/")
	arxivID := segments[len(segments)-1]
	if arxivID == "" {
		return model.Paper{}, false
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	year := 0
	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		year = t.Year()
	}

	summary := collapseWhitespace(entry.Summary)
	abstract, results, conclusion := splitSummary(summary)

	return model.Paper{
		PaperID:    strings.ReplaceAll(arxivID, "v", "_v"),
		Title:      collapseWhitespace(entry.Title),
		Authors:    authors,
		Year:       year,
		Venue:      "arXiv",
		Abstract:   abstract,
		Results:    results,
		Conclusion: conclusion,
		DOI:        entry.DOI,
		ArxivID:    arxivID,
	}, true
}

var (
	sectionMarker  = regexp.MustCompile(`(?i)\b(results?:|conclusion:|we show|we demonstrate|our experiments)\b`)
	resultsPhrase  = regexp.MustCompile(`(?i)we (achieve|obtain|show|demonstrate|find|observe)[^.]+\d+[^.]*\.`)
	concludePhrase = regexp.MustCompile(`(?i)we (conclude|demonstrate|show) that[^.]+\.`)
)

// splitSummary carves abstract/results/conclusion text out of an arXiv
// summary. The API only exposes abstracts, so this is heuristic: the
// text before the first result-reporting marker is the abstract, and
// result/conclusion phrasing is pulled out as section snippets.
func splitSummary(summary string) (abstract, results, conclusion string) {
	abstract = summary

	loc := sectionMarker.FindStringIndex(summary)
	if loc == nil {
		return abstract, "", ""
	}

	if loc[0] > 0 {
		abstract = strings.TrimSpace(summary[:loc[0]])
	}
	results = strings.TrimSpace(resultsPhrase.FindString(summary))
	conclusion = strings.TrimSpace(concludePhrase.FindString(summary))

	return abstract, results, conclusion
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
