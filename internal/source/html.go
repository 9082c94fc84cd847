package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/claimscope/claimscope/internal/model"
	"github.com/claimscope/claimscope/internal/util"
	"github.com/claimscope/claimscope/internal/worker"
)

// HTMLSource loads papers from rendered paper pages, either local HTML
// files or URLs. URL fetches honor robots.txt.
type HTMLSource struct {
	fetcher *Fetcher
	robots  *util.RobotsChecker
	limiter *worker.Limiter
}

// NewHTMLSource creates an HTML paper source
func NewHTMLSource(httpCfg model.HTTPConfig) *HTMLSource {
	return &HTMLSource{
		fetcher: NewFetcher(httpCfg),
		robots:  util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout),
		limiter: worker.NewLimiter(1, 1),
	}
}

// Load reads a paper from a local file path or an http(s) URL
func (s *HTMLSource) Load(ctx context.Context, pathOrURL string) (model.Paper, error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return s.loadURL(ctx, pathOrURL)
	}
	return s.loadFile(pathOrURL)
}

func (s *HTMLSource) loadURL(ctx context.Context, rawURL string) (model.Paper, error) {
	allowed, crawlDelay, err := s.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return model.Paper{}, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return model.Paper{}, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
	}
	if err := s.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return model.Paper{}, err
	}

	result, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return model.Paper{}, err
	}

	return ParsePaper(result.Body, paperIDFromURL(result.FinalURL))
}

func (s *HTMLSource) loadFile(path string) (model.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Paper{}, fmt.Errorf("read paper file: %w", err)
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	return ParsePaper(string(data), slugify(id))
}

// sectionHeadings maps heading text fragments to paper sections
var sectionHeadings = map[string]model.Section{
	"abstract":     model.SectionAbstract,
	"introduction": model.SectionIntroduction,
	"results":      model.SectionResults,
	"discussion":   model.SectionDiscussion,
	"conclusion":   model.SectionConclusion,
}

// ParsePaper extracts a Paper from paper-page HTML. Metadata comes
// from Highwire citation_* meta tags where present; section text is
// accumulated under the nearest preceding section heading.
func ParsePaper(htmlContent, paperID string) (model.Paper, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return model.Paper{}, fmt.Errorf("parse HTML: %w", err)
	}

	paper := model.Paper{
		PaperID: paperID,
		Venue:   "web",
	}

	sections := map[model.Section]*strings.Builder{}
	var current model.Section
	var pageTitle string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "meta":
				readCitationMeta(n, &paper)
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					pageTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			case "h1", "h2", "h3", "h4":
				heading := strings.ToLower(nodeText(n))
				for fragment, section := range sectionHeadings {
					if strings.Contains(heading, fragment) {
						current = section
						if _, ok := sections[section]; !ok {
							sections[section] = &strings.Builder{}
						}
						return // heading text itself is not section content
					}
				}
				// Unrecognized heading ends the current section
				current = ""
				return
			}
		}

		if n.Type == html.TextNode && current != "" {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf := sections[current]
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if paper.Title == "" {
		paper.Title = pageTitle
	}
	assignSection := func(section model.Section, dst *string) {
		if buf, ok := sections[section]; ok {
			*dst = strings.TrimSpace(buf.String())
		}
	}
	assignSection(model.SectionAbstract, &paper.Abstract)
	assignSection(model.SectionIntroduction, &paper.Introduction)
	assignSection(model.SectionResults, &paper.Results)
	assignSection(model.SectionDiscussion, &paper.Discussion)
	assignSection(model.SectionConclusion, &paper.Conclusion)

	if paper.Title == "" && paper.Abstract == "" {
		return model.Paper{}, fmt.Errorf("no paper content found in HTML")
	}

	return paper, nil
}

// readCitationMeta fills paper metadata from one citation_* meta tag
func readCitationMeta(n *html.Node, paper *model.Paper) {
	var name, content string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "name":
			name = strings.ToLower(strings.TrimSpace(attr.Val))
		case "content":
			content = strings.TrimSpace(attr.Val)
		}
	}
	if content == "" {
		return
	}

	switch name {
	case "citation_title":
		paper.Title = content
	case "citation_author":
		paper.Authors = append(paper.Authors, content)
	case "citation_publication_date", "citation_date", "citation_online_date":
		if paper.Year == 0 && len(content) >= 4 {
			if year, err := strconv.Atoi(content[:4]); err == nil {
				paper.Year = year
			}
		}
	case "citation_journal_title", "citation_conference_title":
		paper.Venue = content
	case "citation_doi":
		paper.DOI = content
	case "citation_arxiv_id":
		paper.ArxivID = content
	}
}

// nodeText flattens the text content of a node
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// paperIDFromURL derives a stable paper identifier from a URL slug
func paperIDFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return slugify(rawURL)
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return slugify(parsed.Host)
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	return slugify(last)
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var out strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out.WriteRune(r)
		default:
			out.WriteRune('-')
		}
	}
	return strings.Trim(out.String(), "-")
}
