package directory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/stackswitch/cli/internal/horizon"
	"golang.org/x/net/html"
)

// Fetcher retrieves a page with the user's console credentials attached.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Scraper produces snapshots of a console's project directory.
type Scraper struct {
	fetcher Fetcher
	layout  Layout
	logger  *pterm.Logger
	now     func() time.Time
}

// NewScraper returns a Scraper reading rows with the given layout.
func NewScraper(fetcher Fetcher, layout Layout, logger *pterm.Logger) *Scraper {
	if logger == nil {
		logger = &pterm.DefaultLogger
	}
	return &Scraper{fetcher: fetcher, layout: layout, logger: logger, now: time.Now}
}

// Scrape fetches the directory page of the console pageURL belongs to and
// returns its projects in page order. An empty directory is not an error.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (Snapshot, error) {
	target, err := horizon.DirectoryURL(pageURL)
	if err != nil {
		return Snapshot{}, err
	}

	s.logger.Debug("fetching project directory", s.logger.Args("url", target))
	body, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return Snapshot{}, err
		}
		return Snapshot{}, &FetchError{URL: target, Err: err}
	}

	records, err := Parse(bytes.NewReader(body), s.layout)
	if err != nil {
		return Snapshot{}, &FetchError{URL: target, Err: err}
	}
	s.logger.Debug("parsed project directory", s.logger.Args("url", target, "projects", len(records)))

	return Snapshot{Records: records, CapturedAt: s.now()}, nil
}

// Parse extracts project records from directory markup. Rows without an id or
// a name are skipped, as are repeated ids after their first occurrence.
func Parse(r io.Reader, layout Layout) ([]Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	records := []Record{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if id, ok := attr(n, layout.RowAttribute); ok {
				if rec, ok := rowRecord(n, strings.TrimSpace(id), layout); ok {
					records = append(records, rec)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return lo.UniqBy(records, func(r Record) string { return r.ID }), nil
}

func rowRecord(row *html.Node, id string, layout Layout) (Record, bool) {
	cells := cellTexts(row)
	rec := Record{
		ID:          id,
		Name:        cellAt(cells, layout.NameColumn),
		Description: cellAt(cells, layout.DescriptionColumn),
	}
	if rec.ID == "" || rec.Name == "" {
		return Record{}, false
	}
	return rec, true
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// cellTexts returns the trimmed text of every <td> below row, in document order.
func cellTexts(row *html.Node) []string {
	var cells []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "td" {
			cells = append(cells, strings.TrimSpace(textContent(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return cells
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
