// Package filter narrows a project list to a search term and marks the
// matching text.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/stackswitch/cli/pkg/directory"
)

// Match is a record that satisfied the search, with highlighted fields.
type Match struct {
	Record      directory.Record
	Name        string
	Description string
}

// Result is the outcome of filtering a directory.
type Result struct {
	Term    string
	Matches []Match
	Matched int
	Total   int
}

// Counter renders the "<matched> / <total> projects" line.
func (r Result) Counter() string {
	return fmt.Sprintf("%d / %d projects", r.Matched, r.Total)
}

// Records returns the matched records without highlighting.
func (r Result) Records() []directory.Record {
	return lo.Map(r.Matches, func(m Match, _ int) directory.Record { return m.Record })
}

// Normalize trims and lowercases a raw search string.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Matches reports whether r satisfies the normalized term: its name starts
// with the term or its description contains it. Letters are compared with the
// same case folding Highlight uses.
func Matches(r directory.Record, term string) bool {
	name, desc := fieldMatches(r, compile(term))
	return name || desc
}

// fieldMatches reports which fields of r satisfy pattern. A nil pattern is the
// empty term and matches both.
func fieldMatches(r directory.Record, pattern *regexp.Regexp) (name, desc bool) {
	if pattern == nil {
		return true, true
	}
	loc := pattern.FindStringIndex(r.Name)
	return loc != nil && loc[0] == 0, pattern.MatchString(r.Description)
}

// Apply filters records by term, keeping their order, and highlights the
// fields that satisfied the match with mark. records is not modified.
func Apply(records []directory.Record, term string, mark Marker) Result {
	if mark == nil {
		mark = Brackets
	}
	term = Normalize(term)
	pattern := compile(term)

	matches := lo.FilterMap(records, func(r directory.Record, _ int) (Match, bool) {
		byName, byDesc := fieldMatches(r, pattern)
		if !byName && !byDesc {
			return Match{}, false
		}
		m := Match{Record: r, Name: mark.Plain(r.Name), Description: mark.Plain(r.Description)}
		if byName {
			m.Name = highlight(r.Name, pattern, mark)
		}
		if byDesc {
			m.Description = highlight(r.Description, pattern, mark)
		}
		return m, true
	})

	return Result{
		Term:    term,
		Matches: matches,
		Matched: len(matches),
		Total:   len(records),
	}
}

// Highlight wraps every case-insensitive occurrence of term in text with mark.
// The term is matched literally; an empty term leaves text unchanged apart
// from the marker's escaping of plain segments.
func Highlight(text, term string, mark Marker) string {
	if mark == nil {
		mark = Brackets
	}
	return highlight(text, compile(Normalize(term)), mark)
}

func compile(term string) *regexp.Regexp {
	if term == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}

func highlight(text string, pattern *regexp.Regexp, mark Marker) string {
	if pattern == nil {
		return mark.Plain(text)
	}
	var sb strings.Builder
	last := 0
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		sb.WriteString(mark.Plain(text[last:loc[0]]))
		sb.WriteString(mark.Emphasize(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	sb.WriteString(mark.Plain(text[last:]))
	return sb.String()
}
