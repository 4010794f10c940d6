// Package horizon knows the URL layout of a Horizon style admin console: where
// it is mounted, where the project directory lives and how a project switch is
// requested.
package horizon

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoActivePage is returned when there is no console page to derive URLs from.
var ErrNoActivePage = errors.New("no active console page")

// DetectRoot returns the console mount path for u, e.g. "/horizon".
// The first path segment matching a known mount keyword wins; DefaultRoot is
// returned when none does.
func DetectRoot(u *url.URL) string {
	if u == nil {
		return DefaultRoot
	}
	for _, seg := range strings.Split(u.Path, "/") {
		for _, keyword := range MountKeywords {
			if seg == keyword {
				return "/" + keyword
			}
		}
	}
	return DefaultRoot
}

// Page is a parsed console page URL.
type Page struct {
	URL  *url.URL
	Root string
}

// ParsePage parses an absolute console page URL.
func ParsePage(pageURL string) (Page, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return Page{}, ErrNoActivePage
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrNoActivePage, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Page{}, fmt.Errorf("%w: %q is not an absolute URL", ErrNoActivePage, pageURL)
	}
	return Page{URL: u, Root: DetectRoot(u)}, nil
}

// Origin returns scheme://host[:port].
func (p Page) Origin() string {
	return p.URL.Scheme + "://" + p.URL.Host
}

// Scope identifies the console a page belongs to: origin plus mount path.
func (p Page) Scope() string {
	return p.Origin() + p.Root
}

// Location returns the escaped path and query of the page, the part a switch
// should bring the user back to.
func (p Page) Location() string {
	loc := p.URL.EscapedPath()
	if loc == "" {
		loc = "/"
	}
	if p.URL.RawQuery != "" {
		loc += "?" + p.URL.RawQuery
	}
	return loc
}

// DirectoryURL returns the project directory page for the console pageURL belongs to.
func DirectoryURL(pageURL string) (string, error) {
	p, err := ParsePage(pageURL)
	if err != nil {
		return "", err
	}
	return p.Scope() + DirectoryPath, nil
}

// SwitchURL returns the URL that switches the console session to tenantID and
// then returns to the page the user is on.
func SwitchURL(pageURL, tenantID string) (string, error) {
	p, err := ParsePage(pageURL)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(tenantID) == "" {
		return "", fmt.Errorf("empty project id")
	}
	return fmt.Sprintf("%s%s/%s/?next=%s",
		p.Scope(), SwitchPath, url.PathEscape(tenantID), encodeURIComponent(p.Location())), nil
}

// encodeURIComponent escapes s the way browsers do for a query component:
// spaces become %20 rather than '+'.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
