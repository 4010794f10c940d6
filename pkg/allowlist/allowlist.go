// Package allowlist tracks the console origins stackswitch may fetch from.
package allowlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"github.com/stackswitch/cli/pkg/store"
)

const storeKey = "domains"

// ErrNotAllowed is returned for URLs outside every allowed domain.
var ErrNotAllowed = errors.New("domain is not allowed")

// List is the set of allowed console domains, kept in a store.
type List struct {
	store store.Store
}

func New(s store.Store) *List {
	return &List{store: s}
}

// Normalize turns user input into a canonical domain entry: trimmed, with a
// trailing slash and an http(s) scheme.
func Normalize(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return "", fmt.Errorf("enter a full URL starting with http:// or https://, got %q", raw)
	}
	return u, nil
}

// Pattern returns the match pattern for a normalized domain entry.
func Pattern(domain string) string {
	return domain + "**"
}

// Domains returns the allowed domains in the order they were added.
func (l *List) Domains() ([]string, error) {
	raw, ok, err := l.store.Get(storeKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	var domains []string
	if err := json.Unmarshal(raw, &domains); err != nil {
		return nil, fmt.Errorf("failed to parse allowed domains: %w", err)
	}
	return domains, nil
}

// Add allows a new domain and returns its normalized form. Adding a domain
// twice is a no-op.
func (l *List) Add(raw string) (string, error) {
	domain, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	if !doublestar.ValidatePattern(Pattern(domain)) {
		return "", fmt.Errorf("invalid domain pattern %q", domain)
	}
	domains, err := l.Domains()
	if err != nil {
		return "", err
	}
	if lo.Contains(domains, domain) {
		return domain, nil
	}
	return domain, l.save(append(domains, domain))
}

// Remove forgets a domain. Removing an unknown domain is a no-op.
func (l *List) Remove(raw string) error {
	domain, err := Normalize(raw)
	if err != nil {
		return err
	}
	domains, err := l.Domains()
	if err != nil {
		return err
	}
	if !lo.Contains(domains, domain) {
		return nil
	}
	return l.save(lo.Without(domains, domain))
}

// Check returns ErrNotAllowed unless target lies under an allowed domain.
func (l *List) Check(target string) error {
	domains, err := l.Domains()
	if err != nil {
		return err
	}
	for _, d := range domains {
		if ok, _ := doublestar.Match(Pattern(d), target); ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotAllowed, target)
}

func (l *List) save(domains []string) error {
	raw, err := json.Marshal(domains)
	if err != nil {
		return err
	}
	return l.store.Set(storeKey, raw)
}
