package host

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/stackswitch/cli/pkg/store"
)

const activePageKey = "active_page"

// Locator knows which console page the user is working on. An explicitly
// given URL wins over the one remembered from the previous run.
type Locator struct {
	explicit []string
	store    store.Store
}

// NewLocator returns a Locator preferring the first non-empty candidate
// (flag, environment, config file) over the remembered page.
func NewLocator(s store.Store, candidates ...string) *Locator {
	return &Locator{explicit: candidates, store: s}
}

// ActivePage returns the current console page URL, or "" if none is known.
func (l *Locator) ActivePage(ctx context.Context) (string, error) {
	if u := strings.TrimSpace(lo.CoalesceOrEmpty(lo.Map(l.explicit, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})...)); u != "" {
		return u, nil
	}
	if l.store == nil {
		return "", nil
	}
	raw, ok, err := l.store.Get(activePageKey)
	if err != nil || !ok {
		return "", err
	}
	var u string
	if err := json.Unmarshal(raw, &u); err != nil {
		return "", fmt.Errorf("failed to read remembered page: %w", err)
	}
	return u, nil
}

// Remember stores pageURL as the page to use when none is given.
func (l *Locator) Remember(pageURL string) error {
	if l.store == nil || strings.TrimSpace(pageURL) == "" {
		return nil
	}
	raw, err := json.Marshal(strings.TrimSpace(pageURL))
	if err != nil {
		return err
	}
	return l.store.Set(activePageKey, raw)
}
