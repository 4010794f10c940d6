package switcher

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/stackswitch/cli/pkg/directory"
)

// Resolve finds the project ref refers to: an exact id, else a
// case-insensitive exact name, else a unique case-insensitive name prefix.
func Resolve(records []directory.Record, ref string) (directory.Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return directory.Record{}, fmt.Errorf("%w: empty reference", ErrUnknownProject)
	}
	if r, ok := lo.Find(records, func(r directory.Record) bool { return r.ID == ref }); ok {
		return r, nil
	}

	lower := strings.ToLower(ref)
	byName := lo.Filter(records, func(r directory.Record, _ int) bool {
		return strings.ToLower(r.Name) == lower
	})
	if len(byName) == 0 {
		byName = lo.Filter(records, func(r directory.Record, _ int) bool {
			return strings.HasPrefix(strings.ToLower(r.Name), lower)
		})
	}

	switch len(byName) {
	case 0:
		return directory.Record{}, fmt.Errorf("%w: %q", ErrUnknownProject, ref)
	case 1:
		return byName[0], nil
	default:
		names := lo.Map(byName, func(r directory.Record, _ int) string { return r.Name })
		return directory.Record{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, ref, strings.Join(names, ", "))
	}
}
