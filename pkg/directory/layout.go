package directory

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Layout describes where project data sits in the directory table. Horizon
// releases and themes have moved columns around, so positions are data.
type Layout struct {
	// RowAttribute marks a table row as a project and holds its id
	RowAttribute string
	// NameColumn and DescriptionColumn are zero-based <td> indexes
	NameColumn        int
	DescriptionColumn int
}

// DefaultLayout matches the stock identity/projects table: a checkbox column,
// then name, then description.
var DefaultLayout = Layout{
	RowAttribute:      "data-object-id",
	NameColumn:        1,
	DescriptionColumn: 2,
}

type versionedLayout struct {
	constraint string
	layout     Layout
}

// Known layouts by console version. The first matching constraint wins.
var versionedLayouts = []versionedLayout{
	// Releases before Pike render the table without the batch-action checkbox column.
	{constraint: "< 12.0.0", layout: Layout{RowAttribute: "data-object-id", NameColumn: 0, DescriptionColumn: 1}},
	{constraint: ">= 12.0.0", layout: DefaultLayout},
}

// LayoutForVersion returns the table layout for a console version such as
// "23.1.0". An empty version yields DefaultLayout.
func LayoutForVersion(version string) (Layout, error) {
	if version == "" {
		return DefaultLayout, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return Layout{}, fmt.Errorf("invalid console version %q: %w", version, err)
	}
	for _, vl := range versionedLayouts {
		c, err := semver.NewConstraint(vl.constraint)
		if err != nil {
			return Layout{}, err
		}
		if c.Check(v) {
			return vl.layout, nil
		}
	}
	return DefaultLayout, nil
}

// WithColumns returns a copy of l with the given column overrides applied.
// Negative values leave the corresponding column unchanged.
func (l Layout) WithColumns(name, description int) Layout {
	if name >= 0 {
		l.NameColumn = name
	}
	if description >= 0 {
		l.DescriptionColumn = description
	}
	return l
}
