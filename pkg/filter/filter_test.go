package filter

import (
	"bytes"
	"testing"

	"github.com/stackswitch/cli/pkg/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projects = []directory.Record{
	{ID: "1", Name: "Networking", Description: "shared"},
	{ID: "2", Name: "Platform", Description: "owns the network config for edge"},
	{ID: "3", Name: "Storage", Description: "block and object"},
	{ID: "4", Name: "internet-gw", Description: ""},
}

func TestApply_PrefixOrDescription(t *testing.T) {
	res := Apply(projects, "net", Brackets)

	ids := []string{}
	for _, r := range res.Records() {
		ids = append(ids, r.ID)
	}
	// "internet-gw" contains "net" but does not start with it.
	assert.Equal(t, []string{"1", "2"}, ids)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, "2 / 4 projects", res.Counter())
}

func TestApply_NormalizesTerm(t *testing.T) {
	res := Apply(projects, "  NET ", Brackets)
	assert.Equal(t, "net", res.Term)
	assert.Equal(t, 2, res.Matched)
}

func TestApply_EmptyTermMatchesAll(t *testing.T) {
	res := Apply(projects, "", Brackets)
	require.Equal(t, 4, res.Matched)
	for i, m := range res.Matches {
		assert.Equal(t, projects[i].Name, m.Name)
		assert.Equal(t, projects[i].Description, m.Description)
	}
}

func TestApply_NoMatches(t *testing.T) {
	res := Apply(projects, "zzz", Brackets)
	assert.Empty(t, res.Matches)
	assert.Equal(t, "0 / 4 projects", res.Counter())
}

func TestApply_HighlightsMatchedFields(t *testing.T) {
	res := Apply(projects, "net", Brackets)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "[Net]working", res.Matches[0].Name)
	assert.Equal(t, "shared", res.Matches[0].Description)
	assert.Equal(t, "Platform", res.Matches[1].Name)
	assert.Equal(t, "owns the [net]work config for edge", res.Matches[1].Description)
}

func TestApply_HighlightsOnlyFieldsThatMatched(t *testing.T) {
	records := []directory.Record{
		{ID: "1", Name: "Internet", Description: "network edge"},
		{ID: "2", Name: "netops", Description: "planet"},
	}
	res := Apply(records, "net", Brackets)
	require.Len(t, res.Matches, 2)

	// Matched by description only: the name is left as is.
	assert.Equal(t, "Internet", res.Matches[0].Name)
	assert.Equal(t, "[net]work edge", res.Matches[0].Description)
	// Matched by name only.
	assert.Equal(t, "[net]ops", res.Matches[1].Name)
	assert.Equal(t, "planet", res.Matches[1].Description)
}

func TestApply_MatchAndHighlightAgreeOnCaseFolding(t *testing.T) {
	records := []directory.Record{
		{ID: "1", Name: "İstanbul", Description: ""},
		{ID: "2", Name: "Izmir", Description: ""},
	}
	res := Apply(records, "i", Brackets)

	for _, m := range res.Matches {
		assert.Contains(t, m.Name, "[", "matched name %q carries no highlight", m.Record.Name)
	}
	assert.Equal(t, []directory.Record{records[1]}, res.Records())
	assert.False(t, Matches(records[0], "i"))
	assert.True(t, Matches(records[1], "i"))
}

func TestApply_IsIdempotent(t *testing.T) {
	before := append([]directory.Record(nil), projects...)
	first := Apply(projects, "net", Brackets)
	second := Apply(projects, "net", Brackets)

	assert.Equal(t, first, second)
	assert.Equal(t, before, projects)
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		term     string
		expected string
	}{
		{"prefix", "Networking", "net", "[Net]working"},
		{"every occurrence", "net-a NET-b", "net", "[net]-a [NET]-b"},
		{"empty term", "Networking", "", "Networking"},
		{"no occurrence", "Storage", "net", "Storage"},
		{"regex metacharacters are literal", "cost (a+b) or ab", "(a+b)", "cost [(a+b)] or ab"},
		{"dot is literal", "v1x2 v1.2", "1.2", "v1x2 v[1.2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Highlight(tt.text, tt.term, Brackets))
		})
	}
}

func TestHighlight_HTMLEscapesMarkup(t *testing.T) {
	got := Highlight("<b>net</b> & co", "<b>", HTML)
	assert.Equal(t, "<mark>&lt;b&gt;</mark>net&lt;/b&gt; &amp; co", got)

	got = Highlight("Networking", "net", HTML)
	assert.Equal(t, "<mark>Net</mark>working", got)
}

func TestHighlight_TerminalKeepsText(t *testing.T) {
	got := Highlight("Networking", "", Terminal)
	assert.Equal(t, "Networking", got)

	got = Highlight("Networking", "net", Terminal)
	assert.Contains(t, got, "Net")
	assert.Contains(t, got, "working")
}

func TestForOutput(t *testing.T) {
	tests := []struct {
		name   string
		env    []string
		styled bool
		want   Marker
	}{
		{name: "piped", env: []string{"TERM=xterm-256color"}, styled: true, want: Brackets},
		{name: "terminal", env: []string{"TERM=xterm-256color", "TTY_FORCE=1"}, styled: true, want: Terminal},
		{name: "styling disabled", env: []string{"TERM=xterm-256color", "TTY_FORCE=1"}, styled: false, want: Brackets},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.want, ForOutput(&buf, tt.env, tt.styled))
		})
	}
}
