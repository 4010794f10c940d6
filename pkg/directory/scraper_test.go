package directory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stackswitch/cli/internal/horizon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeFetcher struct {
	FetchFunc func(ctx context.Context, url string) ([]byte, error)
	calls     []string
}

func (f *FakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, url)
	}
	return []byte("<html></html>"), nil
}

const directoryPage = `<!DOCTYPE html>
<html><body>
<table id="tenants">
  <thead><tr><th></th><th>Name</th><th>Description</th></tr></thead>
  <tbody>
    <tr data-object-id="p-1"><td><input type="checkbox"></td><td><a href="#"> Networking </a></td><td>Shared network config</td></tr>
    <tr data-object-id="p-2"><td></td><td>Storage</td><td></td></tr>
    <tr data-object-id="p-3"><td></td><td>   </td><td>no name here</td></tr>
    <tr data-object-id="p-4"><td></td><td>Compute</td><td>Hypervisors
    and flavors</td></tr>
    <tr class="empty"><td colspan="3">footer</td></tr>
  </tbody>
</table>
</body></html>`

func TestParse_DropsRowsWithoutName(t *testing.T) {
	records, err := Parse(strings.NewReader(directoryPage), DefaultLayout)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, Record{ID: "p-1", Name: "Networking", Description: "Shared network config"}, records[0])
	assert.Equal(t, Record{ID: "p-2", Name: "Storage", Description: ""}, records[1])
	assert.Equal(t, "p-4", records[2].ID)
	assert.Equal(t, "Compute", records[2].Name)
}

func TestParse_EmptyDirectory(t *testing.T) {
	records, err := Parse(strings.NewReader(`<html><body><table></table></body></html>`), DefaultLayout)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestParse_SkipsBlankIDsAndDuplicates(t *testing.T) {
	page := `<table>
<tr data-object-id=""><td></td><td>Ghost</td></tr>
<tr data-object-id="a"><td></td><td>First</td></tr>
<tr data-object-id="a"><td></td><td>Second</td></tr>
</table>`
	records, err := Parse(strings.NewReader(page), DefaultLayout)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "First", records[0].Name)
}

func TestParse_CustomLayout(t *testing.T) {
	page := `<table>
<tr data-project="x1"><td>Alpha</td><td>first project</td></tr>
<tr data-project="x2"><td>Beta</td></tr>
</table>`
	layout := Layout{RowAttribute: "data-project", NameColumn: 0, DescriptionColumn: 1}
	records, err := Parse(strings.NewReader(page), layout)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first project", records[0].Description)
	assert.Equal(t, "", records[1].Description)
}

func TestLayoutForVersion(t *testing.T) {
	l, err := LayoutForVersion("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout, l)

	l, err = LayoutForVersion("23.1.0")
	require.NoError(t, err)
	assert.Equal(t, 1, l.NameColumn)

	l, err = LayoutForVersion("11.2.0")
	require.NoError(t, err)
	assert.Equal(t, 0, l.NameColumn)
	assert.Equal(t, 1, l.DescriptionColumn)

	_, err = LayoutForVersion("banana")
	assert.ErrorContains(t, err, "invalid console version")
}

func TestLayoutWithColumns(t *testing.T) {
	l := DefaultLayout.WithColumns(3, -1)
	assert.Equal(t, 3, l.NameColumn)
	assert.Equal(t, 2, l.DescriptionColumn)
}

func TestScrape_FetchesDirectoryOfActiveConsole(t *testing.T) {
	fetcher := &FakeFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return []byte(directoryPage), nil
		},
	}
	captured := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s := NewScraper(fetcher, DefaultLayout, nil)
	s.now = func() time.Time { return captured }

	snap, err := s.Scrape(context.Background(), "https://cloud.example/dashboard/project/instances/")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://cloud.example/dashboard/identity/"}, fetcher.calls)
	assert.Len(t, snap.Records, 3)
	assert.Equal(t, captured, snap.CapturedAt)
}

func TestScrape_WrapsTransportErrors(t *testing.T) {
	fetcher := &FakeFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return nil, errors.New("connection refused")
		},
	}
	s := NewScraper(fetcher, DefaultLayout, nil)

	_, err := s.Scrape(context.Background(), "https://cloud.example/horizon/")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "https://cloud.example/horizon/identity/", fe.URL)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestScrape_KeepsFetchErrorFromFetcher(t *testing.T) {
	fetcher := &FakeFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return nil, &FetchError{URL: url, StatusCode: 403}
		},
	}
	s := NewScraper(fetcher, DefaultLayout, nil)

	_, err := s.Scrape(context.Background(), "https://cloud.example/horizon/")
	assert.ErrorContains(t, err, "unexpected status 403")
}

func TestScrape_NoActivePage(t *testing.T) {
	fetcher := &FakeFetcher{}
	s := NewScraper(fetcher, DefaultLayout, nil)

	_, err := s.Scrape(context.Background(), "")
	assert.ErrorIs(t, err, horizon.ErrNoActivePage)
	assert.Empty(t, fetcher.calls)
}
