package allowlist

import (
	"testing"

	"github.com/stackswitch/cli/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		wantErr  bool
	}{
		{"https://cloud.example", "https://cloud.example/", false},
		{"  https://cloud.example/  ", "https://cloud.example/", false},
		{"http://10.0.0.5:8080/dashboard", "http://10.0.0.5:8080/dashboard/", false},
		{"cloud.example", "", true},
		{"ftp://cloud.example", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAddListRemove(t *testing.T) {
	l := New(store.NewMemoryStore())

	domains, err := l.Domains()
	require.NoError(t, err)
	assert.Empty(t, domains)

	d, err := l.Add("https://cloud.example")
	require.NoError(t, err)
	assert.Equal(t, "https://cloud.example/", d)

	_, err = l.Add("https://cloud.example/")
	require.NoError(t, err)
	_, err = l.Add("https://other.example")
	require.NoError(t, err)

	domains, err = l.Domains()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cloud.example/", "https://other.example/"}, domains)

	require.NoError(t, l.Remove("https://cloud.example"))
	require.NoError(t, l.Remove("https://never.example"))

	domains, err = l.Domains()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://other.example/"}, domains)
}

func TestAddRejectsBadInput(t *testing.T) {
	l := New(store.NewMemoryStore())
	_, err := l.Add("cloud.example")
	assert.ErrorContains(t, err, "full URL")
}

func TestCheck(t *testing.T) {
	l := New(store.NewMemoryStore())
	_, err := l.Add("https://cloud.example")
	require.NoError(t, err)
	_, err = l.Add("https://*.region.example")
	require.NoError(t, err)

	tests := []struct {
		target  string
		allowed bool
	}{
		{"https://cloud.example/horizon/identity/", true},
		{"https://cloud.example/dashboard/identity/", true},
		{"https://east.region.example/horizon/identity/", true},
		{"http://cloud.example/horizon/identity/", false},
		{"https://cloud.example.evil.test/horizon/identity/", false},
		{"https://region.example/horizon/identity/", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			err := l.Check(tt.target)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrNotAllowed)
			}
		})
	}
}

func TestCheckEmptyList(t *testing.T) {
	l := New(store.NewMemoryStore())
	assert.ErrorIs(t, l.Check("https://cloud.example/horizon/identity/"), ErrNotAllowed)
}
