package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSessionLifecycle(t *testing.T) {
	keyring.MockInit()
	s := NewStore()

	_, ok, err := s.Get("https://cloud.example")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("https://cloud.example/", " sessionid=abc; csrftoken=def "))

	cookie, ok, err := s.Get("https://cloud.example")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sessionid=abc; csrftoken=def", cookie)

	require.NoError(t, s.Clear("https://cloud.example"))
	require.NoError(t, s.Clear("https://cloud.example"))

	_, ok, err = s.Get("https://cloud.example")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetValidates(t *testing.T) {
	keyring.MockInit()
	s := NewStore()
	assert.ErrorContains(t, s.Set("", "sessionid=abc"), "origin is required")
	assert.ErrorContains(t, s.Set("https://cloud.example", "  "), "cookie is required")
}
