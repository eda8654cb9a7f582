package client_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samlehman617/HeyImHungry/internal/client"
	"github.com/samlehman617/HeyImHungry/internal/domain"
)

func newTestRegistry() *client.Registry {
	return client.NewRegistry(domain.OAuthClient{
		ClientID:     "google",
		ClientSecret: "thisisthegoogleclientsecret",
		ProjectID:    "hey-i-m-hungry",
	})
}

func TestValidClientID(t *testing.T) {
	registry := newTestRegistry()

	require.True(t, registry.ValidClientID("google"))
	require.False(t, registry.ValidClientID("Google"))
	require.False(t, registry.ValidClientID("github"))
	require.False(t, registry.ValidClientID(""))
}

func TestValidClientSecret(t *testing.T) {
	registry := newTestRegistry()

	require.True(t, registry.ValidClientSecret("thisisthegoogleclientsecret"))
	require.False(t, registry.ValidClientSecret("thisisthegoogleclientsecret "))
	require.False(t, registry.ValidClientSecret("wrong"))
	require.False(t, registry.ValidClientSecret(""))
}

func TestValidRedirectProject(t *testing.T) {
	registry := newTestRegistry()

	require.True(t, registry.ValidRedirectProject("https://client.example/apps/hey-i-m-hungry"))
	require.True(t, registry.ValidRedirectProject("hey-i-m-hungry"))
	require.False(t, registry.ValidRedirectProject("https://client.example/apps/hey-i-m-hungry/"))
	require.False(t, registry.ValidRedirectProject("https://client.example/apps/other-project"))
	require.False(t, registry.ValidRedirectProject(""))
}
