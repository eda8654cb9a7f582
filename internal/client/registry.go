package client

import (
	"crypto/subtle"
	"strings"

	"github.com/samlehman617/HeyImHungry/internal/domain"
)

// Registry validates the single registered OAuth client. All checks are exact
// comparisons against static configuration; nothing is corrected silently.
type Registry struct {
	client domain.OAuthClient
}

// NewRegistry builds a registry from the configured client descriptor.
func NewRegistry(client domain.OAuthClient) *Registry {
	return &Registry{client: client}
}

// ValidClientID reports whether the presented client id matches the
// registered one.
func (r *Registry) ValidClientID(presented string) bool {
	return presented != "" && presented == r.client.ClientID
}

// ValidClientSecret compares the presented secret in constant time.
func (r *Registry) ValidClientSecret(presented string) bool {
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(r.client.ClientSecret)) == 1
}

// ValidRedirectProject checks that the trailing path segment of the redirect
// target equals the registered project id.
func (r *Registry) ValidRedirectProject(redirectURI string) bool {
	if redirectURI == "" {
		return false
	}
	segments := strings.Split(redirectURI, "/")
	return segments[len(segments)-1] == r.client.ProjectID
}
