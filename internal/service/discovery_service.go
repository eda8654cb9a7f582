package service

import "fmt"

// DiscoveryService builds responses for discovery endpoints.
type DiscoveryService struct{}

// AuthorizationServerMetadata matches the RFC 8414 discovery document.
type AuthorizationServerMetadata struct {
	Issuer                   string   `json:"issuer"`
	AuthorizationEndpoint    string   `json:"authorization_endpoint"`
	TokenEndpoint            string   `json:"token_endpoint"`
	GrantTypesSupported      []string `json:"grant_types_supported"`
	ResponseTypesSupported   []string `json:"response_types_supported"`
	TokenEndpointAuthMethods []string `json:"token_endpoint_auth_methods_supported"`
}

// Metadata builds the discovery document using the request host.
func (s *DiscoveryService) Metadata(scheme, host string) AuthorizationServerMetadata {
	issuer := fmt.Sprintf("%s://%s", scheme, host)
	return AuthorizationServerMetadata{
		Issuer:                   issuer,
		AuthorizationEndpoint:    fmt.Sprintf("%s/oauth/login", issuer),
		TokenEndpoint:            fmt.Sprintf("%s/oauth/exchange", issuer),
		GrantTypesSupported:      []string{"authorization_code", "refresh_token"},
		ResponseTypesSupported:   []string{"code"},
		TokenEndpointAuthMethods: []string{"client_secret_post"},
	}
}
