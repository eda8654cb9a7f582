package domain

// OAuthClient is the static registered descriptor of the third-party caller.
// It is configuration, never mutated at runtime.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
	ProjectID    string
}
