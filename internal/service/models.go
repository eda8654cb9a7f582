package service

// TokenResponse matches OAuth token endpoint responses.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginResponse is returned by the direct API login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// AuthorizeResult carries the redirect destination of a successful delegated
// login, with the authorization code and echoed state already encoded.
type AuthorizeResult struct {
	RedirectURL string
}

// ExchangeRequest is the request-scoped payload of the exchange endpoint.
type ExchangeRequest struct {
	GrantType    string
	ClientSecret string
	Code         string
	RefreshToken string
}
