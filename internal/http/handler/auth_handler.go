package handler

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/samlehman617/HeyImHungry/internal/domain"
	"github.com/samlehman617/HeyImHungry/internal/http/middleware"
	"github.com/samlehman617/HeyImHungry/internal/service"
)

// AuthHandler orchestrates the direct API and delegated OAuth endpoints.
type AuthHandler struct {
	Auth      *service.AuthService
	Exchange  *service.ExchangeService
	Discovery *service.DiscoveryService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService, exchange *service.ExchangeService, discovery *service.DiscoveryService) *AuthHandler {
	return &AuthHandler{Auth: auth, Exchange: exchange, Discovery: discovery}
}

// Login authenticates via username/password or an existing token and returns
// a fresh access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid login request."})
		return
	}

	resp, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// One answer for every authentication failure.
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_credentials", "error_description": "Wrong username or password."})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register creates a new account via the direct API.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid registration request."})
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "error_description": "Username already taken."})
		return
	case errors.Is(err, domain.ErrMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid registration request."})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
		return
	}

	c.Header("Location", "/api/login")
	c.JSON(http.StatusCreated, gin.H{"username": user.Username})
}

// Me returns the identity resolved by the bearer guard.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_token", "error_description": "Identity not resolved."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
<form method="post">
  <label>Username <input type="text" name="username"></label>
  <label>Password <input type="password" name="password"></label>
  <button type="submit">Sign in</button>
</form>
</body>
</html>
`

// DelegatedLoginPage serves the login form. The client id was already
// validated by the guard.
func (h *AuthHandler) DelegatedLoginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
}

// DelegatedLogin handles the interactive login and redirects back to the
// caller with an authorization code and the echoed state.
func (h *AuthHandler) DelegatedLogin(c *gin.Context) {
	result, err := h.Exchange.AuthorizeLogin(
		c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("password"),
		c.Query("redirect_uri"),
		c.Query("state"),
	)
	if err != nil {
		var oauthErr *service.OAuthError
		if errors.As(err, &oauthErr) && oauthErr.Code == "access_denied" {
			// Non-fatal: point the user back at the login form.
			c.Header("Location", loginURL(c))
			c.String(oauthErr.Status, oauthErr.Description)
			return
		}
		h.respondOAuthError(c, err)
		return
	}

	c.Redirect(http.StatusFound, result.RedirectURL)
}

// ExchangeToken redeems an authorization code or refresh token for new
// tokens.
func (h *AuthHandler) ExchangeToken(c *gin.Context) {
	resp, err := h.Exchange.Exchange(c.Request.Context(), service.ExchangeRequest{
		GrantType:    c.PostForm("grant_type"),
		ClientSecret: c.PostForm("client_secret"),
		Code:         c.PostForm("code"),
		RefreshToken: c.PostForm("refresh_token"),
	})
	if err != nil {
		h.respondOAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Metadata returns the authorization server discovery document.
func (h *AuthHandler) Metadata(c *gin.Context) {
	c.JSON(http.StatusOK, h.Discovery.Metadata(schemeOnly(c.Request), hostOnly(c.Request)))
}

func (h *AuthHandler) respondOAuthError(c *gin.Context, err error) {
	var oauthErr *service.OAuthError
	if errors.As(err, &oauthErr) {
		c.JSON(oauthErr.Status, gin.H{"error": oauthErr.Code, "error_description": oauthErr.Description})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
}

func loginURL(c *gin.Context) string {
	u := *c.Request.URL
	u.Scheme = ""
	u.Host = ""
	return u.String()
}

func schemeOnly(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme
}

func hostOnly(r *http.Request) string {
	host := r.Host
	if strings.Contains(host, ":") {
		if h, _, err := net.SplitHostPort(host); err == nil {
			return h
		}
	}
	return host
}
