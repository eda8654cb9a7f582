package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samlehman617/HeyImHungry/internal/client"
	"github.com/samlehman617/HeyImHungry/internal/token"
)

// ExchangeService implements the delegated authorization flow: interactive
// login producing a redirect with an authorization code, and the grant
// exchange minting access/refresh token pairs. It is stateless across calls;
// every call is self-contained given its bearer credential.
type ExchangeService struct {
	auth       *AuthService
	clients    *client.Registry
	codec      *token.Codec
	refreshTTL time.Duration
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewExchangeService wires dependencies.
func NewExchangeService(auth *AuthService, clients *client.Registry, codec *token.Codec, refreshTTL time.Duration, logger *zap.Logger) *ExchangeService {
	return &ExchangeService{
		auth:       auth,
		clients:    clients,
		codec:      codec,
		refreshTTL: refreshTTL,
		logger:     logger,
		tracer:     otel.Tracer("github.com/samlehman617/HeyImHungry/internal/service"),
	}
}

// AuthorizeLogin handles the interactive delegated login. Bad credentials are
// a non-fatal, user-facing failure; a redirect target outside the registered
// project is a fatal bad request. On success one authorization code is issued
// and delivered via redirect, with the caller's opaque state echoed back
// unchanged.
func (s *ExchangeService) AuthorizeLogin(ctx context.Context, username, password, redirectURI, state string) (*AuthorizeResult, error) {
	ctx, span := s.startSpan(ctx, "ExchangeService.AuthorizeLogin")
	defer span.End()

	user, err := s.auth.Resolve(ctx, username, password)
	if err != nil {
		return nil, newOAuthError("access_denied", "Invalid username or password. Please try again.", http.StatusBadRequest)
	}

	if !s.clients.ValidRedirectProject(redirectURI) {
		return nil, newOAuthError("invalid_request", "redirect target does not belong to the registered project.", http.StatusBadRequest)
	}

	code, err := s.codec.IssueAccess(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue authorization code: %w", err)
	}

	target, err := url.Parse(redirectURI)
	if err != nil {
		return nil, newOAuthError("invalid_request", "redirect target is not a valid URL.", http.StatusBadRequest)
	}
	q := target.Query()
	q.Set("code", code)
	q.Set("state", state)
	target.RawQuery = q.Encode()

	s.audit("delegated_login.success", "user_id", user.ID)
	return &AuthorizeResult{RedirectURL: target.String()}, nil
}

// Exchange redeems an authorization code or refresh token. The supplied
// credential is resolved exactly like a bearer token; which tokens are minted
// depends on the grant.
func (s *ExchangeService) Exchange(ctx context.Context, req ExchangeRequest) (*TokenResponse, error) {
	ctx, span := s.startSpan(ctx, "ExchangeService.Exchange")
	defer span.End()

	if !s.clients.ValidClientSecret(req.ClientSecret) {
		return nil, newOAuthError("invalid_grant", "Client secret mismatch.", http.StatusBadRequest)
	}

	// Grant names match exactly; "Authorization_Code" is not a grant we know.
	var credential string
	var withRefresh bool
	switch req.GrantType {
	case "authorization_code":
		credential = req.Code
		withRefresh = true
	case "refresh_token":
		credential = req.RefreshToken
	default:
		return nil, newOAuthError("unsupported_grant_type", "Unsupported grant type.", http.StatusBadRequest)
	}

	user, err := s.auth.Resolve(ctx, credential, "")
	if err != nil {
		return nil, newOAuthError("invalid_grant", "Invalid or expired grant.", http.StatusBadRequest)
	}

	access, err := s.codec.IssueAccess(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	resp := &TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.codec.AccessTTL().Seconds()),
	}

	// Only the authorization-code grant hands out a refresh token; renewal
	// keeps the one the client already holds.
	if withRefresh {
		refresh, err := s.codec.Issue(user.ID, s.refreshTTL)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("issue refresh token: %w", err)
		}
		resp.RefreshToken = refresh
	}

	s.audit("exchange.success", "user_id", user.ID, "grant_type", req.GrantType)
	return resp, nil
}

func (s *ExchangeService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *ExchangeService) audit(event string, attrs ...any) {
	logger := s.logger
	if logger == nil {
		logger = zap.L()
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}
