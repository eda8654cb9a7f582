package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samlehman617/HeyImHungry/internal/domain"
	pw "github.com/samlehman617/HeyImHungry/internal/password"
	"github.com/samlehman617/HeyImHungry/internal/repository"
	"github.com/samlehman617/HeyImHungry/internal/token"
)

// AuthService resolves presented credentials to identities and owns the
// direct login/registration flows. Resolution is read-only; Register is the
// only write path.
type AuthService struct {
	users     repository.UserRepository
	codec     *token.Codec
	snowflake *snowflake.Node
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, codec *token.Codec, node *snowflake.Node, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		codec:     codec,
		snowflake: node,
		logger:    logger,
		tracer:    otel.Tracer("github.com/samlehman617/HeyImHungry/internal/service"),
	}
}

// Resolve maps a presented credential to an identity. The credential is first
// treated as a bearer token; only when the token path fails is it treated as
// a username to be checked against the password. A currently valid token
// therefore wins regardless of any accompanying password. Every failure
// surfaces uniformly as domain.ErrNotFound.
func (s *AuthService) Resolve(ctx context.Context, credential, password string) (domain.User, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Resolve")
	defer span.End()

	if credential == "" {
		return domain.User{}, domain.ErrNotFound
	}

	if subjectID, err := s.codec.Verify(credential); err == nil {
		user, err := s.users.GetByID(ctx, subjectID)
		if err != nil {
			// The subject no longer exists; same answer as a bad credential.
			return domain.User{}, domain.ErrNotFound
		}
		return user, nil
	}

	user, err := s.users.GetByUsername(ctx, credential)
	if err != nil {
		return domain.User{}, domain.ErrNotFound
	}
	if !pw.Verify(password, user.PasswordHash) {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

// Login resolves the credential and issues a fresh access token.
func (s *AuthService) Login(ctx context.Context, usernameOrToken, password string) (*LoginResponse, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.Resolve(ctx, usernameOrToken, password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	issued, err := s.codec.IssueAccess(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	s.audit("login.success", "user_id", user.ID)
	return &LoginResponse{
		Token:     issued,
		ExpiresIn: int(s.codec.AccessTTL().Seconds()),
	}, nil
}

// Register creates a new identity. Duplicate usernames surface as
// domain.ErrConflict; the uniqueness race is settled by the store, not here.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, domain.ErrMalformed
	}

	hashed, err := pw.Hash(password)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		ID:           s.snowflake.Generate().Int64(),
		Username:     username,
		PasswordHash: hashed,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			span.RecordError(err)
		}
		return domain.User{}, err
	}

	s.audit("register.success", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
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

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
