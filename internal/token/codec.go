package token

import (
	"strconv"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/samlehman617/HeyImHungry/internal/domain"
)

// Codec signs and verifies compact bearer tokens. A token carries only the
// subject identity and an expiry, signed with the process-wide secret loaded
// at startup. Tokens are self-contained; nothing is persisted.
type Codec struct {
	secret    []byte
	accessTTL time.Duration
}

// NewCodec builds a codec around the signing secret. accessTTL is the default
// validity used for access tokens and authorization codes.
func NewCodec(secret []byte, accessTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL}
}

// AccessTTL exposes the default token validity.
func (c *Codec) AccessTTL() time.Duration {
	return c.accessTTL
}

// Issue signs a token for the subject, valid for ttl from now.
func (c *Codec) Issue(subjectID int64, ttl time.Duration) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: c.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	claims := gojwt.Claims{
		Subject:  strconv.FormatInt(subjectID, 10),
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(ttl)),
	}

	return gojwt.Signed(signer).Claims(claims).Serialize()
}

// IssueAccess signs a token with the default validity.
func (c *Codec) IssueAccess(subjectID int64) (string, error) {
	return c.Issue(subjectID, c.accessTTL)
}

// Verify checks the signature before looking at expiry, so a tampered payload
// is never reported as merely expired. Returns the subject id on success,
// domain.ErrTokenInvalid on signature or format failures, and
// domain.ErrTokenExpired for a well-signed token past its expiry.
func (c *Codec) Verify(token string) (int64, error) {
	parsed, err := gojwt.ParseSigned(token, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return 0, domain.ErrTokenInvalid
	}

	var claims gojwt.Claims
	if err := parsed.Claims(c.secret, &claims); err != nil {
		return 0, domain.ErrTokenInvalid
	}

	// A token without an expiry claim was never issued here; it is malformed,
	// not expired.
	if claims.Expiry == nil {
		return 0, domain.ErrTokenInvalid
	}
	if !time.Now().Before(claims.Expiry.Time()) {
		return 0, domain.ErrTokenExpired
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subjectID <= 0 {
		return 0, domain.ErrTokenInvalid
	}

	return subjectID, nil
}
