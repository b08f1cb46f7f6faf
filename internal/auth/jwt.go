// Package auth verifies the groupware's bearer tokens and stores the LLM
// provider credentials used by the CLI.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing = errors.New("auth: token missing")
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// OrgAuthority is the caller's membership in one organization.
type OrgAuthority struct {
	OrgID    int64  `json:"orgId"`
	MemberID int64  `json:"memberId"`
	Role     string `json:"role"`
}

// Claims are the groupware access-token claims.
type Claims struct {
	UserID           int64          `json:"userId"`
	Email            string         `json:"email,omitempty"`
	OrgAuthorityList []OrgAuthority `json:"orgAuthorityList"`
	jwt.RegisteredClaims
}

// MemberIDFor returns the caller's member ID in orgID.
func (c *Claims) MemberIDFor(orgID int64) (int64, bool) {
	for _, a := range c.OrgAuthorityList {
		if a.OrgID == orgID {
			return a.MemberID, true
		}
	}
	return 0, false
}

// Verifier checks HS512 tokens signed with the groupware's secret.
type Verifier struct {
	key    []byte
	parser *jwt.Parser
}

// NewVerifier decodes the base64 secret shared with the groupware backend.
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("auth: JWT secret is empty")
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		if key, err = base64.RawStdEncoding.DecodeString(secret); err != nil {
			return nil, fmt.Errorf("auth: decoding JWT secret: %w", err)
		}
	}
	return &Verifier{
		key: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
			jwt.WithLeeway(30*time.Second),
		),
	}, nil
}

// Verify parses token, which may carry a "Bearer " prefix. Expired tokens
// fail with ErrTokenExpired, every other rejection with ErrTokenInvalid.
func (v *Verifier) Verify(token string) (*Claims, error) {
	token = BearerToken(token)
	if token == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}

// Sign issues a token for claims. The groupware backend is the real
// issuer; this serves the CLI and tests.
func (v *Verifier) Sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(v.key)
}

// BearerToken strips an optional "Bearer " scheme from an Authorization
// header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= 6 && strings.EqualFold(header[:6], "bearer") && (len(header) == 6 || header[6] == ' ') {
		return strings.TrimSpace(header[6:])
	}
	return header
}
