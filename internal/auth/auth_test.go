package auth

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("ourhour-test-secret-that-is-long-enough-for-hs512-signing-0123456789"))

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

func claimsExpiringIn(d time.Duration) *Claims {
	return &Claims{
		UserID: 7,
		Email:  "chulsoo@ourhour.io",
		OrgAuthorityList: []OrgAuthority{
			{OrgID: 1, MemberID: 11, Role: "ROOT_ADMIN"},
			{OrgID: 2, MemberID: 22, Role: "USER"},
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "chulsoo@ourhour.io",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(d)),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	v := newTestVerifier(t)
	token, err := v.Sign(claimsExpiringIn(time.Hour))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	for _, raw := range []string{token, "Bearer " + token, "bearer  " + token} {
		claims, err := v.Verify(raw)
		if err != nil {
			t.Fatalf("Verify(%q...): %v", raw[:10], err)
		}
		if claims.UserID != 7 {
			t.Errorf("UserID = %d, want 7", claims.UserID)
		}
		if id, ok := claims.MemberIDFor(2); !ok || id != 22 {
			t.Errorf("MemberIDFor(2) = (%d, %v), want (22, true)", id, ok)
		}
		if _, ok := claims.MemberIDFor(3); ok {
			t.Error("MemberIDFor(3) should not resolve")
		}
	}
}

func TestVerifyRejections(t *testing.T) {
	v := newTestVerifier(t)

	expired, _ := v.Sign(claimsExpiringIn(-time.Hour))

	other, err := NewVerifier(base64.StdEncoding.EncodeToString([]byte("a-different-secret-of-reasonable-length-for-testing-purposes")))
	if err != nil {
		t.Fatal(err)
	}
	foreign, _ := other.Sign(claimsExpiringIn(time.Hour))

	hs256, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsExpiringIn(time.Hour)).SignedString(v.key)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrTokenMissing},
		{"bearer only", "Bearer   ", ErrTokenMissing},
		{"expired", expired, ErrTokenExpired},
		{"wrong key", foreign, ErrTokenInvalid},
		{"wrong algorithm", hs256, ErrTokenInvalid},
		{"garbage", "not.a.jwt", ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewVerifierRejectsBadSecrets(t *testing.T) {
	for _, s := range []string{"", "   ", "%%%not-base64%%%"} {
		if _, err := NewVerifier(s); err == nil {
			t.Errorf("NewVerifier(%q) should fail", s)
		}
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Bearer abc", "abc"},
		{"BEARER abc ", "abc"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := BearerToken(tt.in); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func useTempCredentials(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	credentialDir = dir
	t.Cleanup(func() { credentialDir = "" })
	return dir
}

func TestCredentialsRoundTrip(t *testing.T) {
	dir := useTempCredentials(t)

	creds, err := Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if creds.Anthropic != nil || creds.OpenAI != nil {
		t.Fatal("expected empty credentials")
	}

	if err := creds.SetAPIKey("openai", "sk-stored"); err != nil {
		t.Fatal(err)
	}
	if err := creds.SetAPIKey("gemini", "x"); err == nil {
		t.Error("expected error for unknown provider")
	}
	if err := Save(creds); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "credentials.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.APIKey("openai"); got != "sk-stored" {
		t.Errorf("APIKey = %q, want sk-stored", got)
	}
}

func TestGetAPIKeyPrefersEnvironment(t *testing.T) {
	useTempCredentials(t)
	creds := &Credentials{}
	_ = creds.SetAPIKey("anthropic", "stored")
	if err := Save(creds); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "")
	if got := GetAPIKey("anthropic"); got != "stored" {
		t.Errorf("got %q, want stored", got)
	}
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	if got := GetAPIKey("anthropic"); got != "from-env" {
		t.Errorf("got %q, want from-env", got)
	}
	if got := GetAPIKey("ollama"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
