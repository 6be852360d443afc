package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/NavalkishorG/Backend-getquote/internal/crypto"
	"github.com/NavalkishorG/Backend-getquote/internal/store"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func signToken(t *testing.T, secret, subject string, expiry time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyBearer(t *testing.T) {
	v := NewVerifier("test-secret")
	header := "Bearer " + signToken(t, "test-secret", "user-42", time.Hour)

	subject, err := v.VerifyBearer(header)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "user-42" {
		t.Errorf("subject = %q", subject)
	}
}

func TestVerifyBearerRejections(t *testing.T) {
	v := NewVerifier("test-secret")

	if _, err := v.VerifyBearer(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("empty header = %v, want ErrMissingToken", err)
	}
	if _, err := v.VerifyBearer("Token abc"); !errors.Is(err, ErrMissingToken) {
		t.Errorf("non-bearer scheme = %v, want ErrMissingToken", err)
	}

	wrongSecret := "Bearer " + signToken(t, "other-secret", "user-42", time.Hour)
	if _, err := v.VerifyBearer(wrongSecret); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret = %v, want ErrInvalidToken", err)
	}

	expired := "Bearer " + signToken(t, "test-secret", "user-42", -time.Hour)
	if _, err := v.VerifyBearer(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token = %v, want ErrInvalidToken", err)
	}
}

type fakeCredentialStore struct {
	creds map[string]*store.StoredCredential
}

func (s *fakeCredentialStore) Credential(_ context.Context, userID string) (*store.StoredCredential, error) {
	if c, ok := s.creds[userID]; ok {
		return c, nil
	}
	return nil, types.ErrNoCredentials
}

func TestResolveDecryptsPassword(t *testing.T) {
	enc, err := crypto.NewEncryptor(crypto.DeriveKeyFromSecret("key-secret"))
	if err != nil {
		t.Fatalf("encryptor: %v", err)
	}
	encrypted, err := enc.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	resolver := NewCredentialResolver(&fakeCredentialStore{creds: map[string]*store.StoredCredential{
		"user-42": {UserID: "user-42", Email: "x@example.com", PasswordEncrypted: encrypted},
	}}, enc, testLogger)

	creds, err := resolver.Resolve(context.Background(), "user-42")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if creds.Email != "x@example.com" || creds.Password != "hunter2" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestResolveUnknownUser(t *testing.T) {
	enc, _ := crypto.NewEncryptor(crypto.DeriveKeyFromSecret("key-secret"))
	resolver := NewCredentialResolver(&fakeCredentialStore{}, enc, testLogger)

	_, err := resolver.Resolve(context.Background(), "nobody")
	if !errors.Is(err, types.ErrNoCredentials) {
		t.Errorf("unknown user = %v, want ErrNoCredentials", err)
	}
}
