package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NavalkishorG/Backend-getquote/internal/crypto"
	"github.com/NavalkishorG/Backend-getquote/internal/store"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// CredentialResolver turns a verified user id into decrypted portal
// credentials.
type CredentialResolver struct {
	store     store.CredentialStore
	encryptor *crypto.Encryptor
	logger    *slog.Logger
}

// NewCredentialResolver creates a resolver over a credential store and the
// at-rest encryptor.
func NewCredentialResolver(st store.CredentialStore, enc *crypto.Encryptor, logger *slog.Logger) *CredentialResolver {
	return &CredentialResolver{
		store:     st,
		encryptor: enc,
		logger:    logger.With("component", "credential_resolver"),
	}
}

// Resolve looks up and decrypts a user's portal login. A user without
// stored credentials gets types.ErrNoCredentials.
func (r *CredentialResolver) Resolve(ctx context.Context, userID string) (types.Credentials, error) {
	stored, err := r.store.Credential(ctx, userID)
	if err != nil {
		return types.Credentials{}, err
	}

	password, err := r.encryptor.Decrypt(stored.PasswordEncrypted)
	if err != nil {
		return types.Credentials{}, fmt.Errorf("decrypt credentials for %s: %w", userID, err)
	}

	creds := types.Credentials{Email: stored.Email, Password: password}
	if creds.Empty() {
		return types.Credentials{}, types.ErrNoCredentials
	}
	r.logger.Debug("credentials resolved", "user_id", userID, "email", stored.Email)
	return creds, nil
}
