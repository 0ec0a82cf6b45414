package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/highscores-go/internal/model"
	"github.com/mcoot/highscores-go/internal/services/token"
	"github.com/mcoot/highscores-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles registration of the single account and login
type Service struct {
	store  storage.CredentialStore
	hasher *Hasher
	tokens *token.Service
	logger *slog.Logger
}

// New creates a new auth Service
func New(store storage.CredentialStore, hasher *Hasher, tokens *token.Service, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register replaces the stored credential with handle/password.
// Invalid input is rejected before anything is written.
func (s *Service) Register(ctx context.Context, handle, password string) error {
	if err := model.ValidateCredential(handle, password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	if err := s.store.SaveCredential(ctx, &model.Credential{Handle: handle, PasswordHash: hash}); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}

	s.logger.Info("account registered", slog.String("handle", handle))
	return nil
}

// CheckCredentials reports whether handle/password match the stored credential
func (s *Service) CheckCredentials(ctx context.Context, handle, password string) (bool, error) {
	cred, err := s.store.GetCredential(ctx)
	if err != nil {
		if errors.Is(err, model.ErrCredentialNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load credential: %w", err)
	}

	if handle != cred.Handle {
		return false, nil
	}

	return s.hasher.Verify(password, cred.PasswordHash)
}

// Login checks the credentials and issues a token for handle
func (s *Service) Login(ctx context.Context, handle, password string) (string, error) {
	ok, err := s.CheckCredentials(ctx, handle, password)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Debug("login rejected", slog.String("handle", handle))
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(handle)
}
