package storage

import (
	"context"

	"github.com/mcoot/highscores-go/internal/model"
)

// CredentialStore holds the single registered credential
type CredentialStore interface {
	// SaveCredential replaces the stored credential
	SaveCredential(ctx context.Context, cred *model.Credential) error
	// GetCredential returns model.ErrCredentialNotFound if nothing is registered
	GetCredential(ctx context.Context) (*model.Credential, error)
}

// ScoreStore is an append-only log of score records
type ScoreStore interface {
	AppendScore(ctx context.Context, record model.ScoreRecord) error
	// ListScores returns the records for a level in insertion order
	ListScores(ctx context.Context, level string) ([]model.ScoreRecord, error)
}

// Storage defines the interface for data persistence
type Storage interface {
	CredentialStore
	ScoreStore
}
