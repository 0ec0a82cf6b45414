package memory

import (
	"context"
	"sync"

	"github.com/mcoot/highscores-go/internal/model"
	"github.com/mcoot/highscores-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	credential *model.Credential
	scores     []model.ScoreRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	c := *cred
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = &c
	return nil
}

func (s *Storage) GetCredential(ctx context.Context) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.credential == nil {
		return nil, model.ErrCredentialNotFound
	}
	c := *s.credential
	return &c, nil
}

// Score operations

func (s *Storage) AppendScore(ctx context.Context, record model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, record)
	return nil
}

func (s *Storage) ListScores(ctx context.Context, level string) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.ScoreRecord, 0)
	for _, r := range s.scores {
		if r.Level == level {
			result = append(result, r)
		}
	}
	return result, nil
}
