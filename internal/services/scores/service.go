// Package scores accepts posted high scores and serves ranked, paginated views of them.
package scores

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/highscores-go/internal/model"
	"github.com/mcoot/highscores-go/internal/services/token"
	"github.com/mcoot/highscores-go/internal/storage"
)

// Recorder observes accepted submissions
type Recorder interface {
	ScoreSubmitted(level string)
}

type nopRecorder struct{}

func (nopRecorder) ScoreSubmitted(string) {}

// Service handles score submission and ranked queries
type Service struct {
	store    storage.ScoreStore
	recorder Recorder
	logger   *slog.Logger
}

// New creates a new scores Service. recorder may be nil.
func New(store storage.ScoreStore, recorder Recorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

// Submit appends record on behalf of the authenticated caller.
// The record's handle is not required to match the caller.
func (s *Service) Submit(ctx context.Context, claims *token.Claims, record model.ScoreRecord) error {
	if claims == nil {
		return model.ErrUnauthenticated
	}
	if err := record.Validate(); err != nil {
		return err
	}

	if record.UserHandle != claims.User {
		s.logger.Debug("score posted for another handle",
			slog.String("caller", claims.User),
			slog.String("user_handle", record.UserHandle),
		)
	}

	if err := s.store.AppendScore(ctx, record); err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	s.recorder.ScoreSubmitted(record.Level)

	s.logger.Info("score submitted",
		slog.String("level", record.Level),
		slog.String("user_handle", record.UserHandle),
		slog.String("score", record.Score),
	)
	return nil
}

// Query returns page (1-based, parsed leniently) of the level's scores, highest first
func (s *Service) Query(ctx context.Context, level, page string) ([]model.ScoreRecord, error) {
	if level == "" {
		return nil, model.ErrLevelRequired
	}

	records, err := s.store.ListScores(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	ranked := FilterByLevel(records, level)
	SortByScoreDesc(ranked)

	n, ok := ParsePage(page)
	if !ok {
		return []model.ScoreRecord{}, nil
	}
	return Paginate(ranked, n), nil
}
