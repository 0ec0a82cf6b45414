package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/highscores-go/internal/model"
	"github.com/mcoot/highscores-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Storage{client: client}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client) *Storage {
	return &Storage{client: client}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, credentialKey(), data, 0).Err()
}

func (s *Storage) GetCredential(ctx context.Context) (*model.Credential, error) {
	data, err := s.client.Get(ctx, credentialKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, err
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Score operations

func (s *Storage) AppendScore(ctx context.Context, record model.ScoreRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, levelScoresKey(record.Level), data).Err()
}

func (s *Storage) ListScores(ctx context.Context, level string) ([]model.ScoreRecord, error) {
	values, err := s.client.LRange(ctx, levelScoresKey(level), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.ScoreRecord, 0, len(values))
	for _, val := range values {
		var r model.ScoreRecord
		if err := json.Unmarshal([]byte(val), &r); err != nil {
			return nil, fmt.Errorf("decode score record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
