// Package sqlite persists the credential and the score log in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mcoot/highscores-go/internal/model"
	"github.com/mcoot/highscores-go/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and migrates it.
// ":memory:" gives a private in-memory database.
func New(ctx context.Context, path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: SQLite serialises writers anyway, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}

	return &Storage{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS credential (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			handle TEXT NOT NULL,
			password_hash TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scores (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			user_handle TEXT NOT NULL,
			score TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_level ON scores(level, seq);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credential (id, handle, password_hash) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET handle = excluded.handle, password_hash = excluded.password_hash`,
		cred.Handle, cred.PasswordHash,
	)
	return err
}

func (s *Storage) GetCredential(ctx context.Context) (*model.Credential, error) {
	var cred model.Credential
	err := s.db.QueryRowContext(ctx, `SELECT handle, password_hash FROM credential WHERE id = 1`).
		Scan(&cred.Handle, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// Score operations

func (s *Storage) AppendScore(ctx context.Context, record model.ScoreRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (level, user_handle, score, timestamp) VALUES (?, ?, ?, ?)`,
		record.Level, record.UserHandle, record.Score, record.Timestamp,
	)
	return err
}

func (s *Storage) ListScores(ctx context.Context, level string) ([]model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, user_handle, score, timestamp FROM scores WHERE level = ? ORDER BY seq`,
		level,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := make([]model.ScoreRecord, 0)
	for rows.Next() {
		var r model.ScoreRecord
		if err := rows.Scan(&r.Level, &r.UserHandle, &r.Score, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan score record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
