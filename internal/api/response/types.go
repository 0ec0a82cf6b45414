package response

import "github.com/mcoot/highscores-go/internal/model"

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	JSONWebToken string `json:"jsonWebToken"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status string `json:"status"`
}

// ScoreRecord represents a high score in API responses
type ScoreRecord struct {
	Level      string `json:"level"`
	UserHandle string `json:"userHandle"`
	Score      string `json:"score"`
	Timestamp  string `json:"timestamp"`
}

// ScoreRecordFromModel converts a model.ScoreRecord
func ScoreRecordFromModel(r model.ScoreRecord) ScoreRecord {
	return ScoreRecord{
		Level:      r.Level,
		UserHandle: r.UserHandle,
		Score:      r.Score,
		Timestamp:  r.Timestamp,
	}
}

// ScoreRecordsFromModel converts a slice; the result is never nil so it encodes as []
func ScoreRecordsFromModel(records []model.ScoreRecord) []ScoreRecord {
	out := make([]ScoreRecord, len(records))
	for i, r := range records {
		out[i] = ScoreRecordFromModel(r)
	}
	return out
}
