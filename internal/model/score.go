package model

// ScoreRecord is a single posted high score.
// Score is kept as the text the client sent; ranking interprets it numerically.
type ScoreRecord struct {
	Level      string `json:"level"`
	UserHandle string `json:"userHandle"`
	Score      string `json:"score"`
	Timestamp  string `json:"timestamp"`
}

// Validate returns ErrIncompleteScore if any field is empty
func (r ScoreRecord) Validate() error {
	if r.Level == "" || r.UserHandle == "" || r.Score == "" || r.Timestamp == "" {
		return ErrIncompleteScore
	}
	return nil
}
