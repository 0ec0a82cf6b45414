package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/highscores-go/internal/api/apierr"
	apimw "github.com/mcoot/highscores-go/internal/api/middleware"
	"github.com/mcoot/highscores-go/internal/api/request"
	"github.com/mcoot/highscores-go/internal/api/response"
	"github.com/mcoot/highscores-go/internal/model"
	"github.com/mcoot/highscores-go/internal/services/token"
)

// ScoreService is the subset of the scores service the handler needs
type ScoreService interface {
	Submit(ctx context.Context, claims *token.Claims, record model.ScoreRecord) error
	Query(ctx context.Context, level, page string) ([]model.ScoreRecord, error)
}

// ScoreHandler handles high score endpoints
type ScoreHandler struct {
	scores ScoreService
	logger *slog.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scores ScoreService, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		scores: scores,
		logger: logger,
	}
}

// Submit handles POST /high-scores
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := apimw.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	var req request.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	record := model.ScoreRecord{
		Level:      string(req.Level),
		UserHandle: string(req.UserHandle),
		Score:      string(req.Score),
		Timestamp:  string(req.Timestamp),
	}

	if err := h.scores.Submit(r.Context(), claims, record); err != nil {
		logUnexpected(h.logger, r, err)
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MessageResponse{Message: "High score posted successfully"})
}

// List handles GET /high-scores?level=<L>&page=<N>
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	records, err := h.scores.Query(r.Context(), q.Get("level"), q.Get("page"))
	if err != nil {
		logUnexpected(h.logger, r, err)
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoreRecordsFromModel(records))
}
