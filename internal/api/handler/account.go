package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/highscores-go/internal/api/apierr"
	"github.com/mcoot/highscores-go/internal/api/request"
	"github.com/mcoot/highscores-go/internal/api/response"
	"github.com/mcoot/highscores-go/internal/middleware"
)

// AccountService is the subset of the auth service the handler needs
type AccountService interface {
	Register(ctx context.Context, handle, password string) error
	Login(ctx context.Context, handle, password string) (string, error)
}

// AccountHandler handles signup and login
type AccountHandler struct {
	accounts AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Signup handles POST /signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.accounts.Register(r.Context(), req.UserHandle, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MessageResponse{Message: "User registered successfully"})
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLogin(r)
	if !ok {
		WriteError(w, NewInvalidRequestError("Bad request"))
		return
	}

	tok, err := h.accounts.Login(r.Context(), req.UserHandle, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginResponse{JSONWebToken: tok})
}

// decodeLogin accepts exactly a JSON object whose only keys are a non-empty
// string userHandle and a non-empty string password
func decodeLogin(r *http.Request) (request.LoginRequest, bool) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil || raw == nil {
		return request.LoginRequest{}, false
	}
	if len(raw) > 2 {
		return request.LoginRequest{}, false
	}

	var req request.LoginRequest
	if !decodeNonEmptyString(raw["userHandle"], &req.UserHandle) {
		return request.LoginRequest{}, false
	}
	if !decodeNonEmptyString(raw["password"], &req.Password) {
		return request.LoginRequest{}, false
	}
	return req, true
}

func decodeNonEmptyString(data json.RawMessage, dst *string) bool {
	if len(data) == 0 || data[0] != '"' {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false
	}
	return *dst != ""
}

func (h *AccountHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logUnexpected(h.logger, r, err)
	WriteError(w, err)
}

// logUnexpected logs errors that map to a 5xx response
func logUnexpected(logger *slog.Logger, r *http.Request, err error) {
	if status := apierr.Status(err); status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}
