package model

import "errors"

// Common errors used across the application
var (
	// Credential errors
	ErrCredentialNotFound     = errors.New("no credential registered")
	ErrInvalidCredentialInput = errors.New("handle and password must each be at least 6 characters")

	// Score errors
	ErrIncompleteScore = errors.New("level, userHandle, score and timestamp are required")
	ErrLevelRequired   = errors.New("level is required")

	// Auth errors
	ErrUnauthenticated = errors.New("unauthenticated")
)
