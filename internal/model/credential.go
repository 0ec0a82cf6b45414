package model

import (
	"fmt"
	"unicode/utf16"
)

// MinCredentialLength is the minimum length, in UTF-16 code units, of a handle or password
const MinCredentialLength = 6

// Credential is the single registered account.
// Only one exists at a time; registering again replaces it.
type Credential struct {
	Handle       string `json:"handle"`
	PasswordHash string `json:"password_hash"`
}

// ValidateCredential checks the shape of a handle/password pair before registration
func ValidateCredential(handle, password string) error {
	if handle == "" || password == "" {
		return fmt.Errorf("%w: missing field", ErrInvalidCredentialInput)
	}
	if textLength(handle) < MinCredentialLength {
		return fmt.Errorf("%w: handle too short", ErrInvalidCredentialInput)
	}
	if textLength(password) < MinCredentialLength {
		return fmt.Errorf("%w: password too short", ErrInvalidCredentialInput)
	}
	return nil
}

// textLength counts UTF-16 code units, so characters outside the Basic
// Multilingual Plane (most emoji) count as two
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += max(utf16.RuneLen(r), 1)
	}
	return n
}
