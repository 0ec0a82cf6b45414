package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned when a stored hash cannot be parsed
var ErrMalformedHash = errors.New("malformed password hash")

// HasherConfig holds argon2id parameters
type HasherConfig struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen int
	KeyLen  uint32
}

// DefaultHasherConfig returns the OWASP-recommended argon2id parameters
func DefaultHasherConfig() HasherConfig {
	return HasherConfig{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// Hasher hashes and verifies passwords with argon2id
type Hasher struct {
	cfg HasherConfig
}

// NewHasher creates a Hasher, filling zero fields from DefaultHasherConfig
func NewHasher(cfg HasherConfig) *Hasher {
	def := DefaultHasherConfig()
	if cfg.Time == 0 {
		cfg.Time = def.Time
	}
	if cfg.Memory == 0 {
		cfg.Memory = def.Memory
	}
	if cfg.Threads == 0 {
		cfg.Threads = def.Threads
	}
	if cfg.SaltLen == 0 {
		cfg.SaltLen = def.SaltLen
	}
	if cfg.KeyLen == 0 {
		cfg.KeyLen = def.KeyLen
	}
	return &Hasher{cfg: cfg}
}

// Hash encodes password as a PHC string:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.cfg.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.cfg.Time, h.cfg.Memory, h.cfg.Threads, h.cfg.KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.cfg.Memory,
		h.cfg.Time,
		h.cfg.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded.
// Parameters are read from the hash, so hashes made with other settings still verify.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
