package factory

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/highscores-go/internal/dependencies/mocks"
	"github.com/mcoot/highscores-go/internal/metrics"
	"github.com/mcoot/highscores-go/internal/services/auth"
	"github.com/mcoot/highscores-go/internal/services/token"
	"github.com/mcoot/highscores-go/internal/storage/memory"
	"github.com/mcoot/highscores-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// expiry of zero issues tokens that never expire.
func NewTestApp(expiry time.Duration) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	tokenCfg := token.DefaultConfig()
	tokenCfg.Expiry = expiry

	hasherCfg := cheapHasher()

	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	app, err := newWithDependencies(store, mockClock, tokenCfg, hasherCfg, m, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

// cheapHasher keeps argon2 fast in tests
func cheapHasher() auth.HasherConfig {
	return auth.HasherConfig{Time: 1, Memory: 64, Threads: 1, SaltLen: 8, KeyLen: 16}
}
