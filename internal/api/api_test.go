package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/highscores-go/internal/api"
	"github.com/mcoot/highscores-go/internal/api/apierr"
	"github.com/mcoot/highscores-go/internal/api/middleware"
	"github.com/mcoot/highscores-go/internal/api/response"
	"github.com/mcoot/highscores-go/internal/factory"
	sharedmw "github.com/mcoot/highscores-go/internal/middleware"
	"github.com/mcoot/highscores-go/internal/services/token"
	"github.com/mcoot/highscores-go/internal/testutil"
)

// testServer wires the router to a test app with a mock clock
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, expiry time.Duration) *testServer {
	t.Helper()

	app := factory.NewTestApp(expiry)
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AccountService: app.AuthService,
		ScoreService:   app.ScoreService,
		Authorizer:     middleware.NewBearerAuthorizer(app.TokenService),
		Metrics:        app.Metrics,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// login registers the account and returns a fresh token
func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	creds := map[string]string{"userHandle": "DukeNukem", "password": "123456"}
	rr := ts.request(http.MethodPost, "/signup", creds, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/login", creds, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JSONWebToken)
	return resp.JSONWebToken
}

func (ts *testServer) submit(t *testing.T, token, level, user, score string) {
	t.Helper()

	body := map[string]string{
		"level":      level,
		"userHandle": user,
		"score":      score,
		"timestamp":  "2019-08-24T14:15:22Z",
	}
	rr := ts.request(http.MethodPost, "/high-scores", body, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func decodeScores(t *testing.T, rr *httptest.ResponseRecorder) []response.ScoreRecord {
	t.Helper()

	var records []response.ScoreRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	return records
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, 0)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get(sharedmw.RequestIDHeader))
}

func TestSignupAndLogin(t *testing.T) {
	ts := newTestServer(t, 0)

	creds := map[string]string{"userHandle": "DukeNukem", "password": "123456"}
	rr := ts.request(http.MethodPost, "/signup", creds, "")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "User registered successfully")

	rr = ts.request(http.MethodPost, "/login", creds, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	claims, err := ts.app.TokenService.Verify(resp.JSONWebToken)
	require.NoError(t, err)
	assert.Equal(t, "DukeNukem", claims.User)
}

func TestSignupRejectsShortCredentials(t *testing.T) {
	ts := newTestServer(t, 0)

	cases := []map[string]string{
		{"userHandle": "Duke", "password": "123456"},
		{"userHandle": "DukeNukem", "password": "12345"},
		{"userHandle": "", "password": ""},
	}
	for _, body := range cases {
		rr := ts.request(http.MethodPost, "/signup", body, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
	}

	rr := ts.request(http.MethodPost, "/signup", "not json", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupReplacesPreviousAccount(t *testing.T) {
	ts := newTestServer(t, 0)

	first := map[string]string{"userHandle": "DukeNukem", "password": "123456"}
	second := map[string]string{"userHandle": "LaraCroft", "password": "abcdef"}

	require.Equal(t, http.StatusCreated, ts.request(http.MethodPost, "/signup", first, "").Code)
	require.Equal(t, http.StatusCreated, ts.request(http.MethodPost, "/signup", second, "").Code)

	rr := ts.request(http.MethodPost, "/login", first, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/login", second, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLoginWrongCredentials(t *testing.T) {
	ts := newTestServer(t, 0)

	// No account yet
	rr := ts.request(http.MethodPost, "/login", map[string]string{"userHandle": "DukeNukem", "password": "123456"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	ts.login(t)

	rr = ts.request(http.MethodPost, "/login", map[string]string{"userHandle": "DukeNukem", "password": "wrong!"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, decodeError(t, rr).Code)
}

func TestLoginMalformedBody(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.login(t)

	cases := map[string]string{
		"extra key":      `{"userHandle":"DukeNukem","password":"123456","admin":true}`,
		"numeric field":  `{"userHandle":"DukeNukem","password":123456}`,
		"missing field":  `{"userHandle":"DukeNukem"}`,
		"empty field":    `{"userHandle":"","password":"123456"}`,
		"array body":     `["DukeNukem","123456"]`,
		"null body":      `null`,
		"not json":       `userHandle=DukeNukem`,
		"empty password": `{"userHandle":"DukeNukem","password":""}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/login", body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
		})
	}
}

func TestSubmitRequiresToken(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.login(t)

	body := map[string]string{"level": "1", "userHandle": "DukeNukem", "score": "100", "timestamp": "now"}

	missing := ts.request(http.MethodPost, "/high-scores", body, "")
	invalid := ts.request(http.MethodPost, "/high-scores", body, "not-a-token")

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, http.StatusUnauthorized, invalid.Code)
	assert.Equal(t, missing.Body.String(), invalid.Body.String())
	assert.Equal(t, apierr.CodeUnauthorized, decodeError(t, missing).Code)

	// Nothing was stored
	rr := ts.request(http.MethodGet, "/high-scores?level=1", nil, "")
	assert.Empty(t, decodeScores(t, rr))
}

func TestSubmitWithForeignSecretRejected(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.login(t)

	other, err := token.New(ts.app.MockClock, token.Config{Secret: "some-other-secret", Issuer: "highscores"})
	require.NoError(t, err)
	foreign, err := other.Issue("DukeNukem")
	require.NoError(t, err)

	rr := ts.request(http.MethodPost, "/high-scores", map[string]string{
		"level": "1", "userHandle": "DukeNukem", "score": "1", "timestamp": "t",
	}, foreign)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, decodeError(t, rr).Code)
}

func TestSubmitIncompleteScore(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.login(t)

	cases := map[string]string{
		"missing score":  `{"level":"1","userHandle":"DukeNukem","timestamp":"t"}`,
		"empty level":    `{"level":"","userHandle":"DukeNukem","score":"5","timestamp":"t"}`,
		"zero score":     `{"level":"1","userHandle":"DukeNukem","score":0,"timestamp":"t"}`,
		"null timestamp": `{"level":"1","userHandle":"DukeNukem","score":"5","timestamp":null}`,
		"missing handle": `{"level":"1","score":"5","timestamp":"t"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/high-scores", body, token)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, apierr.CodeIncompleteScore, decodeError(t, rr).Code)
		})
	}

	rr := ts.request(http.MethodPost, "/high-scores", `{"level":true}`, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestSubmitAcceptsNumericFields(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.login(t)

	rr := ts.request(http.MethodPost, "/high-scores",
		`{"level":1,"userHandle":"DukeNukem","score":34555,"timestamp":"2019-08-24T14:15:22Z"}`, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "High score posted successfully")

	records := decodeScores(t, ts.request(http.MethodGet, "/high-scores?level=1", nil, ""))
	require.Len(t, records, 1)
	assert.Equal(t, "34555", records[0].Score)
	assert.Equal(t, "1", records[0].Level)
}

func TestListRequiresLevel(t *testing.T) {
	ts := newTestServer(t, 0)

	rr := ts.request(http.MethodGet, "/high-scores", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeLevelRequired, decodeError(t, rr).Code)
}

func TestListEmptyLevel(t *testing.T) {
	ts := newTestServer(t, 0)

	rr := ts.request(http.MethodGet, "/high-scores?level=42", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListRanksAndFiltersByLevel(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.login(t)

	ts.submit(t, token, "1", "alice", "50")
	ts.submit(t, token, "1", "bob", "900")
	ts.submit(t, token, "2", "carol", "99999")
	ts.submit(t, token, "1", "dave", "120")

	records := decodeScores(t, ts.request(http.MethodGet, "/high-scores?level=1", nil, ""))
	require.Len(t, records, 3)
	assert.Equal(t, "bob", records[0].UserHandle)
	assert.Equal(t, "dave", records[1].UserHandle)
	assert.Equal(t, "alice", records[2].UserHandle)
	for _, r := range records {
		assert.Equal(t, "1", r.Level)
	}
}

func TestListPagination(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.login(t)

	for i := range 25 {
		ts.submit(t, token, "1", "player", strconv.Itoa(i+1))
	}

	first := decodeScores(t, ts.request(http.MethodGet, "/high-scores?level=1", nil, ""))
	require.Len(t, first, 20)
	assert.Equal(t, "25", first[0].Score)
	assert.Equal(t, "6", first[19].Score)

	second := decodeScores(t, ts.request(http.MethodGet, "/high-scores?level=1&page=2", nil, ""))
	require.Len(t, second, 5)
	assert.Equal(t, "5", second[0].Score)
	assert.Equal(t, "1", second[4].Score)

	beyond := ts.request(http.MethodGet, "/high-scores?level=1&page=3", nil, "")
	assert.JSONEq(t, `[]`, beyond.Body.String())

	negative := ts.request(http.MethodGet, "/high-scores?level=1&page=-1", nil, "")
	assert.Equal(t, http.StatusOK, negative.Code)
	assert.JSONEq(t, `[]`, negative.Body.String())

	// Unparseable page falls back to the first page
	lenient := decodeScores(t, ts.request(http.MethodGet, "/high-scores?level=1&page=abc", nil, ""))
	assert.Equal(t, first, lenient)
}

func TestTokenExpiry(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	token := ts.login(t)

	ts.submit(t, token, "1", "DukeNukem", "10")

	ts.app.MockClock.Advance(2 * time.Hour)

	rr := ts.request(http.MethodPost, "/high-scores", map[string]string{
		"level": "1", "userHandle": "DukeNukem", "score": "20", "timestamp": "t",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, decodeError(t, rr).Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ts := newTestServer(t, 0)

	rr := ts.request(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decodeError(t, rr).Code)
	assert.NotEmpty(t, rr.Header().Get(sharedmw.RequestIDHeader))

	rr = ts.request(http.MethodDelete, "/high-scores", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, apierr.CodeMethodNotAllowed, decodeError(t, rr).Code)
	assert.NotEmpty(t, rr.Header().Get(sharedmw.RequestIDHeader))

	rr = ts.request(http.MethodDelete, "/signup", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(sharedmw.RequestIDHeader))

	metrics := ts.request(http.MethodGet, "/metrics", nil, "").Body.String()
	assert.Contains(t, metrics, `test_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.login(t)

	ts.submit(t, token, "7", "DukeNukem", "10")
	ts.request(http.MethodPost, "/high-scores", map[string]string{"level": "7"}, "bad")

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `test_scores_submitted_total{level="7"} 1`)
	assert.Contains(t, body, `test_auth_failure_total 1`)
	assert.Contains(t, body, `test_http_requests_total{method="POST",route="/high-scores",status="201"} 1`)
}

func TestRequestIDPropagated(t *testing.T) {
	ts := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(sharedmw.RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Header().Get(sharedmw.RequestIDHeader))
}
