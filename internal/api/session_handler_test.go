package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexitra/lexitra/internal/mocks"
	"github.com/lexitra/lexitra/internal/service"
	"github.com/lexitra/lexitra/internal/translation"
)

// newTestServer wires the session endpoints over in-memory stores and a
// provider-less translation chain, so requests exercise the full
// service stack without any remote dependency.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cardStore := mocks.NewMockCardStore()
	sessionStore := mocks.NewMockSessionStore()
	backend := translation.NewChain(log)

	practice := service.NewPracticeService(
		service.NewCardSelector(cardStore, log, nil),
		service.NewProgressTracker(sessionStore, cardStore, log),
		service.NewEvaluator(backend, service.DefaultFallbackPolicy, log),
		sessionStore,
		cardStore,
		log,
	)

	router := chi.NewRouter()
	NewSessionHandler(practice, 20, log).RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, server *httptest.Server, maxCards int) SessionResponse {
	t.Helper()
	resp := postJSON(t, server.URL+"/sessions", CreateSessionRequest{
		SourceLanguage: "en",
		TargetLanguage: "de",
		MaxCards:       maxCards,
		UseSampleDeck:  true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeJSON[SessionResponse](t, resp)
}

func TestCreateSessionEndpoint(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	session := createSession(t, server, 2)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "en", session.SourceLanguage)
	assert.Equal(t, "de", session.TargetLanguage)
	assert.Len(t, session.CardIDs, 2)
	assert.Equal(t, 0, session.CurrentCardIndex)
	assert.Nil(t, session.CompletedAt)
}

func TestCreateSessionEndpointValidation(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	// Missing languages.
	resp := postJSON(t, server.URL+"/sessions", CreateSessionRequest{SourceLanguage: "en"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// Malformed body.
	resp, err := http.Post(server.URL+"/sessions", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetCurrentCardEndpoint(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	session := createSession(t, server, 2)

	resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/card", server.URL, session.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	current := decodeJSON[service.CurrentCard](t, resp)
	require.NotNil(t, current.Card)
	assert.Equal(t, 1, current.Position)
	assert.Equal(t, 2, current.Total)
	assert.Equal(t, session.CardIDs[0], current.Card.ID.String())
}

func TestSessionEndpointErrors(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	// Unknown session reads as expired.
	resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/card", server.URL, uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	// Malformed session ID.
	resp, err = http.Get(server.URL + "/sessions/not-a-uuid/card")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestSubmitAnswerOnCompletedSessionEndpoint(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	session := createSession(t, server, 1)

	resp := postJSON(t, fmt.Sprintf("%s/sessions/%s/advance", server.URL, session.ID), struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeJSON[service.AdvanceResult](t, resp)
	require.True(t, result.IsComplete)

	resp = postJSON(t, fmt.Sprintf("%s/sessions/%s/answer", server.URL, session.ID),
		SubmitAnswerRequest{Answer: "der Hund"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()
}

// TestPracticeSessionFlow walks a two-card session end to end over HTTP.
func TestPracticeSessionFlow(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	session := createSession(t, server, 2)

	for position := 1; position <= 2; position++ {
		resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/card", server.URL, session.ID))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		current := decodeJSON[service.CurrentCard](t, resp)
		assert.Equal(t, position, current.Position)

		resp = postJSON(t, fmt.Sprintf("%s/sessions/%s/answer", server.URL, session.ID),
			SubmitAnswerRequest{Answer: current.Card.UserTranslation})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		outcome := decodeJSON[service.EvaluationOutcome](t, resp)
		require.NotNil(t, outcome.Evaluation)
		assert.True(t, outcome.Evaluation.Correct, "an exact reference match must be judged correct")

		resp = postJSON(t, fmt.Sprintf("%s/sessions/%s/advance", server.URL, session.ID), struct{}{})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decodeJSON[service.AdvanceResult](t, resp)
		assert.Equal(t, position == 2, result.IsComplete)
	}

	// The finished session has no current card.
	resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/card", server.URL, session.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	// And its stats are terminal.
	resp, err = http.Get(fmt.Sprintf("%s/sessions/%s/stats", server.URL, session.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeJSON[statsResponse](t, resp)
	assert.True(t, stats.IsComplete)
	assert.Equal(t, 2, stats.TotalCards)
	assert.Equal(t, 2, stats.AnsweredCards)
	assert.Equal(t, 2, stats.CorrectCards)
}

// statsResponse mirrors domain.SessionStats for decoding.
type statsResponse struct {
	SessionID     string  `json:"session_id"`
	TotalCards    int     `json:"total_cards"`
	AnsweredCards int     `json:"answered_cards"`
	CorrectCards  int     `json:"correct_cards"`
	Accuracy      float64 `json:"accuracy"`
	IsComplete    bool    `json:"is_complete"`
}
