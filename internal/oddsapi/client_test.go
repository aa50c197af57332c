package oddsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:           server.URL,
		APIKey:            "test-key",
		Regions:           "eu",
		TimeoutSeconds:    2,
		RequestsPerMinute: 6000,
	})
	require.NoError(t, err)
	return client, server
}

func TestFetchOddsReturnsRawBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v4/sports/soccer_epl/odds/")
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "h2h,totals", r.URL.Query().Get("markets"))
		assert.Equal(t, "decimal", r.URL.Query().Get("oddsFormat"))
		w.Write([]byte(`[{"id":"abc"}]`))
	})

	body, err := client.FetchOdds(context.Background(), "soccer_epl", []string{"h2h", "totals"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"abc"}]`, string(body))
}

func TestFetchOddsNon200IsTransportError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.FetchOdds(context.Background(), "soccer_epl", []string{"h2h"})
	require.Error(t, err)

	var transport *TransportError
	assert.True(t, errors.As(err, &transport))
}

func TestFetchScores(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v4/sports/soccer_epl/scores/")
		assert.Equal(t, "3", r.URL.Query().Get("daysFrom"))
		w.Write([]byte(`[
			{
				"id": "evt1",
				"sport_key": "soccer_epl",
				"home_team": "Arsenal",
				"away_team": "Spurs",
				"completed": true,
				"scores": [
					{"name": "Arsenal", "score": "2"},
					{"name": "Spurs", "score": "1"}
				]
			}
		]`))
	})

	scores, err := client.FetchScores(context.Background(), "soccer_epl", 3)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.True(t, scores[0].Completed)

	home, ok := scores[0].SideScoreValue("Arsenal")
	require.True(t, ok)
	assert.Equal(t, 2, home)

	_, ok = scores[0].SideScoreValue("Chelsea")
	assert.False(t, ok)
}

func TestFetchScoresMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "not a list"}`))
	})

	_, err := client.FetchScores(context.Background(), "soccer_epl", 3)
	require.Error(t, err)

	var malformed *MalformedDataError
	assert.True(t, errors.As(err, &malformed))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
