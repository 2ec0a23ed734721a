package tmdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// newTestServer starts a provider stand-in mounted under /3.
func newTestServer(t *testing.T, mux *http.ServeMux) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(testAPIKey, zerolog.Nop(),
		WithBaseURL(server.URL+"/3"),
		WithRetryDelay(0),
		WithRateLimit(0, 0),
	)
	require.NoError(t, err)
	return server, client
}

// cutOffResponse announces a longer body than it sends and drops the
// connection, so the client fails while reading a response the server has
// already committed to.
func cutOffResponse(t *testing.T, w http.ResponseWriter) {
	t.Helper()
	hj, ok := w.(http.Hijacker)
	require.True(t, ok)
	conn, buf, err := hj.Hijack()
	require.NoError(t, err)
	_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 100\r\n\r\n{\"success\":tr")
	_ = buf.Flush()
	_ = conn.Close()
}

func testSession() Session {
	return Session{ID: "sess1", AccountID: 42, Username: "u"}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
