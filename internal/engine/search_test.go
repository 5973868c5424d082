package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method string
	Path   string
	Auth   string
}

func newLinkupServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest, *linkupSearchRequest) {
	t.Helper()
	var (
		gotReq  capturedRequest
		gotBody linkupSearchRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = capturedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotReq, &gotBody
}

func TestLinkupSearch_Request(t *testing.T) {
	srv, req, body := newLinkupServer(t, http.StatusOK, `{"results": []}`)
	c := NewLinkupClient(Config{LinkupAPIKey: "secret", LinkupURL: srv.URL})

	c.Search(context.Background(), "quantum computing")

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/search", req.Path)
	assert.Equal(t, "Bearer secret", req.Auth)
	assert.Equal(t, "quantum computing", body.Query)
	assert.Equal(t, "standard", body.Depth)
	assert.Equal(t, "searchResults", body.OutputType)
}

func TestLinkupSearch_FormatsResults(t *testing.T) {
	srv, _, _ := newLinkupServer(t, http.StatusOK, `{"results": [
		{"type": "text", "name": "Qubits explained", "url": "https://example.com/q", "content": "A qubit is..."},
		{"type": "text", "name": "IBM roadmap", "url": "https://ibm.com/quantum", "content": ""}
	]}`)
	c := NewLinkupClient(Config{LinkupAPIKey: "k", LinkupURL: srv.URL})

	got := c.Search(context.Background(), "q")

	assert.NotContains(t, got, SearchErrorPrefix)
	assert.Contains(t, got, "[1] Qubits explained\nURL: https://example.com/q\nContent: A qubit is...")
	assert.Contains(t, got, "[2] IBM roadmap\nURL: https://ibm.com/quantum")
	assert.NotContains(t, got, "[2] IBM roadmap\nURL: https://ibm.com/quantum\nContent:")
}

func TestLinkupSearch_Truncates(t *testing.T) {
	var results []SearchResult
	for i := range 50 {
		results = append(results, SearchResult{
			Type:    "text",
			Name:    fmt.Sprintf("result %d", i),
			URL:     fmt.Sprintf("https://example.com/%d", i),
			Content: strings.Repeat("x", 500),
		})
	}
	data, err := json.Marshal(linkupSearchResponse{Results: results})
	require.NoError(t, err)

	srv, _, _ := newLinkupServer(t, http.StatusOK, string(data))
	c := NewLinkupClient(Config{LinkupAPIKey: "k", LinkupURL: srv.URL})

	got := c.Search(context.Background(), "q")
	full := FormatSearchResults(results)
	require.Greater(t, len(full), DefaultMaxSearchChars)
	assert.Len(t, got, DefaultMaxSearchChars)
	assert.Equal(t, full[:DefaultMaxSearchChars], got)
}

func TestLinkupSearch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": "invalid key"}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"malformed json", http.StatusOK, `{"results": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newLinkupServer(t, tt.status, tt.body)
			c := NewLinkupClient(Config{LinkupAPIKey: "k", LinkupURL: srv.URL})

			got := c.Search(context.Background(), "q")
			assert.True(t, strings.HasPrefix(got, SearchErrorPrefix), "got %q", got)
		})
	}
}

func TestLinkupSearch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewLinkupClient(Config{LinkupAPIKey: "k", LinkupURL: url})
	assert.Contains(t, c.Search(context.Background(), "q"), SearchErrorPrefix)
}

func TestFormatSearchResults_Empty(t *testing.T) {
	assert.Equal(t, "No results found.", FormatSearchResults(nil))
}

func TestLinkupSearch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewLinkupClient(Config{LinkupAPIKey: "k", LinkupURL: srv.URL, SearchTimeout: 50 * time.Millisecond})

	start := time.Now()
	got := c.Search(context.Background(), "q")

	assert.True(t, strings.HasPrefix(got, SearchErrorPrefix), "got %q", got)
	assert.Less(t, time.Since(start), time.Second)
}
