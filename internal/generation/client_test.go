// AngelaMos | 2026
// client_test.go

package generation

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/logoforge/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.ProviderConfig{
		URL:       srv.URL,
		APIKey:    "server-key",
		Model:     "flux-test",
		ImageSize: 768,
		Timeout:   5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClientGenerate_Success(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer server-key", r.Header.Get("Authorization"))

		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "flux-test", req.Model)
		assert.Equal(t, 768, req.Width)
		assert.Equal(t, 768, req.Height)
		assert.Equal(t, 1, req.N)
		assert.Equal(t, "b64_json", req.ResponseFormat)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"aGVsbG8="}]}`))
	})

	images, err := client.Generate(context.Background(), "a logo", 3, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"aGVsbG8=", "aGVsbG8=", "aGVsbG8="}, images)
	assert.Equal(t, 3, calls)
}

func TestClientGenerate_APIKeyOverride(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer caller-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"aGVsbG8="}]}`))
	})

	_, err := client.Generate(context.Background(), "a logo", 1, "caller-key")
	require.NoError(t, err)
}

func TestClientGenerate_AbortsOnFirstFailure(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"aGVsbG8="}]}`))
	})

	images, err := client.Generate(context.Background(), "a logo", 3, "")
	require.Error(t, err)

	// No partial results.
	assert.Nil(t, images)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "image 2 of 3")
}

func TestClientGenerate_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})

	_, err := client.Generate(context.Background(), "a logo", 1, "")
	require.ErrorIs(t, err, ErrProviderUnauthorized)
}

func TestClientGenerate_BillingBlocked(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"add a credit card to continue"}}`))
	})

	_, err := client.Generate(context.Background(), "a logo", 1, "")
	require.ErrorIs(t, err, ErrProviderForbidden)
}

func TestClientGenerate_KeyErrorInBodyWithOKStatusFamily(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_api_key"}}`))
	})

	_, err := client.Generate(context.Background(), "a logo", 1, "")
	require.ErrorIs(t, err, ErrProviderUnauthorized)
}

func TestClientGenerate_NotConfigured(t *testing.T) {
	client := NewClient(
		config.ProviderConfig{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	_, err := client.Generate(context.Background(), "a logo", 1, "")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestClientGenerate_EmptyData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.Generate(context.Background(), "a logo", 1, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image data")
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, "short", truncateBody([]byte("  short  ")))

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	out := truncateBody(long)
	assert.Len(t, out, 512+3)
	assert.Contains(t, out, "...")
}
