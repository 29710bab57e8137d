package quizgen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "[]"}},
				},
			}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "gemini-2.5-flash")
	text, err := c.GenerateContent(context.Background(), "JVBERi0=", "generate questions", quizSchema)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	inline := parts[0].(map[string]any)["inline_data"].(map[string]any)
	assert.Equal(t, "application/pdf", inline["mime_type"])
	assert.Equal(t, "JVBERi0=", inline["data"])
	assert.Equal(t, "generate questions", parts[1].(map[string]any)["text"])

	cfg := gotBody["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	assert.InDelta(t, 0.4, cfg["temperature"].(float64), 1e-9)
}

func TestClient_GenerateContent_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded for model", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "gemini-2.5-flash")
	_, err := c.GenerateContent(context.Background(), "x", "p", quizSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestClient_GenerateContent_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "gemini-2.5-flash")
	_, err := c.GenerateContent(context.Background(), "x", "p", quizSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
