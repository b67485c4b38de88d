package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text string) string {
	resp := geminiResponse{
		Candidates: []geminiCandidate{{
			Content: geminiContent{Role: "model", Parts: []geminiPart{{Text: text}}},
		}},
	}
	out, _ := json.Marshal(resp)
	return string(out)
}

func TestGenerateSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(geminiReply("<h3>Informe</h3>")))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", "gemini-3-pro-preview", srv.URL, 5*time.Second)
	text, err := c.Generate(context.Background(), "redacta el informe")
	require.NoError(t, err)

	assert.Equal(t, "<h3>Informe</h3>", text)
	assert.Equal(t, "/models/gemini-3-pro-preview:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "redacta el informe", gotReq.Contents[0].Parts[0].Text)
}

func TestGenerateConcatenatesParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := geminiResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: "uno "}, {Text: "dos"}}},
		}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "m", srv.URL, 5*time.Second)
	text, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "uno dos", text)
}

func TestGenerateWithoutKey(t *testing.T) {
	c := NewGeminiClient("", "m", "http://unused", time.Second)
	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
			return
		}
		w.Write([]byte(geminiReply("ok")))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "m", srv.URL, 30*time.Second)
	text, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid argument"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "m", srv.URL, 5*time.Second)
	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateBlockedPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "m", srv.URL, 5*time.Second)
	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "m", srv.URL, 5*time.Second)
	_, err := c.Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestGenerateContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewGeminiClient("k", "m", srv.URL, 5*time.Second)
	_, err := c.Generate(ctx, "p")
	assert.Error(t, err)
}

func TestNewGeminiClientDefaults(t *testing.T) {
	c := NewGeminiClient("k", "", "", 0)
	assert.Equal(t, geminiAPIURL, c.baseURL)
	assert.Equal(t, geminiDefaultModel, c.model)
	assert.Equal(t, 120*time.Second, c.client.Timeout)

	c = NewGeminiClient("k", "gemini:custom-model", "", 0)
	assert.Equal(t, "custom-model", c.model)
}
