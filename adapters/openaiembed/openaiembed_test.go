package openaiembed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FrenchMajesty/spamsift/internal/retry"
)

func fastRetryClient(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model, baseURL)
	c.retryCfg = retry.Config{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2.0,
	}
	return c
}

func embeddingsHandler(t *testing.T, wantModel string, reorder bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %q, want /embeddings", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != wantModel {
			t.Errorf("model = %q, want %q", req.Model, wantModel)
		}

		var resp embeddingResponse
		for i := range req.Input {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: []float32{float32(i), 1}})
		}
		if reorder {
			for left, right := 0, len(resp.Data)-1; left < right; left, right = left+1, right-1 {
				resp.Data[left], resp.Data[right] = resp.Data[right], resp.Data[left]
			}
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestGenerateEmbeddings_RestoresInputOrder(t *testing.T) {
	server := httptest.NewServer(embeddingsHandler(t, "text-embedding-3-small", true))
	defer server.Close()

	client := fastRetryClient("test-key", "text-embedding-3-small", server.URL)
	vectors, err := client.GenerateEmbeddings(t.Context(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("GenerateEmbeddings failed: %v", err)
	}

	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	for i, v := range vectors {
		if v[0] != float32(i) {
			t.Errorf("vector %d = %v, not restored to input order", i, v)
		}
	}
}

func TestGenerateEmbedding_Single(t *testing.T) {
	server := httptest.NewServer(embeddingsHandler(t, "text-embedding-3-small", false))
	defer server.Close()

	client := fastRetryClient("test-key", "text-embedding-3-small", server.URL)
	vector, err := client.GenerateEmbedding(t.Context(), "hello")
	if err != nil {
		t.Fatalf("GenerateEmbedding failed: %v", err)
	}
	if len(vector) != 2 {
		t.Errorf("vector = %v, want 2 dimensions", vector)
	}
}

func TestGenerateEmbeddings_RetriesOnRateLimit(t *testing.T) {
	var requests atomic.Int32
	handler := embeddingsHandler(t, "m", false)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		handler(w, r)
	}))
	defer server.Close()

	client := fastRetryClient("test-key", "m", server.URL)
	_, err := client.GenerateEmbeddings(t.Context(), []string{"hello"})
	if err != nil {
		t.Fatalf("GenerateEmbeddings failed after retry: %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("requests = %d, want 2 (rate limit then success)", got)
	}
}

func TestGenerateEmbeddings_FailsFastOnClientError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid input"}`)
	}))
	defer server.Close()

	client := fastRetryClient("test-key", "m", server.URL)
	_, err := client.GenerateEmbeddings(t.Context(), []string{"hello"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error = %v, want status in message", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1 (400 is not retryable)", got)
	}
}

func TestGenerateEmbeddings_VectorCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"index":0,"embedding":[1,0]}]}`)
	}))
	defer server.Close()

	client := fastRetryClient("test-key", "m", server.URL)
	_, err := client.GenerateEmbeddings(t.Context(), []string{"one", "two"})
	if err == nil {
		t.Fatal("expected error for short response")
	}
}

func TestGenerateEmbeddings_Validation(t *testing.T) {
	client := fastRetryClient("test-key", "", "http://unused.invalid")

	if _, err := client.GenerateEmbeddings(t.Context(), []string{"hello"}); err == nil {
		t.Error("expected error when model is not configured")
	}

	vectors, err := client.GenerateEmbeddings(t.Context(), nil)
	if err != nil || vectors != nil {
		t.Errorf("empty input: got (%v, %v), want (nil, nil)", vectors, err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("k", "m", "")
	if client.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultBaseURL)
	}

	client = NewClient("k", "m", "https://proxy.example.com/v1/")
	if client.baseURL != "https://proxy.example.com/v1" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}
}
