package groq

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sithumSoft/MockMate/internal/llm"
	"github.com/sithumSoft/MockMate/internal/models"

	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, retries int, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&Config{APIKey: "secret", Model: "test-model", BaseURL: server.URL, MaxRetries: retries})
	client.http.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(5 * time.Millisecond)
	return client
}

func TestGenerateContentSuccess(t *testing.T) {
	var body []byte
	client := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"model":"llama-test","choices":[{"message":{"role":"assistant","content":"{\"score\": 8}"}}]}`)
	})

	resp, err := client.GenerateContent(context.Background(), &models.GenerationRequest{
		RequestID:   "req-9",
		System:      "system prompt",
		History:     []models.ChatMessage{{Role: models.ChatRoleUser, Content: "earlier"}},
		Prompt:      "evaluate",
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}
	if resp.Content != `{"score": 8}` {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	if resp.RequestID != "req-9" || resp.Metadata.Model != "llama-test" || resp.Metadata.Provider != "groq" {
		t.Fatalf("unexpected metadata: %+v", resp)
	}

	parsed := gjson.ParseBytes(body)
	if parsed.Get("model").String() != "test-model" {
		t.Fatalf("unexpected model in request: %s", body)
	}
	roles := []string{}
	for _, m := range parsed.Get("messages.#.role").Array() {
		roles = append(roles, m.String())
	}
	if len(roles) != 3 || roles[0] != "system" || roles[1] != "user" || roles[2] != "user" {
		t.Fatalf("unexpected roles %v", roles)
	}
	if parsed.Get("max_tokens").Int() != 1024 {
		t.Fatalf("expected max_tokens in request: %s", body)
	}
}

func TestGenerateContentRetriesServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, 2, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"choices":[{"message":{"content":"recovered"}}]}`)
	})

	resp, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}
	if resp.Content != "recovered" || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected success after retries, got %q after %d calls", resp.Content, calls)
	}
	if resp.Metadata.Model != "test-model" {
		t.Fatalf("expected configured model fallback, got %s", resp.Metadata.Model)
	}
}

func TestGenerateContentErrorCodes(t *testing.T) {
	cases := map[int]string{
		http.StatusUnauthorized:        llm.ErrCodeAPIKey,
		http.StatusTooManyRequests:     llm.ErrCodeRateLimit,
		http.StatusBadRequest:          llm.ErrCodeInvalidInput,
		http.StatusInternalServerError: llm.ErrCodeServiceDown,
	}
	for status, want := range cases {
		client := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			io.WriteString(w, `{"error":{"message":"nope"}}`)
		})

		_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "hi"})
		if got := llm.ErrorCode(err); got != want {
			t.Fatalf("status %d: expected %s, got %s (%v)", status, want, got, err)
		}
	}
}

func TestGenerateContentEmptyChoices(t *testing.T) {
	client := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	})

	_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "hi"})
	if llm.ErrorCode(err) != llm.ErrCodeInvalidResponse {
		t.Fatalf("expected invalid response error, got %v", err)
	}
}

func TestGenerateContentRejectsEmptyPrompt(t *testing.T) {
	client := NewClient(&Config{APIKey: "k", Model: "m", BaseURL: "http://127.0.0.1:0"})
	if _, err := client.GenerateContent(context.Background(), &models.GenerationRequest{}); llm.ErrorCode(err) != llm.ErrCodeInvalidInput {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if client.GetProviderName() != "groq" {
		t.Fatal("expected provider name groq")
	}
}
