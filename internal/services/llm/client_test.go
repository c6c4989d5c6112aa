package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}, "finish_reason": "stop"},
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode completion: %v", err)
	}
	return encoded
}

func TestCompleteJSONSendsHeadersAndPayload(t *testing.T) {
	var gotAuth, gotReferer, gotTitle string
	var gotBody chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, `{"same_company": true}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Model:   "meta-llama/llama-3.1-70b-instruct",
		Referer: "https://example.com/unify",
		Title:   "unify",
	})

	content, err := client.CompleteJSON(context.Background(), "you are a judge", "compare these")
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if content != `{"same_company": true}` {
		t.Fatalf("unexpected content: %q", content)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("authorization header: %q", gotAuth)
	}
	if gotReferer != "https://example.com/unify" || gotTitle != "unify" {
		t.Fatalf("attribution headers: referer=%q title=%q", gotReferer, gotTitle)
	}
	if gotBody.Model != "meta-llama/llama-3.1-70b-instruct" {
		t.Fatalf("model: %q", gotBody.Model)
	}
	if gotBody.ResponseFormat["type"] != "json_object" {
		t.Fatalf("response format: %v", gotBody.ResponseFormat)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("messages: %+v", gotBody.Messages)
	}
}

func TestCompleteJSONRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(completionBody(t, `{"ok": true}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "sk-test", BaseURL: server.URL, Model: "m"},
		WithRetryMaxAttempts(3),
		WithRetryBackoff(10*time.Millisecond, 40*time.Millisecond),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)

	content, err := client.CompleteJSON(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if content != `{"ok": true}` {
		t.Fatalf("content: %q", content)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(slept) != 2 || slept[0] != 10*time.Millisecond || slept[1] != 20*time.Millisecond {
		t.Fatalf("backoff delays: %v", slept)
	}
}

func TestCompleteJSONHonorsRetryAfter(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(completionBody(t, `{}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "sk-test", BaseURL: server.URL, Model: "m"},
		WithRetryMaxAttempts(2),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)

	if _, err := client.CompleteJSON(context.Background(), "sys", "user"); err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Fatalf("expected Retry-After delay, got %v", slept)
	}
}

func TestCompleteJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "sk-bad", BaseURL: server.URL, Model: "m"},
		WithRetryMaxAttempts(3),
		WithSleeper(func(time.Duration) {}),
	)

	if _, err := client.CompleteJSON(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error for 401 response")
	}
	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}
}

func TestCompleteJSONRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{Model: "m"})
	if _, err := client.CompleteJSON(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestDecodeJSON(t *testing.T) {
	type verdict struct {
		Same       bool    `json:"same_company"`
		Confidence float64 `json:"confidence"`
	}

	tests := []struct {
		name    string
		content string
		wantErr bool
		want    verdict
	}{
		{
			name:    "plain object",
			content: `{"same_company": true, "confidence": 0.9}`,
			want:    verdict{Same: true, Confidence: 0.9},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"same_company\": true, \"confidence\": 0.8}\n```",
			want:    verdict{Same: true, Confidence: 0.8},
		},
		{
			name:    "fence without language",
			content: "```\n{\"same_company\": false, \"confidence\": 0.4}\n```",
			want:    verdict{Confidence: 0.4},
		},
		{
			name:    "prose around object",
			content: `Here is my answer: {"same_company": true, "confidence": 0.75} hope that helps`,
			want:    verdict{Same: true, Confidence: 0.75},
		},
		{
			name:    "empty",
			content: "   ",
			wantErr: true,
		},
		{
			name:    "not json",
			content: "the companies look identical to me",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got verdict
			err := DecodeJSON(tc.content, &got)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected decode error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
