package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meal-deals/internal/core/ai/provider"
)

func TestClientGenerate(t *testing.T) {
	var got provider.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"kimi","choices":[{"message":{"content":"{\"recommendations\":[]}"}}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	c := NewClient(provider.Config{APIKey: "test-key", Model: "kimi", BaseURL: srv.URL, MaxTokens: 256})
	resp, err := c.Generate(context.Background(), &provider.Request{
		Messages:    []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Content != `{"recommendations":[]}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 42 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if got.Model != "kimi" || got.MaxTokens != 256 || got.Temperature != 0.7 {
		t.Errorf("request body = %+v", got)
	}
}

func TestClientGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http error", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`, "429"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"bad json", http.StatusOK, `not json`, "parse"},
		{"error body", http.StatusOK, `{"error":{"message":"quota"}}`, "quota"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(provider.Config{Model: "m", BaseURL: srv.URL})
			_, err := c.Generate(context.Background(), &provider.Request{
				Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
			})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestClientGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(provider.Config{Model: "m", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	if _, err := c.Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	}); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestClientRejectsEmptyRequest(t *testing.T) {
	c := NewClient(provider.Config{})
	if _, err := c.Generate(context.Background(), &provider.Request{}); err == nil {
		t.Fatalf("expected error")
	}
	if c.GetTimeout() != 60*time.Second {
		t.Errorf("default timeout = %v", c.GetTimeout())
	}
}
