package provider

import (
	"context"
	"time"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message one chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request a chat completion request
type Request struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// Usage token accounting reported by the provider
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response completion text and usage
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Provider chat completion backend
type Provider interface {
	// Generate runs one completion
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel default model name
	GetModel() string

	// GetTimeout per-request timeout
	GetTimeout() time.Duration

	// Close releases idle connections
	Close() error
}

// Config provider settings
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}
