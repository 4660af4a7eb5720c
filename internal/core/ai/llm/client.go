package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"meal-deals/internal/core/ai/provider"
	"meal-deals/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultBaseURL OpenAI-compatible Groq endpoint
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// Client OpenAI-compatible chat completion client
type Client struct {
	cfg    provider.Config
	client *resty.Client
}

// chatResponse /chat/completions response body
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewClient creates a Client
func NewClient(cfg provider.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

// Generate posts req to /chat/completions and returns the first choice
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, fmt.Errorf("empty completion request")
	}

	body := *req
	if body.Model == "" {
		body.Model = c.cfg.Model
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.cfg.MaxTokens
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send completion request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("completion API returned %d: %s", resp.StatusCode(), truncate(resp.String(), 512))
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse completion response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("completion API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	common.LogDebug("completion received",
		zap.String("model", body.Model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	model := result.Model
	if model == "" {
		model = body.Model
	}
	return &provider.Response{
		Content: result.Choices[0].Message.Content,
		Model:   model,
		Usage:   result.Usage,
	}, nil
}

// GetModel default model
func (c *Client) GetModel() string {
	return c.cfg.Model
}

// GetTimeout request timeout
func (c *Client) GetTimeout() time.Duration {
	return c.cfg.Timeout
}

// Close releases idle connections
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
