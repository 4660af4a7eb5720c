package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-deals/internal/core/ai/provider"
	"meal-deals/internal/pkg/common"
	"meal-deals/internal/pkg/metrics"

	"go.uber.org/zap"
)

// DefaultTopK passages placed in the prompt context
const DefaultTopK = 8

const systemPrompt = "You are a helpful restaurant assistant. " +
	"Answer strictly using the provided context. " +
	"If the answer is not in the context, say you do not have that information."

const userPrompt = "Context:\n%s\n\nQuestion:\n%s"

// Generator chat completion backend
type Generator interface {
	Generate(ctx context.Context, req *provider.Request) (*provider.Response, error)
}

// Options chat settings
type Options struct {
	Model       string
	MaxTokens   int
	TopK        int
	HistorySize int
}

// Reply one answered chat turn
type Reply struct {
	SessionID string    `json:"session_id"`
	User      Message   `json:"user"`
	Bot       Message   `json:"bot"`
	Recent    []Message `json:"last_5_messages"`
}

// Service retrieval-grounded restaurant assistant
type Service struct {
	index     *Index
	generator Generator
	history   *History
	opts      Options
}

// NewService creates a Service answering from index
func NewService(index *Index, generator Generator, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if index == nil {
		index = NewIndex(nil)
	}
	return &Service{
		index:     index,
		generator: generator,
		history:   NewHistory(opts.HistorySize),
		opts:      opts,
	}
}

// Chat answers message within sessionID, generating a session id when empty.
// Failed generations leave the history untouched.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, common.ErrInvalidRequest.Wrap(common.NewValidationError("message is required"))
	}
	if sessionID == "" {
		sessionID = common.GenerateUUID()
	}
	if s.generator == nil {
		metrics.ChatMessages.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, common.ErrGenerationUnavailable.Wrap(errors.New("no generator configured"))
	}

	passages := s.index.Search(message, s.opts.TopK)
	req := &provider.Request{
		Model: s.opts.Model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: systemPrompt},
			{Role: provider.RoleUser, Content: fmt.Sprintf(userPrompt, renderContext(passages), message)},
		},
		MaxTokens:   s.opts.MaxTokens,
		Temperature: 0,
	}

	start := time.Now()
	resp, err := s.generator.Generate(ctx, req)
	if err == nil && resp == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		metrics.ChatMessages.WithLabelValues(metrics.OutcomeError).Inc()
		common.LogWarn("chat generation failed",
			zap.String("session_id", sessionID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		if !errors.Is(err, common.ErrGenerationUnavailable) {
			err = common.ErrGenerationUnavailable.Wrap(err)
		}
		return nil, err
	}
	metrics.ChatMessages.WithLabelValues(metrics.OutcomeSuccess).Inc()

	user, bot, recent := s.history.Append(sessionID, message, strings.TrimSpace(resp.Content))
	common.LogInfo("chat answered",
		zap.String("session_id", sessionID),
		zap.Int("passages", len(passages)),
		zap.Duration("duration", time.Since(start)),
	)

	return &Reply{
		SessionID: sessionID,
		User:      user,
		Bot:       bot,
		Recent:    recent,
	}, nil
}

// History returns the retained messages for sessionID
func (s *Service) History(sessionID string) []Message {
	return s.history.Recent(sessionID)
}

func renderContext(passages []Passage) string {
	if len(passages) == 0 {
		return "(no context)"
	}
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}
