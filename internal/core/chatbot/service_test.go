package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"meal-deals/internal/core/ai/provider"
	"meal-deals/internal/pkg/common"
)

type stubGenerator struct {
	reply string
	err   error
	last  *provider.Request
}

func (g *stubGenerator) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	return &provider.Response{Content: g.reply}, nil
}

func TestChat(t *testing.T) {
	gen := &stubGenerator{reply: " Karahi takes 25 minutes. "}
	svc := NewService(NewIndex(samplePassages()), gen, Options{Model: "chat-model", TopK: 2})

	reply, err := svc.Chat(context.Background(), "", "How long does the karahi take?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.SessionID == "" {
		t.Error("session id not generated")
	}
	if reply.User.Message != "How long does the karahi take?" || reply.Bot.Reply != "Karahi takes 25 minutes." {
		t.Errorf("reply = %+v", reply)
	}
	if len(reply.Recent) != 2 {
		t.Errorf("recent = %+v", reply.Recent)
	}

	if gen.last.Model != "chat-model" || gen.last.Temperature != 0 {
		t.Errorf("request = %+v", gen.last)
	}
	if !strings.Contains(gen.last.Messages[0].Content, "Answer strictly using the provided context") {
		t.Errorf("system prompt = %q", gen.last.Messages[0].Content)
	}
	user := gen.last.Messages[1].Content
	if !strings.Contains(user, "cooked fresh") || !strings.HasSuffix(user, "Question:\nHow long does the karahi take?") {
		t.Errorf("user prompt = %q", user)
	}

	next, err := svc.Chat(context.Background(), reply.SessionID, "Is delivery free?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if next.User.ID != 2 || len(next.Recent) != 4 {
		t.Errorf("second turn = %+v", next)
	}
	if len(svc.History(reply.SessionID)) != 4 {
		t.Errorf("history not retained")
	}
}

func TestChatNoContext(t *testing.T) {
	gen := &stubGenerator{reply: "I do not have that information."}
	svc := NewService(nil, gen, Options{})
	if _, err := svc.Chat(context.Background(), "s", "parking?"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !strings.Contains(gen.last.Messages[1].Content, "(no context)") {
		t.Errorf("user prompt = %q", gen.last.Messages[1].Content)
	}
}

func TestChatErrors(t *testing.T) {
	svc := NewService(NewIndex(samplePassages()), &stubGenerator{err: errors.New("timeout")}, Options{})

	if _, err := svc.Chat(context.Background(), "s", "  "); !errors.Is(err, common.ErrInvalidRequest) {
		t.Errorf("empty message error = %v", err)
	}

	_, err := svc.Chat(context.Background(), "s", "hours?")
	if !errors.Is(err, common.ErrGenerationUnavailable) {
		t.Fatalf("error = %v, want ErrGenerationUnavailable", err)
	}
	if len(svc.History("s")) != 0 {
		t.Error("failed turn recorded in history")
	}

	if _, err := NewService(nil, nil, Options{}).Chat(context.Background(), "s", "hi"); !errors.Is(err, common.ErrGenerationUnavailable) {
		t.Errorf("nil generator error = %v", err)
	}
}
