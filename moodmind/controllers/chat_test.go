package controllers

import (
	"context"
	"testing"

	"moodmind/moodmind/config"
	"moodmind/moodmind/services/chatbot"
	"moodmind/moodmind/services/sentiment"
	"moodmind/moodmind/types"
)

type stubBackend struct{}

func (stubBackend) Analyze(ctx context.Context, text string, userID int) *types.SentimentResult {
	r := types.NewSentimentResult(text, userID, 0.2, 0.1, 0.7)
	r.AnalysisSource = "test"
	return r
}

func (s stubBackend) AnalyzeAsync(ctx context.Context, text string, userID int) <-chan *types.SentimentResult {
	ch := make(chan *types.SentimentResult, 1)
	ch <- s.Analyze(ctx, text, userID)
	return ch
}

func (stubBackend) BotReply(result *types.SentimentResult) string { return "test reply" }
func (stubBackend) Available(ctx context.Context) bool            { return true }
func (stubBackend) Source() string                                { return "test" }

func newTestController() *ChatController {
	backend := stubBackend{}
	selector := sentiment.NewSelector(backend, backend, backend)
	augmentor := chatbot.NewAugmentor(config.OpenAIConfig{}) // no key, augmentation declines
	return NewChatController(selector, augmentor, chatbot.DefaultCatalog(), nil)
}

func TestChatAssignsSessionID(t *testing.T) {
	ctrl := newTestController()
	resp, err := ctrl.Chat(context.Background(), types.ChatRequest{UserID: 1, Content: "hello"})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if resp.Response == "" {
		t.Error("expected a reply")
	}

	// the same session id should reuse the same bot
	again, err := ctrl.Chat(context.Background(), types.ChatRequest{SessionID: resp.SessionID, UserID: 1, Content: "hello"})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if again.SessionID != resp.SessionID {
		t.Errorf("session id changed: %q -> %q", resp.SessionID, again.SessionID)
	}

	ctrl.mu.Lock()
	bots := len(ctrl.bots)
	ctrl.mu.Unlock()
	if bots != 1 {
		t.Errorf("expected 1 bot, got %d", bots)
	}
}

func TestFeedbackValidation(t *testing.T) {
	ctrl := newTestController()

	err := ctrl.Feedback(context.Background(), types.FeedbackRequest{
		SessionID: "s1", UserID: 1, UserMessage: "m", BotResponse: "r", Kind: "sideways",
	})
	if err == nil {
		t.Error("expected error for unknown feedback kind")
	}

	err = ctrl.Feedback(context.Background(), types.FeedbackRequest{
		UserID: 1, UserMessage: "m", BotResponse: "r", Kind: "positive",
	})
	if err == nil {
		t.Error("expected error for missing session id")
	}

	err = ctrl.Feedback(context.Background(), types.FeedbackRequest{
		SessionID: "s1", UserID: 1, UserMessage: "m", BotResponse: "r", Kind: "positive",
	})
	if err != nil {
		t.Errorf("valid feedback rejected: %v", err)
	}
}

func TestSetBackend(t *testing.T) {
	ctrl := newTestController()

	kind, err := ctrl.SetBackend(context.Background(), "local")
	if err != nil {
		t.Fatalf("set backend: %v", err)
	}
	if kind != sentiment.KindLocal {
		t.Errorf("expected local, got %q", kind)
	}

	if _, err := ctrl.SetBackend(context.Background(), "imaginary"); err == nil {
		t.Error("expected error for unknown backend kind")
	}
}

func TestDiagnostics(t *testing.T) {
	ctrl := newTestController()
	ctrl.Chat(context.Background(), types.ChatRequest{UserID: 1, Content: "hello"})

	d := ctrl.Diagnostics(context.Background())
	if d.ActiveSessions != 1 {
		t.Errorf("expected 1 active session, got %d", d.ActiveSessions)
	}
	if !d.Selector.RemoteHealthy || !d.Selector.LocalHealthy {
		t.Errorf("stub backends should report healthy: %+v", d.Selector)
	}
}
