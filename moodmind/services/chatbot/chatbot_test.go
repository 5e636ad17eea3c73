package chatbot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"moodmind/moodmind/services/sentiment"
	"moodmind/moodmind/types"
)

// spyService counts analyzer invocations and returns fixed scores.
type spyService struct {
	mu       sync.Mutex
	analyzed int
	reply    string
}

func (s *spyService) Analyze(ctx context.Context, text string, userID int) *types.SentimentResult {
	s.mu.Lock()
	s.analyzed++
	s.mu.Unlock()
	r := types.NewSentimentResult(text, userID, 0.6, 0.1, 0.3)
	r.AnalysisSource = "spy"
	return r
}

func (s *spyService) AnalyzeAsync(ctx context.Context, text string, userID int) <-chan *types.SentimentResult {
	ch := make(chan *types.SentimentResult, 1)
	ch <- s.Analyze(ctx, text, userID)
	return ch
}

func (s *spyService) BotReply(result *types.SentimentResult) string { return s.reply }
func (s *spyService) Available(ctx context.Context) bool            { return true }
func (s *spyService) Source() string                                { return "spy" }

func (s *spyService) analyzeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzed
}

// fakeStore records persistence calls.
type fakeStore struct {
	mu       sync.Mutex
	saved    []*types.ChatMessage
	feedback []*types.ChatFeedback
	seed     []*types.ChatMessage
}

func (f *fakeStore) Save(ctx context.Context, sessionID string, userID int, msg *types.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeStore) FindRecent(ctx context.Context, userID int, limit int) ([]*types.ChatMessage, error) {
	return f.seed, nil
}

func (f *fakeStore) SaveFeedback(ctx context.Context, sessionID string, fb *types.ChatFeedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, fb)
	return nil
}

func newTestBot(spy *spyService, store MessageStore, openAIBase string) *Chatbot {
	selector := sentiment.NewSelector(spy, spy, spy)
	cfg := testOpenAIConfig(openAIBase)
	if openAIBase == "" {
		cfg.APIKey = "" // augmentation declines immediately
	}
	return New(selector, NewAugmentor(cfg), DefaultCatalog(), store, "session-1", 1)
}

func containsReply(pool []string, reply string) bool {
	for _, r := range pool {
		if r == reply {
			return true
		}
	}
	return false
}

func TestGreetingShortCircuitsAnalysis(t *testing.T) {
	spy := &spyService{reply: "canned"}
	bot := newTestBot(spy, nil, "")

	turn := bot.ProcessMessage(context.Background(), "Hello")
	if turn.State != TurnGreeted {
		t.Errorf("expected greeted state, got %q", turn.State)
	}
	if !containsReply(bot.catalog.Greetings, turn.Reply) {
		t.Errorf("reply %q not in greetings pool", turn.Reply)
	}
	if turn.Sentiment != nil {
		t.Error("greeting turn should carry no sentiment")
	}
	if spy.analyzeCalls() != 0 {
		t.Errorf("greeting should not invoke the analyzer, got %d calls", spy.analyzeCalls())
	}
}

func TestShortMessageAsksAboutMood(t *testing.T) {
	spy := &spyService{reply: "canned"}
	bot := newTestBot(spy, nil, "")

	turn := bot.ProcessMessage(context.Background(), "ok")
	if turn.State != TurnShortCircuited {
		t.Errorf("expected short-circuited state, got %q", turn.State)
	}
	if !containsReply(bot.catalog.MoodInquiries, turn.Reply) {
		t.Errorf("reply %q not in mood inquiry pool", turn.Reply)
	}
	if spy.analyzeCalls() != 0 {
		t.Errorf("short message should not invoke the analyzer, got %d calls", spy.analyzeCalls())
	}
}

func TestEmptyMessageFallsBack(t *testing.T) {
	spy := &spyService{reply: "canned"}
	bot := newTestBot(spy, nil, "")

	turn := bot.ProcessMessage(context.Background(), "   ")
	if turn.State != TurnShortCircuited {
		t.Errorf("expected short-circuited state, got %q", turn.State)
	}
	if !containsReply(bot.catalog.Fallback, turn.Reply) {
		t.Errorf("reply %q not in fallback pool", turn.Reply)
	}
}

func TestNormalTurnUsesBackendReply(t *testing.T) {
	spy := &spyService{reply: "I'm glad you're feeling positive today."}
	bot := newTestBot(spy, nil, "")

	turn := bot.ProcessMessage(context.Background(), "today has been going really well for me")
	if turn.State != TurnFallback {
		t.Errorf("expected fallback state without augmentation, got %q", turn.State)
	}
	if turn.Reply != spy.reply {
		t.Errorf("expected backend reply %q, got %q", spy.reply, turn.Reply)
	}
	if turn.Sentiment == nil || turn.Sentiment.AnalysisSource != "spy" {
		t.Errorf("expected spy sentiment attached, got %+v", turn.Sentiment)
	}
	if spy.analyzeCalls() != 1 {
		t.Errorf("expected 1 analyzer call, got %d", spy.analyzeCalls())
	}
	if bot.memory.Len() != 2 {
		t.Errorf("expected user+bot messages in memory, got %d", bot.memory.Len())
	}
	if bot.augmentor.HistoryLen() != 1 {
		t.Errorf("expected exchange recorded, got %d", bot.augmentor.HistoryLen())
	}
}

func TestConsecutiveRepliesNeverRepeat(t *testing.T) {
	spy := &spyService{reply: "the same canned line"}
	bot := newTestBot(spy, nil, "")

	first := bot.ProcessMessage(context.Background(), "everything is going fine over here")
	second := bot.ProcessMessage(context.Background(), "everything is going fine over here")

	if first.Reply == second.Reply {
		t.Errorf("consecutive replies should differ, both were %q", first.Reply)
	}
	if second.State != TurnFallback {
		t.Errorf("expected fallback state, got %q", second.State)
	}
}

func TestAugmentedReplyWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fakeCompletion))
	}))
	defer srv.Close()

	spy := &spyService{reply: "canned"}
	bot := newTestBot(spy, nil, srv.URL)

	turn := bot.ProcessMessage(context.Background(), "I had a long and complicated day at work")
	if turn.State != TurnAugmented {
		t.Fatalf("expected augmented state, got %q", turn.State)
	}
	if turn.Reply != "Augmented reply" {
		t.Errorf("expected augmented text, got %q", turn.Reply)
	}
}

func TestSlowAugmentationFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fakeCompletion))
	}))
	defer srv.Close()

	spy := &spyService{reply: "canned fallback line"}
	bot := newTestBot(spy, nil, srv.URL)
	bot.wait = 20 * time.Millisecond

	turn := bot.ProcessMessage(context.Background(), "there is a lot on my mind right now")
	if turn.State != TurnFallback {
		t.Errorf("expected fallback after timeout, got %q", turn.State)
	}
	if turn.Reply != spy.reply {
		t.Errorf("expected backend reply %q, got %q", spy.reply, turn.Reply)
	}
}

func TestTurnPersistsMessages(t *testing.T) {
	spy := &spyService{reply: "canned"}
	store := &fakeStore{}
	bot := newTestBot(spy, store, "")

	bot.ProcessMessage(context.Background(), "writing down how the week has felt")
	if len(store.saved) != 2 {
		t.Fatalf("expected user+bot messages persisted, got %d", len(store.saved))
	}
	if store.saved[0].Role != types.RoleUser || store.saved[1].Role != types.RoleAssistant {
		t.Errorf("unexpected persisted roles %q, %q", store.saved[0].Role, store.saved[1].Role)
	}
	if store.saved[0].Sentiment == nil {
		t.Error("persisted user message should carry its sentiment")
	}
}

func TestSeedHistoryWarmsMemory(t *testing.T) {
	spy := &spyService{reply: "canned"}
	store := &fakeStore{seed: []*types.ChatMessage{
		types.NewChatMessage("earlier message", types.RoleUser),
		types.NewChatMessage("earlier reply", types.RoleAssistant),
	}}
	bot := newTestBot(spy, store, "")

	bot.SeedHistory(context.Background())
	if bot.memory.Len() != 2 {
		t.Errorf("expected 2 seeded messages, got %d", bot.memory.Len())
	}
}

func TestAddFeedbackStoresAndPersists(t *testing.T) {
	spy := &spyService{reply: "canned"}
	store := &fakeStore{}
	bot := newTestBot(spy, store, "")

	bot.AddFeedback(context.Background(), &types.ChatFeedback{
		UserMessage: "m", BotResponse: "r", Kind: types.FeedbackNegative, Comment: "off topic",
	})
	if bot.feedback.Len() != 1 {
		t.Errorf("expected 1 buffered feedback entry, got %d", bot.feedback.Len())
	}
	if len(store.feedback) != 1 {
		t.Errorf("expected feedback persisted, got %d", len(store.feedback))
	}

	bot.AddFeedback(context.Background(), nil)
	if bot.feedback.Len() != 1 {
		t.Error("nil feedback should be ignored")
	}
}
