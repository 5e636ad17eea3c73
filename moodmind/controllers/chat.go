package controllers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"moodmind/moodmind/services/chatbot"
	"moodmind/moodmind/services/sentiment"
	"moodmind/moodmind/types"
)

// ChatController maps API requests onto per-session chatbots. The
// selector, augmentor and catalog are shared across sessions; memory and
// feedback buffers belong to each session's bot.
type ChatController struct {
	selector  *sentiment.Selector
	augmentor *chatbot.Augmentor
	catalog   *chatbot.Catalog
	store     chatbot.MessageStore // may be nil when the DB is not configured

	mu   sync.Mutex
	bots map[string]*chatbot.Chatbot
}

func NewChatController(selector *sentiment.Selector, augmentor *chatbot.Augmentor, catalog *chatbot.Catalog, store chatbot.MessageStore) *ChatController {
	return &ChatController{
		selector:  selector,
		augmentor: augmentor,
		catalog:   catalog,
		store:     store,
		bots:      make(map[string]*chatbot.Chatbot),
	}
}

func (c *ChatController) botFor(ctx context.Context, sessionID string, userID int) (*chatbot.Chatbot, string) {
	fresh := false
	if sessionID == "" {
		sessionID = uuid.New().String()
		fresh = true
	}
	c.mu.Lock()
	bot, ok := c.bots[sessionID]
	if !ok {
		bot = chatbot.New(c.selector, c.augmentor, c.catalog, c.store, sessionID, userID)
		c.bots[sessionID] = bot
	}
	c.mu.Unlock()
	if !ok && !fresh {
		// resumed session: warm the buffer from persistence
		bot.SeedHistory(ctx)
	}
	return bot, sessionID
}

// Chat runs one conversation turn.
func (c *ChatController) Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	bot, sessionID := c.botFor(ctx, req.SessionID, req.UserID)
	turn := bot.ProcessMessage(ctx, req.Content)
	return types.ChatResponse{
		Response:  turn.Reply,
		SessionID: sessionID,
		State:     string(turn.State),
		Sentiment: turn.Sentiment,
	}, nil
}

// Feedback records user feedback about a previous reply.
func (c *ChatController) Feedback(ctx context.Context, req types.FeedbackRequest) error {
	kind := types.FeedbackKind(req.Kind)
	switch kind {
	case types.FeedbackPositive, types.FeedbackNegative, types.FeedbackSuggestion:
	default:
		return fmt.Errorf("unknown feedback kind %q", req.Kind)
	}
	if req.SessionID == "" {
		return fmt.Errorf("session_id required")
	}
	bot, _ := c.botFor(ctx, req.SessionID, req.UserID)
	bot.AddFeedback(ctx, &types.ChatFeedback{
		UserMessage: req.UserMessage,
		BotResponse: req.BotResponse,
		Kind:        kind,
		Comment:     req.Comment,
		UserID:      req.UserID,
		Timestamp:   time.Now(),
	})
	return nil
}

// DiagnosticsResponse is observability output only.
type DiagnosticsResponse struct {
	Selector       sentiment.Diagnostics `json:"selector"`
	AugmentorCalls int                   `json:"augmentor_calls_today"`
	ActiveSessions int                   `json:"active_sessions"`
}

func (c *ChatController) Diagnostics(ctx context.Context) DiagnosticsResponse {
	c.mu.Lock()
	sessions := len(c.bots)
	c.mu.Unlock()
	return DiagnosticsResponse{
		Selector:       c.selector.Diagnostics(ctx),
		AugmentorCalls: c.augmentor.CallCount(),
		ActiveSessions: sessions,
	}
}

// SetBackend switches the preferred analyzer backend at runtime. The
// selector may settle on a lower-preference backend; the effective kind
// is returned.
func (c *ChatController) SetBackend(ctx context.Context, kind string) (sentiment.Kind, error) {
	k := sentiment.Kind(kind)
	switch k {
	case sentiment.KindRemote, sentiment.KindLocal, sentiment.KindStub:
	default:
		return "", fmt.Errorf("unknown backend kind %q", kind)
	}
	c.selector.SetKind(ctx, k)
	return c.selector.Kind(), nil
}

// ReloadBackend drops the cached backend so the next turn re-probes.
func (c *ChatController) ReloadBackend(ctx context.Context) sentiment.Kind {
	c.selector.Reload(ctx)
	return c.selector.Kind()
}
