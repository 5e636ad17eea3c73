package chatbot

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"moodmind/moodmind/services/sentiment"
	"moodmind/moodmind/types"
	"moodmind/moodmind/utils/logging"
)

// augmentWait is the hard deadline for the augmentation attempt. A late
// result is discarded, not queued.
const augmentWait = 5 * time.Second

// shortMessageLen is the cutoff below which messages carry too little
// signal for sentiment analysis.
const shortMessageLen = 5

// TurnState names the terminal state of one processed turn.
type TurnState string

const (
	TurnGreeted        TurnState = "greeted"
	TurnShortCircuited TurnState = "short_circuited"
	TurnAugmented      TurnState = "augmented_reply_sent"
	TurnFallback       TurnState = "fallback_reply_sent"
)

// Turn is the outcome of one processed message: exactly one reply, plus
// the sentiment that was computed (absent for short-circuited turns).
type Turn struct {
	Reply     string
	State     TurnState
	Sentiment *types.SentimentResult
}

// MessageStore is the persistence collaborator. Failures are logged at
// this boundary and never abort a turn.
type MessageStore interface {
	Save(ctx context.Context, sessionID string, userID int, msg *types.ChatMessage) error
	FindRecent(ctx context.Context, userID int, limit int) ([]*types.ChatMessage, error)
	SaveFeedback(ctx context.Context, sessionID string, fb *types.ChatFeedback) error
}

// Chatbot runs the per-message pipeline for one conversation. Turns within
// a conversation are serialized; separate conversations share only the
// selector and the augmentor (whose quota is global by design).
type Chatbot struct {
	selector  *sentiment.Selector
	augmentor *Augmentor
	catalog   *Catalog
	store     MessageStore // may be nil
	sessionID string
	userID    int

	memory   *Memory
	feedback *FeedbackStore

	mu        sync.Mutex
	lastReply string
	rng       *rand.Rand
	wait      time.Duration
}

func New(selector *sentiment.Selector, augmentor *Augmentor, catalog *Catalog, store MessageStore, sessionID string, userID int) *Chatbot {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Chatbot{
		selector:  selector,
		augmentor: augmentor,
		catalog:   catalog,
		store:     store,
		sessionID: sessionID,
		userID:    userID,
		memory:    NewMemory(),
		feedback:  NewFeedbackStore(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		wait:      augmentWait,
	}
}

// SeedHistory preloads the conversation buffer from persistence. Failures
// leave the buffer empty; the conversation still works.
func (b *Chatbot) SeedHistory(ctx context.Context) {
	if b.store == nil {
		return
	}
	msgs, err := b.store.FindRecent(ctx, b.userID, MaxRecentMessages)
	if err != nil {
		logging.ErrorLogger.Error("failed to seed conversation history", zap.Error(err))
		return
	}
	for _, msg := range msgs {
		b.memory.Add(msg)
	}
}

// AddFeedback records user feedback for augmentation prompts and
// persistence.
func (b *Chatbot) AddFeedback(ctx context.Context, fb *types.ChatFeedback) {
	if fb == nil {
		return
	}
	b.feedback.Add(fb)
	if b.store != nil {
		if err := b.store.SaveFeedback(ctx, b.sessionID, fb); err != nil {
			logging.ErrorLogger.Error("failed to persist feedback", zap.Error(err))
		}
	}
	logging.AppLogger.Info("recorded user feedback", zap.String("kind", string(fb.Kind)))
}

// ProcessMessage runs one turn and always returns exactly one reply.
func (b *Chatbot) ProcessMessage(ctx context.Context, userMessage string) Turn {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer logging.LogDuration(ctx, "chatbot_process_message")()

	trimmed := strings.TrimSpace(userMessage)
	if trimmed == "" {
		return Turn{Reply: b.randomReply(b.catalog.Fallback), State: TurnShortCircuited}
	}

	userMsg := types.NewChatMessage(userMessage, types.RoleUser)
	b.memory.Add(userMsg)

	lower := strings.ToLower(trimmed)

	if IsGreeting(lower) {
		reply := b.nonRepeatingReply(b.catalog.Greetings)
		b.finishTurn(ctx, userMsg, reply, nil)
		return Turn{Reply: reply, State: TurnGreeted}
	}

	if len([]rune(lower)) < shortMessageLen {
		reply := b.nonRepeatingReply(b.catalog.MoodInquiries)
		b.finishTurn(ctx, userMsg, reply, nil)
		return Turn{Reply: reply, State: TurnShortCircuited}
	}

	svc := b.selector.Active(ctx)
	result := svc.Analyze(ctx, userMessage, b.userID)
	userMsg.Sentiment = result

	reply, state := b.composeReply(ctx, svc, userMessage, result)

	// never repeat the previous reply verbatim
	if reply == "" || reply == b.lastReply {
		reply = b.sentimentBucketReply(result)
		state = TurnFallback
	}

	botMsg := types.NewChatMessage(reply, types.RoleAssistant)
	botMsg.RelatedSentiment = result
	b.finishTurn(ctx, userMsg, reply, botMsg)

	b.augmentor.RecordExchange(userMessage, reply, result)

	logging.AppLogger.Debug("generated reply",
		zap.String("sentiment", result.DominantSentiment),
		zap.String("state", string(state)),
	)
	return Turn{Reply: reply, State: state, Sentiment: result}
}

// composeReply races the augmentation attempt against the deadline and
// falls back to the backend's canned reply. Augmentation panics and
// errors are absorbed here; a late augmentation result is dropped.
func (b *Chatbot) composeReply(ctx context.Context, svc sentiment.Service, userMessage string, result *types.SentimentResult) (string, TurnState) {
	resCh := make(chan Result, 1)
	recent := b.memory.Recent(contextWindow)
	feedback := b.feedback.Recent(feedbackWindow)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.ErrorLogger.Error("augmentation panicked", zap.Any("panic", r))
				resCh <- Failed(fmt.Errorf("augmentation panic: %v", r))
			}
		}()
		resCh <- b.augmentor.Generate(ctx, userMessage, recent, feedback, result)
	}()

	timer := time.NewTimer(b.wait)
	defer timer.Stop()

	select {
	case res := <-resCh:
		if res.Outcome == OutcomeGenerated && strings.TrimSpace(res.Text) != "" {
			return res.Text, TurnAugmented
		}
	case <-timer.C:
		logging.AppLogger.Warn("augmentation timed out, using fallback reply")
	}

	return svc.BotReply(result), TurnFallback
}

// finishTurn records the exchange into memory and persistence and updates
// the dedup state. botMsg is nil for short-circuited turns, whose replies
// are built here instead.
func (b *Chatbot) finishTurn(ctx context.Context, userMsg *types.ChatMessage, reply string, botMsg *types.ChatMessage) {
	if botMsg == nil {
		botMsg = types.NewChatMessage(reply, types.RoleAssistant)
	}
	b.memory.Add(botMsg)
	b.lastReply = reply

	if b.store == nil {
		return
	}
	if err := b.store.Save(ctx, b.sessionID, b.userID, userMsg); err != nil {
		logging.ErrorLogger.Error("failed to persist user message", zap.Error(err))
	}
	if err := b.store.Save(ctx, b.sessionID, b.userID, botMsg); err != nil {
		logging.ErrorLogger.Error("failed to persist bot message", zap.Error(err))
	}
}

// sentimentBucketReply picks a fresh canned reply for the result's
// sentiment, preferring an emotion-specific template when one exists.
func (b *Chatbot) sentimentBucketReply(result *types.SentimentResult) string {
	if result != nil && result.SpecificEmotion != "" {
		if reply, ok := b.catalog.Emotions[result.SpecificEmotion]; ok && reply != b.lastReply {
			return reply
		}
	}
	pool := b.catalog.Neutral
	if result != nil {
		pool = b.catalog.ForSentiment(result.DominantSentiment)
	}
	return b.nonRepeatingReply(pool)
}

// nonRepeatingReply samples uniformly, resampling until the pick differs
// from the last reply whenever the pool has more than one option.
func (b *Chatbot) nonRepeatingReply(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	if len(pool) == 1 {
		return pool[0]
	}
	reply := pool[b.rng.Intn(len(pool))]
	for reply == b.lastReply {
		reply = pool[b.rng.Intn(len(pool))]
	}
	return reply
}

func (b *Chatbot) randomReply(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[b.rng.Intn(len(pool))]
}

// SessionID returns the conversation's session identifier.
func (b *Chatbot) SessionID() string { return b.sessionID }
