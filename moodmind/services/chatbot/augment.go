package chatbot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"moodmind/moodmind/config"
	"moodmind/moodmind/types"
	"moodmind/moodmind/utils/logging"
)

// Outcome distinguishes a generated reply from the two no-reply cases so
// callers cannot mistake "augmentation declined" for an application error.
type Outcome int

const (
	// OutcomeGenerated carries a usable reply.
	OutcomeGenerated Outcome = iota
	// OutcomeDeclined means augmentation was skipped on purpose (quota
	// reached, config invalid, empty completion).
	OutcomeDeclined
	// OutcomeFailed means the call was attempted and broke (network,
	// malformed response). The orchestrator treats it like declined.
	OutcomeFailed
)

// Result is the outcome of one augmentation attempt.
type Result struct {
	Text    string
	Outcome Outcome
	Err     error
}

func Generated(text string) Result { return Result{Text: text, Outcome: OutcomeGenerated} }
func Declined() Result             { return Result{Outcome: OutcomeDeclined} }
func Failed(err error) Result      { return Result{Outcome: OutcomeFailed, Err: err} }

// contextWindow is how many recent messages go into the prompt.
const contextWindow = 5

// feedbackWindow is how many recent feedback entries are summarized.
const feedbackWindow = 3

// Augmentor attempts higher-quality replies through a chat-completions
// endpoint, under a daily call quota. The quota counter rolls over when
// the calendar day changes (local time) and can also be reset manually.
type Augmentor struct {
	cfg     config.OpenAIConfig
	client  openai.Client
	history *TrainingHistory

	mu    sync.Mutex
	calls int
	day   string

	now func() time.Time
}

func NewAugmentor(cfg config.OpenAIConfig) *Augmentor {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}
	return &Augmentor{
		cfg:     cfg,
		client:  openai.NewClient(opts...),
		history: NewTrainingHistory(),
		now:     time.Now,
	}
}

// Generate builds the enriched prompt and issues one completion call.
// Every failure mode maps to a non-Generated Result; it never panics
// through to the caller's turn.
func (a *Augmentor) Generate(ctx context.Context, userMessage string, recent []*types.ChatMessage, feedback []*types.ChatFeedback, sentiment *types.SentimentResult) Result {
	defer logging.LogDuration(ctx, "augmentor_generate")()

	if !a.cfg.Valid() {
		return Declined()
	}
	if !a.takeQuota() {
		logging.AppLogger.Warn("daily augmentation limit reached",
			zap.Int("limit", a.cfg.DailyLimit))
		return Declined()
	}

	messages := a.buildMessages(userMessage, recent, feedback, sentiment)

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.cfg.Model),
		Temperature: openai.Float(a.cfg.Temperature),
		MaxTokens:   openai.Int(int64(a.cfg.MaxTokens)),
		Messages:    messages,
	}

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logging.ErrorLogger.Error("augmentation call failed", zap.Error(err))
		return Failed(err)
	}
	if len(completion.Choices) == 0 {
		return Declined()
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return Declined()
	}

	logging.AppLogger.Info("generated augmented reply")
	return Generated(content)
}

func (a *Augmentor) buildMessages(userMessage string, recent []*types.ChatMessage, feedback []*types.ChatFeedback, sentiment *types.SentimentResult) []openai.ChatCompletionMessageParamUnion {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(a.buildSystemPrompt(sentiment)),
	}

	start := len(recent) - contextWindow
	if start < 0 {
		start = 0
	}
	for _, msg := range recent[start:] {
		if msg.Role == types.RoleUser {
			messages = append(messages, openai.UserMessage(msg.Content))
		} else {
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}

	if summary := summarizeFeedback(feedback); summary != "" {
		messages = append(messages, openai.SystemMessage(summary))
	}

	return append(messages, openai.UserMessage(userMessage))
}

func (a *Augmentor) buildSystemPrompt(sentiment *types.SentimentResult) string {
	var prompt strings.Builder
	prompt.WriteString(a.cfg.SystemPrompt)

	if sentiment != nil {
		fmt.Fprintf(&prompt, "\n\nThe user's current message has been analyzed as %s", sentiment.DominantSentiment)
		if sentiment.SpecificEmotion != "" {
			fmt.Fprintf(&prompt, " with a specific emotion of %s", sentiment.SpecificEmotion)
		}
		if approach := sentiment.MetadataValue("therapeutic_approach"); approach != "" {
			fmt.Fprintf(&prompt, ".\n\nRecommended therapeutic approach: %s", approach)
		}
		if needs := sentiment.MetadataValue("conversation_needs"); needs != "" {
			fmt.Fprintf(&prompt, ".\nConversation needs: %s", needs)
		}
		prompt.WriteString(".")
	}

	prompt.WriteString("\n\nYour response should be empathetic, supportive, and helpful. " +
		"Avoid being repetitive or generic. Respond directly to what the user has shared " +
		"and provide thoughtful, personalized insights or gentle guidance when appropriate.")

	return prompt.String()
}

// summarizeFeedback folds the most recent feedback entries into a system
// message so the model can steer away from replies users disliked.
func summarizeFeedback(feedback []*types.ChatFeedback) string {
	if len(feedback) == 0 {
		return ""
	}
	start := len(feedback) - feedbackWindow
	if start < 0 {
		start = 0
	}

	var summary strings.Builder
	summary.WriteString("Recent user feedback about your responses:\n")
	for _, fb := range feedback[start:] {
		fmt.Fprintf(&summary, "\nUser message: %q\n", fb.UserMessage)
		fmt.Fprintf(&summary, "Your response: %q\n", fb.BotResponse)
		fmt.Fprintf(&summary, "Feedback type: %s\n", fb.Kind)
		fmt.Fprintf(&summary, "Feedback content: %q\n", fb.Comment)
		if fb.SentimentType != "" {
			summary.WriteString("Sentiment: " + fb.SentimentType)
			if fb.SpecificEmotion != "" {
				summary.WriteString(" (" + fb.SpecificEmotion + ")")
			}
			summary.WriteString("\n")
		}
		summary.WriteString("---\n")
	}
	summary.WriteString("\nPlease use this feedback to improve your responses.")
	return summary.String()
}

// takeQuota consumes one call from today's budget, rolling the counter
// over at the day boundary.
func (a *Augmentor) takeQuota() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	today := a.now().Format("2006-01-02")
	if a.day != today {
		a.day = today
		a.calls = 0
	}
	if a.cfg.DailyLimit > 0 && a.calls >= a.cfg.DailyLimit {
		return false
	}
	a.calls++
	return true
}

// CallCount returns today's consumed quota.
func (a *Augmentor) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// ResetCalls zeroes the quota counter immediately (the automatic
// day-boundary rollover still applies).
func (a *Augmentor) ResetCalls() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = 0
}

// RecordExchange keeps a completed turn for future prompt context,
// independent of whether augmentation produced it.
func (a *Augmentor) RecordExchange(userMessage, botResponse string, sentiment *types.SentimentResult) {
	a.history.Record(userMessage, botResponse, sentiment)
}

// HistoryLen reports how many exchanges are currently recorded.
func (a *Augmentor) HistoryLen() int {
	return a.history.Len()
}
