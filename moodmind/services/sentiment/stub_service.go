package sentiment

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"moodmind/moodmind/types"
	"moodmind/moodmind/utils/logging"

	"go.uber.org/zap"
)

var stubPositiveWords = []string{
	"happy", "good", "great", "excellent", "wonderful", "love", "joy",
	"excited", "amazing", "fantastic", "delighted", "glad", "pleased",
}

var stubNegativeWords = []string{
	"sad", "bad", "terrible", "awful", "horrible", "hate", "disappointed",
	"upset", "angry", "depressed", "worried", "anxious", "stressed",
}

var stubReplies = map[string]string{
	"positive_high":   "I'm thrilled to hear you're feeling so positive! What's been going especially well for you?",
	"positive_medium": "That sounds really good. It's nice to hear positive things from you.",
	"positive_low":    "I can sense some positivity in your message. Would you like to share more about it?",
	"negative_high":   "I'm really sorry to hear you're feeling this way. Would it help to talk more about what's troubling you?",
	"negative_medium": "That sounds challenging. I'm here to listen if you want to talk more about these feelings.",
	"negative_low":    "I notice you might be feeling a bit down. Is there anything specific on your mind?",
	"neutral_high":    "Thank you for sharing that with me. How else can I support you today?",
	"neutral_medium":  "I see. Would you like to tell me more about that?",
	"neutral_low":     "I understand. Is there anything specific you'd like to discuss?",
	"fallback":        "I'm here to listen. How can I help you today?",
}

// StubService is the last-resort analyzer: the same keyword heuristic as
// the local backend but without emotion enrichment, plus a simulated
// network delay on the async path. It always reports available.
type StubService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewStubService() *StubService {
	return &StubService{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *StubService) Source() string { return "stub" }

func (s *StubService) Analyze(ctx context.Context, text string, userID int) *types.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return defaultResult("", userID, s.Source())
	}

	lower := strings.ToLower(text)
	positiveMatches := countHits(lower, stubPositiveWords)
	negativeMatches := countHits(lower, stubNegativeWords)

	var positive, negative, neutral float64
	if positiveMatches > 0 || negativeMatches > 0 {
		positiveBase := 0.3 * float64(positiveMatches) / float64(len(stubPositiveWords))
		negativeBase := 0.3 * float64(negativeMatches) / float64(len(stubNegativeWords))

		positive = positiveBase + s.float()*0.2
		negative = negativeBase + s.float()*0.2

		neutral = 1.0 - (positive + negative)
		if neutral < 0 {
			total := positive + negative
			positive /= total
			negative /= total
			neutral = 0
		}
	} else {
		neutral = 0.4 + s.float()*0.3
		remainder := 1.0 - neutral
		positive = remainder * s.float()
		negative = remainder - positive
	}

	result := types.NewSentimentResult(text, userID, positive, negative, neutral)
	result.AnalysisSource = s.Source()

	logging.AppLogger.Debug("stub sentiment analysis",
		zap.Float64("positive", positive),
		zap.Float64("negative", negative),
		zap.Float64("neutral", neutral),
		zap.String("dominant", result.DominantSentiment),
	)
	return result
}

// AnalyzeAsync injects a 300-1000ms delay to mimic a real service.
func (s *StubService) AnalyzeAsync(ctx context.Context, text string, userID int) <-chan *types.SentimentResult {
	ch := make(chan *types.SentimentResult, 1)
	delay := time.Duration(300+s.intn(700)) * time.Millisecond
	go func() {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
		ch <- s.Analyze(ctx, text, userID)
	}()
	return ch
}

func (s *StubService) BotReply(result *types.SentimentResult) string {
	if result == nil {
		return stubReplies["fallback"]
	}

	score := result.HighestScore()
	var intensity string
	switch {
	case score > 0.7:
		intensity = "high"
	case score > 0.4:
		intensity = "medium"
	default:
		intensity = "low"
	}

	key := result.DominantSentiment + "_" + intensity
	if reply, ok := stubReplies[key]; ok {
		return reply
	}
	return stubReplies["fallback"]
}

func (s *StubService) Available(ctx context.Context) bool { return true }

func (s *StubService) float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *StubService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
