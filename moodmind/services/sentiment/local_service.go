package sentiment

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"moodmind/moodmind/types"
	"moodmind/moodmind/utils/logging"
)

// emotionOrder fixes the tie-break order for specific-emotion detection.
var emotionOrder = []string{
	"joy", "sadness", "anger", "fear", "surprise", "confusion", "gratitude", "hope",
}

var emotionKeywords = map[string][]string{
	"joy": {
		"happy", "joy", "delighted", "excited", "pleased", "glad", "content",
		"wonderful", "great", "amazing", "awesome", "excellent", "fantastic",
	},
	"sadness": {
		"sad", "unhappy", "depressed", "gloomy", "miserable", "heartbroken",
		"down", "blue", "somber", "melancholy", "grief", "sorrow",
	},
	"anger": {
		"angry", "mad", "furious", "irritated", "annoyed", "frustrated",
		"rage", "hate", "upset", "bitter", "enraged", "outraged",
	},
	"fear": {
		"afraid", "scared", "terrified", "anxious", "worried", "nervous",
		"frightened", "horror", "panic", "dread", "concern", "stress",
	},
	"surprise": {
		"surprised", "shocked", "amazed", "astonished", "stunned", "unexpected",
		"startled", "wow", "whoa", "disbelief",
	},
	"confusion": {
		"confused", "perplexed", "puzzled", "uncertain", "unsure", "doubtful",
		"bewildered", "lost", "disoriented", "unclear", "ambiguous",
	},
	"gratitude": {
		"grateful", "thankful", "appreciative", "blessed", "fortunate", "appreciate",
		"thanks", "thank you", "blessing", "gratitude", "indebted",
	},
	"hope": {
		"hopeful", "optimistic", "looking forward", "eager", "anticipate", "wish",
		"dream", "expect", "bright future", "promising",
	},
}

var therapyApproaches = map[string]string{
	"joy":       "Positive reinforcement and appreciation of current positive state",
	"sadness":   "Empathetic listening and validation of feelings",
	"anger":     "Validation and safe expression of emotions",
	"fear":      "Grounding techniques and reassurance",
	"surprise":  "Processing and making meaning of unexpected events",
	"confusion": "Clarification and providing structure",
	"gratitude": "Savoring positive experiences and building on strengths",
	"hope":      "Goal-setting and future-oriented thinking",
	"neutral":   "Open-ended exploration of experiences",
}

var conversationNeeds = map[string]string{
	"joy":       "Celebrate successes and savor positive emotions",
	"sadness":   "Provide comfort and space for expressing feelings",
	"anger":     "Acknowledge feelings and explore underlying causes",
	"fear":      "Offer reassurance and coping strategies",
	"surprise":  "Help process unexpected information",
	"confusion": "Provide clarity and organize thoughts",
	"gratitude": "Expand awareness of positive aspects",
	"hope":      "Encourage optimism while being realistic",
	"neutral":   "General exploration of thoughts and feelings",
}

var localPositiveWords = []string{
	"good", "happy", "great", "excellent", "wonderful", "love", "joy",
	"excited", "amazing", "fantastic", "delighted", "glad", "pleased",
}

var localNegativeWords = []string{
	"bad", "sad", "terrible", "awful", "horrible", "hate", "disappointed",
	"upset", "angry", "depressed", "worried", "anxious", "stressed",
}

var localSentimentReplies = map[string][]string{
	types.SentimentPositive: {
		"I'm glad to hear you're feeling positive! What's contributing to these good feelings?",
		"That sounds wonderful! Would you like to share more about what's making you feel this way?",
		"It's great that you're in a positive mood. How can we build on these good feelings?",
		"I'm happy to hear that! What other positive things have been happening for you?",
	},
	types.SentimentNegative: {
		"I'm sorry to hear you're not feeling your best. Would you like to talk more about what's going on?",
		"That sounds challenging. What support would be most helpful for you right now?",
		"I can understand why that might be difficult. How have you been coping with these feelings?",
		"Thank you for sharing those feelings with me. Is there anything specific you'd like to focus on today?",
	},
	types.SentimentNeutral: {
		"Thank you for sharing. How else have you been feeling lately?",
		"I appreciate your thoughts. Is there anything specific on your mind today?",
		"Thank you for expressing that. What would you like to talk about next?",
		"I understand. Is there any particular area of your life you'd like to discuss?",
	},
}

var localEmotionReplies = map[string]string{
	"joy":       "It's wonderful to hear you're feeling joy! What's bringing you happiness right now?",
	"sadness":   "I'm sorry you're feeling sad. It's okay to feel this way, and I'm here to listen.",
	"anger":     "I can hear that you're feeling angry. That's a valid emotion - would it help to talk about what triggered it?",
	"fear":      "It sounds like you're experiencing some fear or anxiety. Would it help to explore what's causing these feelings?",
	"surprise":  "That seems quite surprising! How are you processing this unexpected situation?",
	"confusion": "It seems like you might be feeling uncertain or confused. Let's try to bring some clarity together.",
	"gratitude": "I love that you're expressing gratitude. Appreciating the positive things can be so powerful.",
	"hope":      "It's great to hear that hopeful tone in your message. What are you looking forward to?",
}

// LocalService is the lexicon-based analyzer. Everything is in-process;
// it is healthy as long as the process runs.
type LocalService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewLocalService() *LocalService {
	return &LocalService{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *LocalService) Source() string { return "local" }

func (s *LocalService) Analyze(ctx context.Context, text string, userID int) *types.SentimentResult {
	defer logging.LogDuration(ctx, "local_sentiment_analyze")()

	if strings.TrimSpace(text) == "" {
		logging.AppLogger.Warn("cannot analyze sentiment: empty text")
		return defaultResult(text, userID, s.Source())
	}

	lower := strings.ToLower(text)

	positiveCount := countHits(lower, localPositiveWords)
	negativeCount := countHits(lower, localNegativeWords)

	var positive, negative, neutral float64
	if positiveCount > 0 || negativeCount > 0 {
		positive = minF(0.1+float64(positiveCount)*0.1, 0.9)
		negative = minF(0.1+float64(negativeCount)*0.1, 0.9)

		// bounded jitter so repeated inputs don't score identically
		positive += s.jitter()
		negative += s.jitter()
		positive = clamp(positive, 0.05, 0.95)
		negative = clamp(negative, 0.05, 0.95)

		neutral = maxF(0.1, 1.0-(positive+negative))

		total := positive + negative + neutral
		positive /= total
		negative /= total
		neutral /= total
	} else {
		positive, negative, neutral = 0.15, 0.15, 0.7
	}

	result := types.NewSentimentResult(text, userID, positive, negative, neutral)
	result.AnalysisSource = s.Source()

	emotion := detectEmotion(lower)

	intensity := 0.5
	if emotion != "neutral" {
		result.SpecificEmotion = emotion
		totalHits := positiveCount + negativeCount
		intensity = minF(0.3+float64(totalHits)*0.05, 0.9)
		if intensity < 0.3 {
			intensity = 0.3
		}
	}
	result.AddEmotionScore("intensity", intensity)

	result.Metadata = map[string]string{
		"therapeutic_approach": therapyApproaches[emotion],
		"conversation_needs":   conversationNeeds[emotion],
	}

	logging.AppLogger.Info("local sentiment analysis complete",
		zap.String("dominant", result.DominantSentiment),
		zap.String("emotion", emotion),
		zap.Float64("intensity", intensity),
	)
	return result
}

func (s *LocalService) AnalyzeAsync(ctx context.Context, text string, userID int) <-chan *types.SentimentResult {
	ch := make(chan *types.SentimentResult, 1)
	go func() {
		ch <- s.Analyze(ctx, text, userID)
	}()
	return ch
}

func (s *LocalService) BotReply(result *types.SentimentResult) string {
	if result == nil {
		return "I'm not sure how to respond to that. Could you tell me more?"
	}

	if result.SpecificEmotion != "" {
		if reply, ok := localEmotionReplies[result.SpecificEmotion]; ok {
			return reply
		}
	}

	pool, ok := localSentimentReplies[result.DominantSentiment]
	if !ok {
		pool = localSentimentReplies[types.SentimentNeutral]
	}
	return pool[s.intn(len(pool))]
}

func (s *LocalService) Available(ctx context.Context) bool { return true }

func (s *LocalService) jitter() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()*0.1 - 0.05
}

func (s *LocalService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// detectEmotion returns the emotion category with the most keyword hits,
// ties broken by emotionOrder, or "neutral" when nothing matched.
func detectEmotion(lower string) string {
	best := "neutral"
	bestCount := 0
	for _, emotion := range emotionOrder {
		count := countHits(lower, emotionKeywords[emotion])
		if count > bestCount {
			bestCount = count
			best = emotion
		}
	}
	return best
}

func countHits(lower string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			count++
		}
	}
	return count
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
