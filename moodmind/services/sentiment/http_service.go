package sentiment

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	httputils "moodmind/moodmind/utils/http"
	"moodmind/moodmind/utils/logging"

	"moodmind/moodmind/types"
)

const (
	analyzeTimeout = 10 * time.Second
	probeTimeout   = 5 * time.Second
)

// HTTPService talks to the remote analyzer service.
//
// Wire contract:
//
//	POST /analyze      {text, user_id} -> scores + optional enrichment
//	POST /bot_response {dominant_sentiment, specific_emotion?} -> {response}
//	GET  /             -> 200 when alive
type HTTPService struct {
	baseURL string
}

func NewHTTPService(baseURL string) *HTTPService {
	return &HTTPService{baseURL: baseURL}
}

func (s *HTTPService) Source() string { return "remote" }

type analyzeRequest struct {
	Text   string `json:"text"`
	UserID int    `json:"user_id"`
}

type analyzeResponse struct {
	PositiveScore       float64  `json:"positive_score"`
	NegativeScore       float64  `json:"negative_score"`
	NeutralScore        float64  `json:"neutral_score"`
	DominantSentiment   string   `json:"dominant_sentiment"`
	SpecificEmotion     *string  `json:"specific_emotion,omitempty"`
	EmotionalIntensity  *float64 `json:"emotional_intensity,omitempty"`
	TherapeuticApproach *string  `json:"therapeutic_approach,omitempty"`
	ConversationNeeds   *string  `json:"conversation_needs,omitempty"`
}

func (s *HTTPService) Analyze(ctx context.Context, text string, userID int) *types.SentimentResult {
	defer logging.LogDuration(ctx, "remote_sentiment_analyze")()

	if text == "" {
		return defaultResult(text, userID, s.Source())
	}

	var parsed analyzeResponse
	err := httputils.PostJSON(ctx, s.baseURL+"/analyze", analyzeRequest{Text: text, UserID: userID}, &parsed, analyzeTimeout)
	if err != nil {
		logging.ErrorLogger.Error("remote analyze failed", zap.Error(err))
		return defaultResult(text, userID, s.Source())
	}

	result := types.NewSentimentResult(text, userID, parsed.PositiveScore, parsed.NegativeScore, parsed.NeutralScore)
	result.AnalysisSource = s.Source()
	if parsed.SpecificEmotion != nil {
		result.SpecificEmotion = *parsed.SpecificEmotion
	}
	if parsed.EmotionalIntensity != nil {
		result.AddEmotionScore("intensity", *parsed.EmotionalIntensity)
	}
	metadata := make(map[string]string)
	if parsed.TherapeuticApproach != nil {
		metadata["therapeutic_approach"] = *parsed.TherapeuticApproach
	}
	if parsed.ConversationNeeds != nil {
		metadata["conversation_needs"] = *parsed.ConversationNeeds
	}
	if len(metadata) > 0 {
		result.Metadata = metadata
	}

	logging.AppLogger.Info("remote sentiment analysis complete",
		zap.String("dominant", result.DominantSentiment),
		zap.String("emotion", result.SpecificEmotion),
	)
	return result
}

func (s *HTTPService) AnalyzeAsync(ctx context.Context, text string, userID int) <-chan *types.SentimentResult {
	ch := make(chan *types.SentimentResult, 1)
	go func() {
		ch <- s.Analyze(ctx, text, userID)
	}()
	return ch
}

func (s *HTTPService) BotReply(result *types.SentimentResult) string {
	if result == nil {
		return "I'm here to listen. Is there something specific you'd like to discuss today?"
	}

	body := map[string]string{"dominant_sentiment": result.DominantSentiment}
	if result.SpecificEmotion != "" {
		body["specific_emotion"] = result.SpecificEmotion
	}

	var parsed struct {
		Response string `json:"response"`
	}
	err := httputils.PostJSON(context.Background(), s.baseURL+"/bot_response", body, &parsed, analyzeTimeout)
	if err != nil || parsed.Response == "" {
		if err != nil {
			logging.ErrorLogger.Error("remote bot_response failed", zap.Error(err))
		}
		return s.fallbackReply(result)
	}
	return parsed.Response
}

func (s *HTTPService) fallbackReply(result *types.SentimentResult) string {
	switch result.DominantSentiment {
	case types.SentimentPositive:
		return "I'm glad to hear you're feeling positive! What's contributing to these good feelings?"
	case types.SentimentNegative:
		return "I'm sorry to hear you're not feeling your best. Would you like to talk more about what's going on?"
	default:
		return "Thank you for sharing. How else have you been feeling lately?"
	}
}

// Available issues the short-timeout liveness probe. It never returns an
// error: any failure just reads as unhealthy.
func (s *HTTPService) Available(ctx context.Context) bool {
	status, err := httputils.Get(ctx, s.baseURL, probeTimeout)
	if err != nil {
		logging.AppLogger.Warn("remote sentiment service unavailable", zap.Error(err))
		return false
	}
	return status == http.StatusOK
}
