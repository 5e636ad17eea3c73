package types

import "time"

// Coarse sentiment labels produced by every analyzer backend.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// DominantSentiment derives the coarse label from the three scores.
// Comparisons are strict: ties (including three-way ambiguity) resolve
// to neutral.
func DominantSentiment(positive, negative, neutral float64) string {
	if positive > negative && positive > neutral {
		return SentimentPositive
	}
	if negative > positive && negative > neutral {
		return SentimentNegative
	}
	return SentimentNeutral
}

// SentimentResult carries the outcome of one analysis call. It is built by
// an analyzer backend and not mutated afterwards except through the
// enrichment setters below, which backends call before handing it out.
type SentimentResult struct {
	MessageText       string             `json:"message_text"`
	UserID            int                `json:"user_id"`
	Timestamp         time.Time          `json:"timestamp"`
	PositiveScore     float64            `json:"positive_score"`
	NegativeScore     float64            `json:"negative_score"`
	NeutralScore      float64            `json:"neutral_score"`
	DominantSentiment string             `json:"dominant_sentiment"`
	SpecificEmotion   string             `json:"specific_emotion,omitempty"`
	EmotionScores     map[string]float64 `json:"emotion_scores,omitempty"`
	AnalysisSource    string             `json:"analysis_source"`
	Metadata          map[string]string  `json:"metadata,omitempty"`
}

// NewSentimentResult builds a result and derives the dominant sentiment
// from the scores.
func NewSentimentResult(text string, userID int, positive, negative, neutral float64) *SentimentResult {
	return &SentimentResult{
		MessageText:       text,
		UserID:            userID,
		Timestamp:         time.Now(),
		PositiveScore:     positive,
		NegativeScore:     negative,
		NeutralScore:      neutral,
		DominantSentiment: DominantSentiment(positive, negative, neutral),
	}
}

// AddEmotionScore records a named auxiliary score (e.g. "intensity").
func (r *SentimentResult) AddEmotionScore(name string, score float64) {
	if r.EmotionScores == nil {
		r.EmotionScores = make(map[string]float64)
	}
	r.EmotionScores[name] = score
}

// MetadataValue returns the metadata entry for key, or "".
func (r *SentimentResult) MetadataValue(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}

// HighestScore returns the largest of the three coarse scores.
func (r *SentimentResult) HighestScore() float64 {
	max := r.PositiveScore
	if r.NegativeScore > max {
		max = r.NegativeScore
	}
	if r.NeutralScore > max {
		max = r.NeutralScore
	}
	return max
}

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn entry in the conversation buffer. User messages
// may carry their own Sentiment; assistant messages may carry the
// RelatedSentiment that produced them.
type ChatMessage struct {
	Content          string           `json:"content"`
	Role             Role             `json:"role"`
	Timestamp        time.Time        `json:"timestamp"`
	Sentiment        *SentimentResult `json:"sentiment,omitempty"`
	RelatedSentiment *SentimentResult `json:"related_sentiment,omitempty"`
}

func NewChatMessage(content string, role Role) *ChatMessage {
	return &ChatMessage{Content: content, Role: role, Timestamp: time.Now()}
}

// FeedbackKind classifies user feedback about a bot reply.
type FeedbackKind string

const (
	FeedbackPositive   FeedbackKind = "positive"
	FeedbackNegative   FeedbackKind = "negative"
	FeedbackSuggestion FeedbackKind = "suggestion"
)

// ChatFeedback is created by explicit user action after a reply exists and
// is never mutated afterwards.
type ChatFeedback struct {
	UserMessage     string       `json:"user_message"`
	BotResponse     string       `json:"bot_response"`
	Kind            FeedbackKind `json:"kind"`
	Comment         string       `json:"comment,omitempty"`
	UserID          int          `json:"user_id"`
	Timestamp       time.Time    `json:"timestamp"`
	SentimentType   string       `json:"sentiment_type,omitempty"`
	SpecificEmotion string       `json:"specific_emotion,omitempty"`
}
