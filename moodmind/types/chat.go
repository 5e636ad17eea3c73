package types

// ChatRequest is the payload for POST /chat/.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	UserID    int    `json:"user_id"`
	Content   string `json:"content"`
}

// ChatResponse is what the service returns for one turn.
type ChatResponse struct {
	Response  string           `json:"response"`
	SessionID string           `json:"session_id"`
	State     string           `json:"state"`
	Sentiment *SentimentResult `json:"sentiment,omitempty"`
}

// FeedbackRequest is the payload for POST /chat/feedback.
type FeedbackRequest struct {
	SessionID   string `json:"session_id"`
	UserID      int    `json:"user_id"`
	UserMessage string `json:"user_message"`
	BotResponse string `json:"bot_response"`
	Kind        string `json:"kind"`
	Comment     string `json:"comment,omitempty"`
}
