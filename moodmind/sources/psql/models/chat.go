package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID       string    `json:"session_id" gorm:"type:varchar(255);not null;index"`
	UserID          int       `json:"user_id" gorm:"not null;index"`
	Role            string    `json:"role" gorm:"type:varchar(50);not null"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	Sentiment       string    `json:"sentiment" gorm:"type:varchar(50)"`
	SpecificEmotion string    `json:"specific_emotion" gorm:"type:varchar(50)"`
	AnalysisSource  string    `json:"analysis_source" gorm:"type:varchar(50)"`
	Timestamp       time.Time `json:"timestamp" gorm:"not null"`
}

type ChatFeedback struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID       string    `json:"session_id" gorm:"type:varchar(255);not null;index"`
	UserID          int       `json:"user_id" gorm:"not null"`
	UserMessage     string    `json:"user_message" gorm:"type:text;not null"`
	BotResponse     string    `json:"bot_response" gorm:"type:text;not null"`
	Kind            string    `json:"kind" gorm:"type:varchar(50);not null"`
	Comment         string    `json:"comment" gorm:"type:text"`
	SentimentType   string    `json:"sentiment_type" gorm:"type:varchar(50)"`
	SpecificEmotion string    `json:"specific_emotion" gorm:"type:varchar(50)"`
	Timestamp       time.Time `json:"timestamp" gorm:"not null"`
}
