package dao

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"moodmind/moodmind/sources/psql/models"
	"moodmind/moodmind/types"
)

// ChatMessageDAO persists chat messages and feedback. It implements the
// chatbot.MessageStore collaborator.
type ChatMessageDAO struct {
	DB *gorm.DB
}

func NewChatMessageDAO(db *gorm.DB) *ChatMessageDAO {
	return &ChatMessageDAO{DB: db}
}

func (dao *ChatMessageDAO) CreateSessionID() string {
	return uuid.New().String()
}

func (dao *ChatMessageDAO) Save(ctx context.Context, sessionID string, userID int, msg *types.ChatMessage) error {
	record := models.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
	sentiment := msg.Sentiment
	if sentiment == nil {
		sentiment = msg.RelatedSentiment
	}
	if sentiment != nil {
		record.Sentiment = sentiment.DominantSentiment
		record.SpecificEmotion = sentiment.SpecificEmotion
		record.AnalysisSource = sentiment.AnalysisSource
	}
	return dao.DB.WithContext(ctx).Create(&record).Error
}

// FindRecent returns the user's last limit messages in chronological
// order, ready to seed the conversation buffer.
func (dao *ChatMessageDAO) FindRecent(ctx context.Context, userID int, limit int) ([]*types.ChatMessage, error) {
	var records []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	// reverse: DB gives newest first, the buffer wants oldest first
	out := make([]*types.ChatMessage, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		out = append(out, &types.ChatMessage{
			Content:   r.Content,
			Role:      types.Role(r.Role),
			Timestamp: r.Timestamp,
		})
	}
	return out, nil
}

func (dao *ChatMessageDAO) SaveFeedback(ctx context.Context, sessionID string, fb *types.ChatFeedback) error {
	record := models.ChatFeedback{
		ID:              uuid.New(),
		SessionID:       sessionID,
		UserID:          fb.UserID,
		UserMessage:     fb.UserMessage,
		BotResponse:     fb.BotResponse,
		Kind:            string(fb.Kind),
		Comment:         fb.Comment,
		SentimentType:   fb.SentimentType,
		SpecificEmotion: fb.SpecificEmotion,
		Timestamp:       fb.Timestamp,
	}
	return dao.DB.WithContext(ctx).Create(&record).Error
}
