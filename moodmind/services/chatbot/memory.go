package chatbot

import (
	"sync"

	"moodmind/moodmind/types"
)

const (
	// MaxRecentMessages bounds the conversation buffer.
	MaxRecentMessages = 10
	// MaxFeedbackEntries bounds the feedback store.
	MaxFeedbackEntries = 50
	// MaxTrainingRecords bounds the recorded exchange history.
	MaxTrainingRecords = 20
)

// Memory is the bounded FIFO window of recent chat messages used as
// augmentation context. Oldest entries are evicted at capacity.
type Memory struct {
	mu       sync.Mutex
	messages []*types.ChatMessage
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Add(msg *types.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	if len(m.messages) > MaxRecentMessages {
		m.messages = m.messages[1:]
	}
}

// Recent returns up to n most-recent messages, oldest first.
func (m *Memory) Recent(n int) []*types.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := len(m.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]*types.ChatMessage, len(m.messages)-start)
	copy(out, m.messages[start:])
	return out
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// FeedbackStore is the bounded FIFO buffer of user feedback entries. The
// most recent few are summarized into augmentation prompts.
type FeedbackStore struct {
	mu      sync.Mutex
	entries []*types.ChatFeedback
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

func (f *FeedbackStore) Add(fb *types.ChatFeedback) {
	if fb == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, fb)
	if len(f.entries) > MaxFeedbackEntries {
		f.entries = f.entries[1:]
	}
}

// Recent returns up to n most-recent entries, oldest first.
func (f *FeedbackStore) Recent(n int) []*types.ChatFeedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	start := len(f.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]*types.ChatFeedback, len(f.entries)-start)
	copy(out, f.entries[start:])
	return out
}

func (f *FeedbackStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// ExchangeRecord is one completed (input, reply, sentiment) triple kept
// for future prompt context.
type ExchangeRecord struct {
	UserMessage     string
	BotResponse     string
	Sentiment       string
	SpecificEmotion string
}

// TrainingHistory is the bounded record of completed exchanges.
type TrainingHistory struct {
	mu      sync.Mutex
	records []ExchangeRecord
}

func NewTrainingHistory() *TrainingHistory {
	return &TrainingHistory{}
}

func (h *TrainingHistory) Record(userMessage, botResponse string, sentiment *types.SentimentResult) {
	if userMessage == "" || botResponse == "" {
		return
	}
	rec := ExchangeRecord{UserMessage: userMessage, BotResponse: botResponse}
	if sentiment != nil {
		rec.Sentiment = sentiment.DominantSentiment
		rec.SpecificEmotion = sentiment.SpecificEmotion
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	if len(h.records) > MaxTrainingRecords {
		h.records = h.records[1:]
	}
}

func (h *TrainingHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}
