package chatbot

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"moodmind/moodmind/types"
)

// greetingPatterns drives the greeting short-circuit. A message matches a
// pattern exactly, as a word prefix, or - only when the whole message is
// under 10 characters - as a substring.
var greetingPatterns = [][]string{
	{"hello", "hi", "hey", "hiya", "howdy", "greetings"},
	{"good morning", "good afternoon", "good evening", "good day"},
	{"what's up", "whats up", "wassup", "what up", "sup"},
	{"how are you", "how r u", "how're you", "how you doing", "how's it going"},
}

// Catalog holds the canned reply pools. Pools can be overridden from a
// YAML file without rebuilding; anything the file omits keeps its default.
type Catalog struct {
	Greetings     []string          `yaml:"greetings"`
	MoodInquiries []string          `yaml:"mood_inquiries"`
	Positive      []string          `yaml:"positive"`
	Negative      []string          `yaml:"negative"`
	Neutral       []string          `yaml:"neutral"`
	Fallback      []string          `yaml:"fallback"`
	Emotions      map[string]string `yaml:"emotions"`
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		Greetings: []string{
			"Hello! How are you feeling today?",
			"Hi there! How is your day going?",
			"Greetings! How's your mood right now?",
			"Hello! It's nice to chat with you. How are you doing today?",
			"Hi! Thanks for checking in. How has your day been so far?",
		},
		MoodInquiries: []string{
			"Would you like to tell me more about how you're feeling?",
			"I'm here to listen. What's on your mind?",
			"Would you like to record your current mood in the tracker?",
			"I'd love to hear more about your emotions right now.",
			"Feel free to share whatever is on your mind. I'm here to listen.",
		},
		Positive: []string{
			"That's wonderful to hear! What's making you feel good today?",
			"I'm glad you're feeling positive! Would you like to record this in your mood tracker?",
			"That's great! What activities have contributed to your good mood?",
			"It's fantastic that you're feeling this way! What's bringing you joy?",
			"I'm happy to hear you're doing well! Would you like to reflect on what's helping you feel positive?",
		},
		Negative: []string{
			"I'm sorry to hear that. Would you like to talk about what's bothering you?",
			"That sounds difficult. Remember that tracking your moods can help identify patterns.",
			"I understand. Would recording your feelings in the mood tracker help?",
			"It can be tough when you're feeling this way. Is there anything specific that's troubling you?",
			"I'm here for you during these challenging feelings. Would it help to explore them a bit more?",
		},
		Neutral: []string{
			"I see. Is there anything specific you'd like to discuss today?",
			"Thanks for sharing. Would you like to add this to your mood tracking?",
			"I understand. Is there anything I can help you with today?",
			"Thanks for letting me know. What's been on your mind today?",
			"I appreciate you sharing that. Would you like to talk about anything in particular?",
		},
		Fallback: []string{
			"I'm not sure I understand. Could you tell me more?",
			"I'd like to help you better. Can you explain what you mean?",
			"I'm still learning. Could you phrase that differently?",
			"I want to be helpful, but I need a bit more information. Could you elaborate?",
			"I might need more context to give you a good response. Can you provide more details?",
		},
		Emotions: map[string]string{
			"gratitude": "I love that you're expressing gratitude. Appreciating the positive things can be so powerful.",
			"hope":      "It's great to hear that hopeful tone in your message. What are you looking forward to?",
		},
	}
}

// LoadCatalog reads a YAML override file on top of the defaults. A missing
// path returns the defaults unchanged.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, err
	}
	catalog.merge(&override)
	return catalog, nil
}

func (c *Catalog) merge(o *Catalog) {
	if len(o.Greetings) > 0 {
		c.Greetings = o.Greetings
	}
	if len(o.MoodInquiries) > 0 {
		c.MoodInquiries = o.MoodInquiries
	}
	if len(o.Positive) > 0 {
		c.Positive = o.Positive
	}
	if len(o.Negative) > 0 {
		c.Negative = o.Negative
	}
	if len(o.Neutral) > 0 {
		c.Neutral = o.Neutral
	}
	if len(o.Fallback) > 0 {
		c.Fallback = o.Fallback
	}
	for k, v := range o.Emotions {
		if c.Emotions == nil {
			c.Emotions = make(map[string]string)
		}
		c.Emotions[k] = v
	}
}

// ForSentiment returns the pool keyed by dominant sentiment.
func (c *Catalog) ForSentiment(sentiment string) []string {
	switch sentiment {
	case types.SentimentPositive:
		return c.Positive
	case types.SentimentNegative:
		return c.Negative
	default:
		return c.Neutral
	}
}

// IsGreeting reports whether message (already lowercased and trimmed)
// matches the greeting table.
func IsGreeting(message string) bool {
	for _, patterns := range greetingPatterns {
		for _, pattern := range patterns {
			if message == pattern || strings.HasPrefix(message, pattern+" ") {
				return true
			}
		}
	}

	// very short messages also match on substring
	if len(message) < 10 {
		for _, patterns := range greetingPatterns {
			for _, pattern := range patterns {
				if strings.Contains(message, pattern) {
					return true
				}
			}
		}
	}

	return false
}
