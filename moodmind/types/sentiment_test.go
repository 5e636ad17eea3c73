package types

import "testing"

func TestDominantSentiment(t *testing.T) {
	cases := []struct {
		name     string
		positive float64
		negative float64
		neutral  float64
		want     string
	}{
		{"clear positive", 0.7, 0.1, 0.2, SentimentPositive},
		{"clear negative", 0.1, 0.7, 0.2, SentimentNegative},
		{"clear neutral", 0.1, 0.1, 0.8, SentimentNeutral},
		{"positive-negative tie", 0.4, 0.4, 0.2, SentimentNeutral},
		{"positive-neutral tie", 0.45, 0.1, 0.45, SentimentNeutral},
		{"three-way tie", 0.33, 0.33, 0.33, SentimentNeutral},
		{"all zero", 0, 0, 0, SentimentNeutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DominantSentiment(tc.positive, tc.negative, tc.neutral)
			if got != tc.want {
				t.Errorf("DominantSentiment(%v, %v, %v) = %q, want %q",
					tc.positive, tc.negative, tc.neutral, got, tc.want)
			}
		})
	}
}

func TestNewSentimentResultDerivesDominant(t *testing.T) {
	r := NewSentimentResult("great day", 7, 0.6, 0.1, 0.3)
	if r.DominantSentiment != SentimentPositive {
		t.Errorf("expected positive, got %q", r.DominantSentiment)
	}
	if r.MessageText != "great day" || r.UserID != 7 {
		t.Errorf("result did not keep message/user: %+v", r)
	}
	if r.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestHighestScore(t *testing.T) {
	r := NewSentimentResult("", 0, 0.2, 0.5, 0.3)
	if got := r.HighestScore(); got != 0.5 {
		t.Errorf("HighestScore() = %v, want 0.5", got)
	}
}

func TestAddEmotionScoreAndMetadataValue(t *testing.T) {
	r := NewSentimentResult("", 0, 0.1, 0.1, 0.8)
	r.AddEmotionScore("intensity", 0.4)
	if r.EmotionScores["intensity"] != 0.4 {
		t.Errorf("expected intensity 0.4, got %v", r.EmotionScores["intensity"])
	}

	if got := r.MetadataValue("therapeutic_approach"); got != "" {
		t.Errorf("expected empty metadata value, got %q", got)
	}
	r.Metadata = map[string]string{"therapeutic_approach": "listening"}
	if got := r.MetadataValue("therapeutic_approach"); got != "listening" {
		t.Errorf("expected %q, got %q", "listening", got)
	}
}
