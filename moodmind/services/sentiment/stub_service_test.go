package sentiment

import (
	"context"
	"math"
	"testing"
	"time"

	"moodmind/moodmind/types"
)

func TestStubAnalyzeScoresSumToOne(t *testing.T) {
	svc := NewStubService()
	texts := []string{
		"I feel happy and excited today",
		"this is terrible and I hate it",
		"the train arrives at seven",
	}
	for _, text := range texts {
		result := svc.Analyze(context.Background(), text, 1)
		sum := result.PositiveScore + result.NegativeScore + result.NeutralScore
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Analyze(%q): scores sum to %v, want 1", text, sum)
		}
		if result.AnalysisSource != "stub" {
			t.Errorf("expected source stub, got %q", result.AnalysisSource)
		}
	}
}

func TestStubAnalyzeEmptyText(t *testing.T) {
	svc := NewStubService()
	result := svc.Analyze(context.Background(), "", 1)
	if result.PositiveScore != 0.1 || result.NegativeScore != 0.1 || result.NeutralScore != 0.8 {
		t.Errorf("expected low-confidence default, got %v/%v/%v",
			result.PositiveScore, result.NegativeScore, result.NeutralScore)
	}
}

func TestStubAnalyzeAsyncRespectsCancel(t *testing.T) {
	svc := NewStubService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	select {
	case result := <-svc.AnalyzeAsync(ctx, "hello world", 1):
		if result == nil {
			t.Fatal("expected a result")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("async analyze did not return after cancel")
	}
}

func TestStubBotReplyBuckets(t *testing.T) {
	svc := NewStubService()
	cases := []struct {
		positive, negative, neutral float64
		want                        string
	}{
		{0.8, 0.1, 0.1, stubReplies["positive_high"]},
		{0.5, 0.2, 0.3, stubReplies["positive_medium"]},
		{0.1, 0.8, 0.1, stubReplies["negative_high"]},
		{0.1, 0.1, 0.8, stubReplies["neutral_high"]},
		{0.3, 0.3, 0.4, stubReplies["neutral_low"]},
	}
	for _, tc := range cases {
		result := types.NewSentimentResult("", 1, tc.positive, tc.negative, tc.neutral)
		if got := svc.BotReply(result); got != tc.want {
			t.Errorf("BotReply(%v/%v/%v) = %q, want %q",
				tc.positive, tc.negative, tc.neutral, got, tc.want)
		}
	}

	if got := svc.BotReply(nil); got != stubReplies["fallback"] {
		t.Errorf("nil result should use fallback, got %q", got)
	}
}

func TestStubAlwaysAvailable(t *testing.T) {
	svc := NewStubService()
	if !svc.Available(context.Background()) {
		t.Error("stub backend should always be available")
	}
}
