package sentiment

import (
	"context"

	"moodmind/moodmind/types"
)

// Service is the pluggable sentiment-analysis-and-reply capability.
//
// Analyze never fails from the caller's point of view: on any internal
// error a backend returns the low-confidence neutral default instead of
// propagating the error.
type Service interface {
	// Analyze scores text and returns a result tagged with the backend's
	// source name.
	Analyze(ctx context.Context, text string, userID int) *types.SentimentResult

	// AnalyzeAsync runs Analyze off the caller's goroutine. The channel is
	// buffered and receives exactly one result.
	AnalyzeAsync(ctx context.Context, text string, userID int) <-chan *types.SentimentResult

	// BotReply picks a canned reply for the given result.
	BotReply(result *types.SentimentResult) string

	// Available reports backend health without erroring.
	Available(ctx context.Context) bool

	// Source is the tag written into SentimentResult.AnalysisSource.
	Source() string
}

// defaultResult is the low-confidence neutral fallback every backend
// returns when analysis cannot be performed.
func defaultResult(text string, userID int, source string) *types.SentimentResult {
	r := types.NewSentimentResult(text, userID, 0.1, 0.1, 0.8)
	r.AnalysisSource = source
	return r
}
