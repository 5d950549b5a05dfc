package driving

import "context"

// AnswerService answers natural-language questions from the indexed
// library. Every call yields some answer string: either one generated
// from retrieved context, or a fixed fallback when nothing relevant is
// indexed.
type AnswerService interface {
	// Ask retrieves evidence for the question and generates an answer.
	// topK bounds retrieval; topK <= 0 selects the configured default.
	Ask(ctx context.Context, question string, topK int) (string, error)
}
