package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driving"
	"github.com/docinferx/docinferx-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// FallbackAnswer is returned when nothing relevant is indexed.
const FallbackAnswer = "I don't have enough information to answer that."

const (
	// DefaultTopK is the retrieval depth when the caller passes none.
	DefaultTopK = 10

	// promptPassages caps how many retrieved passages enter the prompt,
	// independent of how many were retrieved.
	promptPassages = 5

	// snippetLength truncates each passage inside the prompt.
	snippetLength = 200

	// answerMarker separates the instruction template from the
	// generated answer; post-processing cuts everything before it.
	answerMarker = "### Answer"
)

// AnswerService answers questions from the indexed library.
type AnswerService struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	llm       driven.LLMService
	maxTokens int
}

// NewAnswerService creates an answer service. maxTokens bounds
// generation; non-positive means the model default.
func NewAnswerService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.LLMService,
	maxTokens int,
) *AnswerService {
	return &AnswerService{
		embedder:  embedder,
		index:     index,
		llm:       llm,
		maxTokens: maxTokens,
	}
}

// Ask retrieves evidence for the question and generates an answer.
// Empty retrieval is a normal outcome answered with the fixed
// fallback; only transport failures surface as errors.
func (s *AnswerService) Ask(ctx context.Context, question string, topK int) (string, error) {
	logger.Section("Ask")

	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.embedder == nil || s.index == nil {
		return "", domain.ErrEmbeddingUnavailable
	}
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	logger.Debug("Question: %q (top_k=%d)", question, topK)

	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	retrieved, err := s.index.Search(ctx, queryVec, topK)
	if err != nil {
		return "", fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Retrieved %d passages", len(retrieved))

	if len(retrieved) == 0 {
		return FallbackAnswer, nil
	}

	prompt := buildPrompt(question, retrieved)
	logger.Debug("Prompt length: %d chars", len(prompt))

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: s.maxTokens})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	answer := postProcess(raw)
	if answer == "" {
		return FallbackAnswer, nil
	}
	return answer, nil
}

// buildPrompt assembles the bounded instruction prompt: at most five
// passages, each cut to 200 characters, with the score rendered
// alongside so the model can weigh evidence.
func buildPrompt(question string, retrieved []domain.RetrievedPassage) string {
	lines := make([]string, 0, promptPassages)
	for i, r := range retrieved {
		if i >= promptPassages {
			break
		}
		snippet := strings.TrimSpace(r.Passage.Text)
		if runes := []rune(snippet); len(runes) > snippetLength {
			snippet = string(runes[:snippetLength])
		}
		lines = append(lines, fmt.Sprintf("- %s (score=%.3f)", snippet, r.Distance))
	}

	return fmt.Sprintf(`You are a concise assistant. Use ONLY the context to answer the question. Do NOT invent facts.

### Context
%s

### Question
%s

%s:`, strings.Join(lines, "\n"), question, answerMarker)
}

// postProcess normalises raw model output: strip everything up to the
// answer marker (models that echo the prompt), then deduplicate lines
// keeping first occurrences and join them into a single line.
func postProcess(raw string) string {
	if idx := strings.Index(raw, answerMarker); idx >= 0 {
		raw = raw[idx+len(answerMarker):]
		raw = strings.TrimPrefix(raw, ":")
	}

	seen := make(map[string]bool)
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
	}

	return strings.Join(lines, " ")
}
