// Package llm turns a raw text completion provider into an answer generator
// for the retrieval pipeline. Provider adapters live in sub-packages.
package llm

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure AnswerGenerator implements the interface.
var _ driven.AnswerGenerator = (*AnswerGenerator)(nil)

// fallbackTemplate is used when the prompt store cannot supply one.
const fallbackTemplate = "Context:\n%s\n\nQuestion: %s\nAnswer:"

// AnswerGenerator renders the answer prompt and sends it to an LLMService.
type AnswerGenerator struct {
	llm            driven.LLMService
	prompts        driven.PromptStore
	maxPromptChars int
}

// NewAnswerGenerator creates an answer generator. prompts may be nil, in
// which case a built-in template is used and no system prompt is sent.
func NewAnswerGenerator(llm driven.LLMService, prompts driven.PromptStore, maxPromptChars int) *AnswerGenerator {
	return &AnswerGenerator{
		llm:            llm,
		prompts:        prompts,
		maxPromptChars: maxPromptChars,
	}
}

// Prompt renders the answer template with the context block and question.
func (g *AnswerGenerator) Prompt(contextBlock, question string) string {
	return fmt.Sprintf(g.template(driven.PromptAnswer, fallbackTemplate), contextBlock, question)
}

// PromptChars counts the characters sent to the model: the system prompt
// plus the rendered prompt.
func (g *AnswerGenerator) PromptChars(contextBlock, question string) int {
	prompt, system := g.render(contextBlock, question)
	return promptChars(prompt, system)
}

// MaxPromptChars returns the prompt budget. Zero means unlimited.
func (g *AnswerGenerator) MaxPromptChars() int {
	return g.maxPromptChars
}

// Answer checks the prompt budget and asks the LLM for an answer.
func (g *AnswerGenerator) Answer(ctx context.Context, contextBlock, question string) (string, error) {
	if g.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	prompt, system := g.render(contextBlock, question)
	if n := promptChars(prompt, system); g.maxPromptChars > 0 && n > g.maxPromptChars {
		return "", fmt.Errorf("%w: %d characters exceeds budget of %d", domain.ErrPromptTooLong, n, g.maxPromptChars)
	}

	answer, err := g.llm.Generate(ctx, prompt, driven.GenerateOptions{System: system})
	if err != nil {
		return "", fmt.Errorf("%s: %w", g.llm.ModelName(), err)
	}
	return answer, nil
}

func (g *AnswerGenerator) render(contextBlock, question string) (prompt, system string) {
	return g.Prompt(contextBlock, question), g.template(driven.PromptAnswerSystem, "")
}

func promptChars(prompt, system string) int {
	return utf8.RuneCountInString(prompt) + utf8.RuneCountInString(system)
}

func (g *AnswerGenerator) template(name, fallback string) string {
	if g.prompts == nil {
		return fallback
	}
	tmpl, err := g.prompts.Load(name)
	if err != nil {
		logger.Warn("Prompt %q unavailable, using built-in: %v", name, err)
		return fallback
	}
	return tmpl
}
