package driven

import "context"

// LLMService is a raw text completion provider.
//
// Implementations may include:
//   - OpenAI (and compatible endpoints such as LM Studio)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a completion for a fully rendered prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// System is an optional system prompt.
	System string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// AnswerGenerator answers a question from a numbered context block.
type AnswerGenerator interface {
	// Answer returns the generated answer. It fails with
	// domain.ErrPromptTooLong when PromptChars exceeds MaxPromptChars and
	// with domain.ErrProvider when the provider fails.
	Answer(ctx context.Context, contextBlock, question string) (string, error)

	// Prompt renders the exact prompt Answer would send.
	Prompt(contextBlock, question string) string

	// PromptChars counts what Answer checks against the budget: the
	// rendered prompt plus any system prompt, in characters.
	PromptChars(contextBlock, question string) int

	// MaxPromptChars is the prompt budget in characters.
	MaxPromptChars() int
}
