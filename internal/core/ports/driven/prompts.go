package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the embedded default
	// or an error when no default exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer renders the answer prompt.
	// The template expects a %s placeholder for the context and one for the question, in that order.
	PromptAnswer = "answer"

	// PromptAnswerSystem is the system prompt sent alongside PromptAnswer.
	// This prompt has no format placeholders.
	PromptAnswerSystem = "answer_system"
)
