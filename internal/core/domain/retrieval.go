package domain

import "fmt"

// Match is a scored hit from the vector index.
type Match struct {
	// ID is the matched document.
	ID DocumentID `json:"id"`

	// Score is the cosine similarity between the query and the document (-1 to 1).
	Score float64 `json:"score"`
}

// RetrievalResult is the outcome of a retrieval call.
type RetrievalResult struct {
	// Query is the question as received.
	Query string `json:"query"`

	// Answer is the answer generator's response.
	Answer string `json:"answer"`

	// Context is the numbered context block handed to the answer generator.
	Context string `json:"context"`

	// Matches holds every index hit in rank order, including those whose
	// content could not be hydrated.
	Matches []Match `json:"matches"`
}

// Stage names a step of the retrieval pipeline.
type Stage string

// Retrieval pipeline stages, in execution order.
const (
	StageValidating     Stage = "validating"
	StageEmbedding      Stage = "embedding"
	StageSearching      Stage = "searching"
	StageHydrating      Stage = "hydrating"
	StagePromptBuilding Stage = "prompt_building"
	StageAnswering      Stage = "answering"
	StageDone           Stage = "done"
)

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// StageError records the pipeline stage at which a call failed.
// It unwraps to the underlying error kind.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}
