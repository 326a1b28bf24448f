// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Durable document persistence (SQLite or bbolt)
//   - VectorIndex: In-memory exact cosine similarity index
//   - EmbeddingService: Turns text into vectors
//   - AnswerGenerator: Turns a numbered context and a question into an answer
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: User-editable prompt templates. Defaults are used when absent.
//   - DocumentSource: Supplies (name, content) pairs for bulk loading.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
