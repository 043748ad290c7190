// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - MemoirStore: Memoir and chunk persistence
//   - SearchIndex: Per-memoir full-text ranking
//   - ConfigStore: Application configuration
//   - SafetyClassifier: Pre-retrieval safety gate
//   - KeywordExtractor: Question to query terms
//   - AnswerSynthesizer: Final answer generation
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: Custom prompt templates. Without it, embedded defaults are used.
//   - QuestionGenerator: Chunk annotation. Without it, annotate is disabled.
//   - NormaliserRegistry: Source file conversion. Without it, sources are read as plain text.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
