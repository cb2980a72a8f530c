// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - DocumentLoader: Extracts per-page text from a corpus file
//   - PostProcessor: Turns a page into chunks (chunker)
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: In-process similarity search over embeddings
//   - IndexStore: Durable storage for a built index
//   - LLMService: Text completion
//   - PromptStore: Prompt templates
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
