// Package model defines the provider-neutral contract between the agentic
// loop and language model backends, plus a scripted MockClient for tests.
// Concrete adapters live in the openai and anthropic subpackages.
package model
