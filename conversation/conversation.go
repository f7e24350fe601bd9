package conversation

import (
	"fmt"
	"os"
	"sync"

	"github.com/rishi-s8/agentbuilder/action"
)

// Conversation owns the append-only ordered history of one agent plus its
// immutable system prompt. It is safe for concurrent access.
//
// Contract:
//   - History is append-only; entries are never mutated or removed except by
//     a whole-history Reset or Load.
//   - History returns a defensive copy to avoid external mutation.
//   - Reset discards history but keeps the system prompt.
type Conversation struct {
	mu           sync.RWMutex
	systemPrompt string
	history      []action.Message
}

// New creates an empty conversation with the given system prompt. The prompt
// is fixed for the conversation's lifetime.
func New(systemPrompt string) *Conversation {
	return &Conversation{systemPrompt: systemPrompt}
}

// SystemPrompt returns the immutable system prompt.
func (c *Conversation) SystemPrompt() string { return c.systemPrompt }

// Append records one history entry. An append is atomic: either the full
// entry is recorded or none of it.
func (c *Conversation) Append(msg action.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, msg)
}

// History returns a defensive copy of the full ordered history.
func (c *Conversation) History() []action.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]action.Message, len(c.history))
	copy(out, c.history)
	return out
}

// Last returns the most recent entry, or false if the history is empty.
func (c *Conversation) Last() (action.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.history) == 0 {
		return nil, false
	}
	return c.history[len(c.history)-1], true
}

// Len returns the number of history entries.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.history)
}

// Reset discards the entire history. The system prompt is retained.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

// Save writes the history to a role-tagged JSON file. The system prompt is
// not persisted; it belongs to the agent's construction, not its transcript.
func (c *Conversation) Save(path string) error {
	c.mu.RLock()
	data, err := action.MarshalHistory(c.history)
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("serialize conversation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write conversation file: %w", err)
	}
	return nil
}

// Load reads a file previously written by Save and replaces the current
// history with its contents verbatim. On any error the current history is
// left untouched.
func (c *Conversation) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read conversation file: %w", err)
	}
	history, err := action.UnmarshalHistory(data)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	c.mu.Lock()
	c.history = history
	c.mu.Unlock()
	return nil
}
