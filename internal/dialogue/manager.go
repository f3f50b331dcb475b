// Package dialogue builds the reply prompt and keeps the conversation transcript.
package dialogue

import (
	"context"
	"fmt"
	"strings"

	"intentd/internal/entity"
	"intentd/internal/llm"
	"intentd/pkg/types"
)

const promptTemplate = `
You are a helpful AI assistant that responds to user requests.

User intent: %s
Entities: %s
Conversation history:
%s

User: %s
Assistant:
`

// Manager generates replies and records them in a Store.
type Manager struct {
	gen        llm.Generator
	store      *Store
	maxHistory int
}

// NewManager constructs a Manager. maxHistory limits how many prior exchanges
// are rendered into the prompt (0 renders all of them).
func NewManager(gen llm.Generator, store *Store, maxHistory int) *Manager {
	if store == nil {
		store = NewStore()
	}
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &Manager{gen: gen, store: store, maxHistory: maxHistory}
}

// Store exposes the transcript store.
func (m *Manager) Store() *Store { return m.store }

// Prompt renders the reply prompt for the session's current transcript.
func (m *Manager) Prompt(session, intent string, entities entity.Entities, userInput string) string {
	history := m.store.History(session)
	if m.maxHistory > 0 && len(history) > m.maxHistory {
		history = history[len(history)-m.maxHistory:]
	}
	return fmt.Sprintf(promptTemplate, intent, string(entities), renderHistory(history), userInput)
}

// Respond asks the generator for a reply and appends the exchange on success.
// A failed call leaves the transcript untouched.
func (m *Manager) Respond(ctx context.Context, session, intent string, entities entity.Entities, userInput string) (string, error) {
	reply, err := m.gen.Generate(ctx, m.Prompt(session, intent, entities, userInput))
	if err != nil {
		return "", err
	}
	m.store.Append(session, userInput, reply)
	return reply, nil
}

// Reset clears the session transcript.
func (m *Manager) Reset(session string) { m.store.Reset(session) }

// History returns a copy of the session transcript.
func (m *Manager) History(session string) []types.Exchange { return m.store.History(session) }

func renderHistory(history []types.Exchange) string {
	lines := make([]string, 0, 2*len(history))
	for _, ex := range history {
		lines = append(lines, "Human: "+ex.UserInput, "AI: "+ex.AssistantResponse)
	}
	return strings.Join(lines, "\n")
}
