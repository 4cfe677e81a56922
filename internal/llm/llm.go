// Package llm defines the model-backend port used by the conversation core
// and its OpenAI implementation. The core never talks to a vendor SDK
// directly: it hands over context turns plus the action catalog and gets
// back either plain text, a structured action, or both.
package llm

import (
	"context"
	"encoding/json"
)

// Turn is one context message sent to the model backend.
type Turn struct {
	Role    string
	Content string
}

// ActionCall is a structured action selected by the model: a name from the
// catalog (or an unrecognized one) plus raw JSON arguments. Argument
// validation happens at the dispatch boundary, not here.
type ActionCall struct {
	Name      string
	Arguments json.RawMessage
}

// Completion is the backend's answer to one context window. Either or both
// fields may be empty; an empty completion is treated by the caller as a
// transient backend failure.
type Completion struct {
	Text   string
	Action *ActionCall
}

// Tool describes one catalog entry offered to the model as a callable
// function, using JSON-schema style parameter declarations.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Required    []string
}

// Backend is the language-model collaborator. Implementations must be safe
// for concurrent use; the orchestrator may have several messages in flight.
type Backend interface {
	Complete(ctx context.Context, turns []Turn, tools []Tool) (Completion, error)
}
