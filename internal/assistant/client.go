// Package assistant integrates the external language model: it turns
// free-form scheduling requests into structured fields and writes the
// patient-facing confirmation message.
package assistant

import "context"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a single turn sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMRequest carries one completion request.
type LLMRequest struct {
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

// LLMResponse is the model's reply.
type LLMResponse struct {
	Text       string
	StopReason string
}

// LLMClient abstracts the language model so tests can substitute a
// double and the production Gemini client is injected once at startup.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
