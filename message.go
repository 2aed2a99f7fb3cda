package blogsmith

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single message in a conversation.
type Message struct {
	// ID is an optional unique identifier for the message.
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Prompt builds the system/user pair every pipeline stage sends.
// An empty system prompt is omitted.
func Prompt(system, user string) []Message {
	msgs := make([]Message, 0, 2)
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	return append(msgs, Message{Role: RoleUser, Content: user})
}

// Response represents a complete response from a chat provider.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}
