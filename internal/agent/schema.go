package agent

// UserInput is the request body for an agent invocation. ConversationID and
// UserID are optional; missing values are assigned fresh identifiers by the
// turn resolver. AgentConfig carries caller-side overrides for the run
// configuration and must not collide with the reserved keys.
type UserInput struct {
	Message        string         `json:"message" binding:"required"`
	ConversationID string         `json:"conversation_id,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	Model          string         `json:"model,omitempty"`
	AgentConfig    map[string]any `json:"agent_config,omitempty"`
}

// ChatMessage is the canonical response unit returned to HTTP clients.
// ToolCalls is populated only for type "ai"; ToolCallID only for type "tool".
type ChatMessage struct {
	Type             string         `json:"type"`
	Content          string         `json:"content"`
	ToolCalls        []ToolCall     `json:"tool_calls,omitempty"`
	ResponseMetadata map[string]any `json:"response_metadata,omitempty"`
	ToolCallID       string         `json:"tool_call_id,omitempty"`
	CustomData       any            `json:"custom_data,omitempty"`
	RunID            string         `json:"run_id,omitempty"`
	ConversationID   string         `json:"conversation_id,omitempty"`
	MessageID        string         `json:"message_id,omitempty"`

	// UserID is the identity the run actually executed under, including one
	// minted for a caller that supplied none. Correlation for persistence,
	// never serialized to clients.
	UserID string `json:"-"`
}

// ToolCall describes either a tool invocation requested by an ai message or,
// on a final response, a tool execution attributed to the current turn.
type ToolCall struct {
	Name    string `json:"name"`
	Args    any    `json:"args,omitempty"`
	ID      string `json:"id,omitempty"`
	Content string `json:"content,omitempty"`
	Type    string `json:"type,omitempty"`
}

// AgentInfo describes a registered agent.
type AgentInfo struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}
