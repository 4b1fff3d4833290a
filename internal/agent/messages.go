package agent

import (
	"encoding/json"
	"fmt"
)

// Message is the closed set of raw conversation messages produced by an agent
// runtime: HumanMessage, AIMessage, ToolMessage and GenericMessage. Anything
// else fails normalization.
type Message interface {
	messageType() string
}

// HumanMessage is a user-authored turn. Content is either a plain string or
// an ordered fragment list (see FlattenContent).
type HumanMessage struct {
	Content any
}

func (HumanMessage) messageType() string { return "human" }

// AIMessage is a model-authored turn. ToolCalls holds the tool invocations
// the model requested, if any.
type AIMessage struct {
	Content          any
	ToolCalls        []ToolCall
	ResponseMetadata map[string]any
}

func (AIMessage) messageType() string { return "ai" }

// ToolMessage is the result of one executed tool call.
type ToolMessage struct {
	ID         string
	Name       string
	Status     string
	Content    any
	ToolCallID string
}

func (ToolMessage) messageType() string { return "tool" }

// GenericMessage carries an arbitrary role tag. Only the "custom" role is
// accepted by the normalizer; its first content fragment travels verbatim as
// custom data.
type GenericMessage struct {
	Role    string
	Content []any
}

func (GenericMessage) messageType() string { return "generic" }

// FlattenContent reduces heterogeneous message content to a single string.
// Plain strings pass through; fragment lists concatenate string fragments and
// the text of fragments tagged {"type": "text"} in order, dropping every
// other fragment kind.
func FlattenContent(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		out := ""
		for _, item := range v {
			switch frag := item.(type) {
			case string:
				out += frag
			case map[string]any:
				if frag["type"] == "text" {
					if text, ok := frag["text"].(string); ok {
						out += text
					}
				}
			}
		}
		return out
	default:
		return ""
	}
}

// ---- snapshot serialization ----

// Conversation snapshots cross process boundaries through the run-state
// store, so messages serialize behind a type tag.

type storedMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type storedHuman struct {
	Content any `json:"content"`
}

type storedAI struct {
	Content          any            `json:"content"`
	ToolCalls        []ToolCall     `json:"tool_calls,omitempty"`
	ResponseMetadata map[string]any `json:"response_metadata,omitempty"`
}

type storedTool struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Status     string `json:"status,omitempty"`
	Content    any    `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

type storedGeneric struct {
	Role    string `json:"role"`
	Content []any  `json:"content"`
}

func EncodeMessages(messages []Message) ([]byte, error) {
	stored := make([]storedMessage, 0, len(messages))
	for _, msg := range messages {
		var payload any
		switch m := msg.(type) {
		case HumanMessage:
			payload = storedHuman{Content: m.Content}
		case AIMessage:
			payload = storedAI{Content: m.Content, ToolCalls: m.ToolCalls, ResponseMetadata: m.ResponseMetadata}
		case ToolMessage:
			payload = storedTool{ID: m.ID, Name: m.Name, Status: m.Status, Content: m.Content, ToolCallID: m.ToolCallID}
		case GenericMessage:
			payload = storedGeneric{Role: m.Role, Content: m.Content}
		default:
			return nil, fmt.Errorf("cannot encode message type %T", msg)
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		stored = append(stored, storedMessage{Type: msg.messageType(), Data: raw})
	}
	return json.Marshal(stored)
}

func DecodeMessages(raw []byte) ([]Message, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var stored []storedMessage
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(stored))
	for _, sm := range stored {
		switch sm.Type {
		case "human":
			var m storedHuman
			if err := json.Unmarshal(sm.Data, &m); err != nil {
				return nil, err
			}
			out = append(out, HumanMessage{Content: m.Content})
		case "ai":
			var m storedAI
			if err := json.Unmarshal(sm.Data, &m); err != nil {
				return nil, err
			}
			out = append(out, AIMessage{Content: m.Content, ToolCalls: m.ToolCalls, ResponseMetadata: m.ResponseMetadata})
		case "tool":
			var m storedTool
			if err := json.Unmarshal(sm.Data, &m); err != nil {
				return nil, err
			}
			out = append(out, ToolMessage{ID: m.ID, Name: m.Name, Status: m.Status, Content: m.Content, ToolCallID: m.ToolCallID})
		case "generic":
			var m storedGeneric
			if err := json.Unmarshal(sm.Data, &m); err != nil {
				return nil, err
			}
			out = append(out, GenericMessage{Role: m.Role, Content: m.Content})
		default:
			return nil, fmt.Errorf("cannot decode message type %q", sm.Type)
		}
	}
	return out, nil
}
