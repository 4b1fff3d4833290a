package agent

import (
	"fmt"

	"github.com/catonzio/plum-backend/internal/platform/apierr"
)

// Normalize converts one raw runtime message into the canonical ChatMessage
// shape. The variant set is closed: anything outside
// {human, ai, tool, generic "custom"} is a contract violation against the
// agent runtime and fails with an unsupported error naming the offender.
func Normalize(msg Message) (*ChatMessage, error) {
	switch m := msg.(type) {
	case HumanMessage:
		return &ChatMessage{
			Type:    "human",
			Content: FlattenContent(m.Content),
		}, nil
	case AIMessage:
		out := &ChatMessage{
			Type:    "ai",
			Content: FlattenContent(m.Content),
		}
		if len(m.ToolCalls) > 0 {
			out.ToolCalls = m.ToolCalls
		}
		if len(m.ResponseMetadata) > 0 {
			out.ResponseMetadata = m.ResponseMetadata
		}
		return out, nil
	case ToolMessage:
		return &ChatMessage{
			Type:       "tool",
			Content:    FlattenContent(m.Content),
			ToolCallID: m.ToolCallID,
		}, nil
	case GenericMessage:
		if m.Role == "custom" {
			out := &ChatMessage{
				Type:    "custom",
				Content: "",
			}
			if len(m.Content) > 0 {
				out.CustomData = m.Content[0]
			}
			return out, nil
		}
		return nil, apierr.Unsupported(
			"unsupported_message_role",
			fmt.Errorf("unsupported chat message role: %s", m.Role),
		)
	default:
		return nil, apierr.Unsupported(
			"unsupported_message_type",
			fmt.Errorf("unsupported message type: %T", msg),
		)
	}
}

// ProcessOutput shapes the final message list of a completed run. The last
// message becomes the primary response; every tool message that appears after
// the most recent human message is attached to it as a ToolCall, replacing
// any tool-call requests the model emitted along the way.
func ProcessOutput(messages []Message) (*ChatMessage, error) {
	if len(messages) == 0 {
		return nil, apierr.Internal(
			"empty_message_list",
			fmt.Errorf("run completed with no messages"),
		)
	}
	out, err := Normalize(messages[len(messages)-1])
	if err != nil {
		return nil, err
	}

	lastHumanIndex := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if _, ok := messages[i].(HumanMessage); ok {
			lastHumanIndex = i
			break
		}
	}

	// Tool attribution needs an anchoring human message; without one the
	// whole list predates the current turn.
	if lastHumanIndex == -1 {
		return out, nil
	}

	var toolCalls []ToolCall
	for _, msg := range messages[lastHumanIndex+1:] {
		tool, ok := msg.(ToolMessage)
		if !ok {
			continue
		}
		toolCalls = append(toolCalls, ToolCall{
			Name:    tool.Name,
			Args:    tool.Status,
			ID:      tool.ID,
			Content: FlattenContent(tool.Content),
			Type:    tool.messageType(),
		})
	}
	if len(toolCalls) > 0 {
		out.ToolCalls = toolCalls
	}

	return out, nil
}
