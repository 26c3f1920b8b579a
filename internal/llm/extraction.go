package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Extraction is the model's structured read of a conversation. Every field
// is a string or absent; the wire payload must carry exactly these five keys.
type Extraction struct {
	Name     *string
	Budget   *string
	Location *string
	Type     *string
	Timeline *string
}

var extractionKeys = []string{"name", "budget", "location", "type", "timeline"}

const extractionPrompt = `Extract lead details from the conversation below.
Respond with a single JSON object containing exactly these keys: "name",
"budget", "location", "type", "timeline". Every value must be a string or
null. Use null for anything the conversation does not state. No other text.

Conversation:
%s`

// ExtractLead asks the model for the structured lead tuple. Any payload that
// is not valid JSON with exactly the expected keys, each a string or null,
// is a hard failure for this message's synthesis step.
func (c *Client) ExtractLead(ctx context.Context, transcript string) (Extraction, error) {
	if c == nil {
		return Extraction{}, fmt.Errorf("model client not configured")
	}

	raw, err := c.Chat(ctx, []Message{
		{Role: "user", Content: fmt.Sprintf(extractionPrompt, transcript)},
	})
	if err != nil {
		return Extraction{}, err
	}

	return ParseExtraction(raw)
}

// ParseExtraction validates and decodes the model's extraction payload.
func ParseExtraction(raw string) (Extraction, error) {
	cleaned := stripCodeFence(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return Extraction{}, fmt.Errorf("extraction payload is not valid JSON: %w", err)
	}
	if len(fields) != len(extractionKeys) {
		return Extraction{}, fmt.Errorf("extraction payload has %d keys, want %d", len(fields), len(extractionKeys))
	}

	values := make(map[string]*string, len(extractionKeys))
	for _, key := range extractionKeys {
		raw, ok := fields[key]
		if !ok {
			return Extraction{}, fmt.Errorf("extraction payload missing key %q", key)
		}

		if string(raw) == "null" {
			values[key] = nil
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return Extraction{}, fmt.Errorf("extraction key %q is neither string nor null", key)
		}
		values[key] = &value
	}

	return Extraction{
		Name:     values["name"],
		Budget:   values["budget"],
		Location: values["location"],
		Type:     values["type"],
		Timeline: values["timeline"],
	}, nil
}

// stripCodeFence unwraps a ```json fenced block if the model added one.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
