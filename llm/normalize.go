package llm

import (
	"encoding/json"

	"github.com/vinayprograms/vogsphere/errors"
)

// responseShape pulls the generated text out of one known reply layout.
type responseShape struct {
	name    string
	extract func(body map[string]interface{}) (string, bool)
}

// responseShapes are tried in order regardless of the declared provider,
// since compatible servers often mimic the OpenAI layout.
var responseShapes = []responseShape{
	{"openai", openAIText},    // choices[0].message.content
	{"local", localText},      // message.content
	{"anthropic", claudeText}, // content[0].text
	{"gemini", geminiText},    // candidates[0].content.parts[0].text
}

// ExtractText returns the generated text from a decoded provider reply.
// A body matching no known shape fails with PROVIDER_RESPONSE carrying the
// raw body for diagnostics.
func ExtractText(provider string, body map[string]interface{}) (string, error) {
	if text, ok := firstMatch(body); ok {
		return text, nil
	}

	raw, _ := json.Marshal(body)
	return "", invalidResponse(provider, string(raw))
}

// ParseResponse decodes a raw reply and extracts its text.
func ParseResponse(provider string, raw []byte) (string, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", errors.ProviderResponse("Invalid JSON response from provider.",
			errors.WithCause(err),
			errors.WithMetadata("provider", provider),
			errors.WithMetadata("body", string(raw)),
		)
	}
	if text, ok := firstMatch(body); ok {
		return text, nil
	}
	return "", invalidResponse(provider, string(raw))
}

func firstMatch(body map[string]interface{}) (string, bool) {
	for _, shape := range responseShapes {
		if text, ok := shape.extract(body); ok {
			return text, true
		}
	}
	return "", false
}

func invalidResponse(provider, raw string) error {
	return errors.FromCode(errors.ErrCodeProviderResponse,
		errors.WithMetadata("provider", provider),
		errors.WithMetadata("body", raw),
	)
}

func openAIText(body map[string]interface{}) (string, bool) {
	first, ok := firstObject(body["choices"])
	if !ok {
		return "", false
	}
	return messageContent(first)
}

func localText(body map[string]interface{}) (string, bool) {
	return messageContent(body)
}

func claudeText(body map[string]interface{}) (string, bool) {
	first, ok := firstObject(body["content"])
	if !ok {
		return "", false
	}
	text, ok := first["text"].(string)
	return text, ok
}

func geminiText(body map[string]interface{}) (string, bool) {
	candidate, ok := firstObject(body["candidates"])
	if !ok {
		return "", false
	}
	content, ok := candidate["content"].(map[string]interface{})
	if !ok {
		return "", false
	}
	part, ok := firstObject(content["parts"])
	if !ok {
		return "", false
	}
	text, ok := part["text"].(string)
	return text, ok
}

// messageContent reads obj.message.content.
func messageContent(obj map[string]interface{}) (string, bool) {
	msg, ok := obj["message"].(map[string]interface{})
	if !ok {
		return "", false
	}
	content, ok := msg["content"].(string)
	return content, ok
}

// firstObject returns v[0] when v is a non-empty array whose first element
// is an object.
func firstObject(v interface{}) (map[string]interface{}, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) == 0 {
		return nil, false
	}
	obj, ok := arr[0].(map[string]interface{})
	return obj, ok
}
