// Package models holds the event and detection payload types shared by the
// enricher, the HTTP client and the service handlers.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Property keys read and written by the language enricher.
const (
	PropertyLLMInput       = "$llm_input"
	PropertyLLMOutput      = "$llm_output"
	PropertyUserLanguages  = "user_languages"
	PropertyAgentLanguages = "agent_languages"
	PropertyUserLangCount  = "user_lang_count"
	PropertyAgentLangCount = "agent_lang_count"
)

// LanguageProperties lists the keys the detection service produces.
var LanguageProperties = []string{
	PropertyUserLanguages,
	PropertyAgentLanguages,
	PropertyUserLangCount,
	PropertyAgentLangCount,
}

// Event is a single analytics record. Properties is mutated in place by the
// enricher; top-level fields the service does not know about are kept in
// Extra and written back unchanged.
type Event struct {
	UUID       string
	Event      string
	DistinctID string
	Timestamp  string
	Properties map[string]interface{}
	Extra      map[string]json.RawMessage
}

// EnsureProperties creates an empty property map when none is present.
func (e *Event) EnsureProperties() {
	if e.Properties == nil {
		e.Properties = make(map[string]interface{})
	}
}

// Property returns the value stored under key and whether the key is present.
func (e *Event) Property(key string) (interface{}, bool) {
	if e.Properties == nil {
		return nil, false
	}
	value, ok := e.Properties[key]
	return value, ok
}

// UnmarshalJSON decodes an event, keeping JSON numbers as json.Number so they
// are written back exactly as received.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("event must be a JSON object")
	}

	decoded := Event{}
	keepRaw := func(key string, value json.RawMessage) {
		if decoded.Extra == nil {
			decoded.Extra = make(map[string]json.RawMessage)
		}
		decoded.Extra[key] = value
	}

	for key, value := range raw {
		var err error
		switch key {
		case "uuid", "event", "distinct_id", "timestamp":
			var text *string
			if err = json.Unmarshal(value, &text); err != nil {
				break
			}
			// null and "" are not representable by the typed field, keep them as sent
			if text == nil || *text == "" {
				keepRaw(key, value)
				break
			}
			*decoded.field(key) = *text
		case "properties":
			decoded.Properties, err = decodeProperties(value)
		default:
			keepRaw(key, value)
		}
		if err != nil {
			return fmt.Errorf("invalid event field %q: %w", key, err)
		}
	}

	*e = decoded
	return nil
}

func (e *Event) field(key string) *string {
	switch key {
	case "uuid":
		return &e.UUID
	case "event":
		return &e.Event
	case "distinct_id":
		return &e.DistinctID
	default:
		return &e.Timestamp
	}
}

// MarshalJSON encodes the event with sorted keys. Properties is omitted only
// when it was never set. A named field left empty falls back to the raw value
// received for it, so "" and null survive a decode/encode round trip.
func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Extra)+5)
	for key, value := range e.Extra {
		out[key] = value
	}
	if e.UUID != "" {
		out["uuid"] = e.UUID
	}
	if e.Event != "" {
		out["event"] = e.Event
	}
	if e.DistinctID != "" {
		out["distinct_id"] = e.DistinctID
	}
	if e.Timestamp != "" {
		out["timestamp"] = e.Timestamp
	}
	if e.Properties != nil {
		out["properties"] = e.Properties
	}
	return json.Marshal(out)
}

func decodeProperties(data []byte) (map[string]interface{}, error) {
	var props map[string]interface{}
	if err := DecodeJSON(data, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// DecodeJSON unmarshals data into v with json.Number for numeric values.
func DecodeJSON(data []byte, v interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

// DetectionRequest is the body posted to the language detection service.
type DetectionRequest struct {
	LLMInput  interface{} `json:"llm_input"`
	LLMOutput interface{} `json:"llm_output"`
}

// DetectionResponse is the decoded body returned by the detection service.
// Every key is merged onto the event, not only the four language keys.
type DetectionResponse map[string]interface{}
