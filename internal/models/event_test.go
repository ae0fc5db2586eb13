package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_UnmarshalJSON(t *testing.T) {
	t.Run("known fields, properties and extras", func(t *testing.T) {
		body := `{
			"uuid": "0190",
			"event": "$ai_generation",
			"distinct_id": "user-1",
			"timestamp": "2024-05-01T10:00:00Z",
			"team_id": 2,
			"site_url": "https://app.example.com",
			"properties": {"$llm_input": "hi", "user_lang_count": 1, "ratio": 0.50}
		}`

		var event Event
		require.NoError(t, json.Unmarshal([]byte(body), &event))

		assert.Equal(t, "0190", event.UUID)
		assert.Equal(t, "$ai_generation", event.Event)
		assert.Equal(t, "user-1", event.DistinctID)
		assert.Equal(t, "2024-05-01T10:00:00Z", event.Timestamp)
		assert.Equal(t, json.RawMessage(`2`), event.Extra["team_id"])
		assert.Equal(t, "hi", event.Properties[PropertyLLMInput])
		assert.Equal(t, json.Number("1"), event.Properties[PropertyUserLangCount])
		assert.Equal(t, json.Number("0.50"), event.Properties["ratio"])
	})

	t.Run("missing properties stay nil", func(t *testing.T) {
		var event Event
		require.NoError(t, json.Unmarshal([]byte(`{"event": "x"}`), &event))
		assert.Nil(t, event.Properties)
	})

	t.Run("null properties stay nil", func(t *testing.T) {
		var event Event
		require.NoError(t, json.Unmarshal([]byte(`{"properties": null}`), &event))
		assert.Nil(t, event.Properties)
	})

	t.Run("non-object properties rejected", func(t *testing.T) {
		var event Event
		err := json.Unmarshal([]byte(`{"properties": [1, 2]}`), &event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "properties")
	})

	t.Run("non-object event rejected", func(t *testing.T) {
		var event Event
		assert.Error(t, json.Unmarshal([]byte(`[]`), &event))
		assert.Error(t, json.Unmarshal([]byte(`null`), &event))
	})

	t.Run("wrong type for known field", func(t *testing.T) {
		var event Event
		assert.Error(t, json.Unmarshal([]byte(`{"uuid": 12}`), &event))
	})
}

func TestEvent_MarshalJSON_RoundTrip(t *testing.T) {
	body := `{"distinct_id":"u","event":"e","properties":{"$llm_input":[{"content":"hola","role":"user"}],"agent_lang_count":2,"score":1.0},"team_id":2}`

	var event Event
	require.NoError(t, json.Unmarshal([]byte(body), &event))

	out, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Equal(t, body, string(out))
}

func TestEvent_MarshalJSON_KeepsEmptyAndNullFields(t *testing.T) {
	body := `{"distinct_id":"","event":null,"properties":{},"timestamp":null,"uuid":""}`

	var event Event
	require.NoError(t, json.Unmarshal([]byte(body), &event))
	assert.Empty(t, event.UUID)
	assert.Empty(t, event.Event)

	out, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Equal(t, body, string(out))

	t.Run("typed value wins over kept raw value", func(t *testing.T) {
		event.Event = "$ai_generation"
		out, err := json.Marshal(event)
		require.NoError(t, err)
		assert.JSONEq(t, `{"distinct_id":"","event":"$ai_generation","properties":{},"timestamp":null,"uuid":""}`, string(out))
	})
}

func TestEvent_MarshalJSON_OmitsNilProperties(t *testing.T) {
	out, err := json.Marshal(Event{Event: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"x"}`, string(out))

	event := Event{Event: "x"}
	event.EnsureProperties()
	out, err = json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"x","properties":{}}`, string(out))
}

func TestEvent_Property(t *testing.T) {
	var event Event
	_, ok := event.Property(PropertyLLMOutput)
	assert.False(t, ok)

	event.EnsureProperties()
	event.Properties[PropertyLLMOutput] = nil

	value, ok := event.Property(PropertyLLMOutput)
	assert.True(t, ok)
	assert.Nil(t, value)
}

func TestDecodeJSON(t *testing.T) {
	var out map[string]interface{}
	require.NoError(t, DecodeJSON([]byte(`{"n": 10}`), &out))
	assert.Equal(t, json.Number("10"), out["n"])

	assert.Error(t, DecodeJSON([]byte(`{"n": 1} {"m": 2}`), &out))
	assert.Error(t, DecodeJSON([]byte(`{`), &out))
}

func TestDetectionRequest_JSON(t *testing.T) {
	out, err := json.Marshal(DetectionRequest{LLMInput: "hi", LLMOutput: "hola"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"llm_input":"hi","llm_output":"hola"}`, string(out))
}
