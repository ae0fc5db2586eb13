// Package enrichers adds conversation language information to LLM events.
//
// LanguageEnricher reads $llm_input and $llm_output from an event, sends them
// to the language detection service at
// <API_SERVER_URL>/conversation_language_detect_plugin and merges the answer
// (user_languages, agent_languages, user_lang_count, agent_lang_count) into
// the event properties.
//
// Events without both LLM fields pass through untouched. Events that already
// carry any language field are not sent again; empty or zero language fields
// are removed from them instead.
//
// Basic usage:
//
//	enricher := enrichers.NewLanguageEnricher(enrichers.EnricherConfig{
//		APIServerURL: "https://lang.example.com",
//	})
//	event, err := enricher.ProcessEvent(ctx, event)
package enrichers
