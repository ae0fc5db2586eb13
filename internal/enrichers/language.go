package enrichers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"language-enricher/internal/common/cache"
	"language-enricher/internal/common/errors"
	commonhttp "language-enricher/internal/common/http"
	"language-enricher/internal/common/logging"
	"language-enricher/internal/common/validation"
	"language-enricher/internal/models"
)

// DetectPath is appended to the configured server URL to reach the
// conversation language detection endpoint.
const DetectPath = "conversation_language_detect_plugin"

// DetectionClient posts a detection request and returns the decoded response.
// *commonhttp.Client satisfies it.
type DetectionClient interface {
	PostJSON(ctx context.Context, url string, payload interface{}, token string) (models.DetectionResponse, error)
}

// EnricherConfig is the read-only configuration of a LanguageEnricher
type EnricherConfig struct {
	APIServerURL string `json:"api_server_url"`
	Token        string `json:"-"`
}

// LanguageEnricher adds detected conversation languages to LLM events.
//
// For an event carrying both $llm_input and $llm_output it asks the detection
// service which languages the user and the agent used and merges the answer
// into the event properties. Events that were already enriched are only
// cleaned up: empty language fields are removed and no request is made.
//
// The enricher keeps no per-event state and is safe for concurrent use.
type LanguageEnricher struct {
	config EnricherConfig
	client DetectionClient
	cache  cache.Cache
	logger logging.Logger
}

// Option configures a LanguageEnricher
type Option func(*LanguageEnricher)

// WithHTTPClient sets the client used to call the detection service
func WithHTTPClient(client DetectionClient) Option {
	return func(e *LanguageEnricher) {
		e.client = client
	}
}

// WithLogger sets the enricher logger
func WithLogger(logger logging.Logger) Option {
	return func(e *LanguageEnricher) {
		e.logger = logger
	}
}

// WithCache hands the host cache to the enricher
func WithCache(c cache.Cache) Option {
	return func(e *LanguageEnricher) {
		e.cache = c
	}
}

// NewLanguageEnricher creates a new language enricher. The server URL is
// checked on every ProcessEvent call, not here.
func NewLanguageEnricher(config EnricherConfig, opts ...Option) *LanguageEnricher {
	e := &LanguageEnricher{
		config: config,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.GetGlobalLogger()
	}
	if e.client == nil {
		e.client = commonhttp.NewClient(commonhttp.WithLogger(e.logger))
	}

	return e
}

// Setup runs once when the enricher is loaded
func (e *LanguageEnricher) Setup(ctx context.Context) error {
	e.logger.WithContext(ctx).Info("Language enricher loaded",
		logging.Field{Key: "api_server_url", Value: e.config.APIServerURL},
		logging.Field{Key: "cache", Value: e.cacheBackend()},
	)
	return nil
}

// Cache returns the host cache handed to the enricher, or nil
func (e *LanguageEnricher) Cache() cache.Cache {
	return e.cache
}

// Health reports whether the enricher's collaborators are usable
func (e *LanguageEnricher) Health(ctx context.Context) error {
	if e.cache == nil {
		return nil
	}
	if err := e.cache.Health(ctx); err != nil {
		return errors.InternalError("cache unavailable", err).WithContext("backend", e.cache.Backend())
	}
	return nil
}

func (e *LanguageEnricher) cacheBackend() string {
	if e.cache == nil {
		return "none"
	}
	return e.cache.Backend()
}

// DetectURL joins the normalized server URL and the detection path, adding a
// slash only when the server URL does not already end with one.
func DetectURL(serverURL string) (string, error) {
	base, ok := validation.NormalizeURL(serverURL)
	if !ok {
		return "", errors.ConfigError(fmt.Sprintf("invalid API_SERVER_URL: %q", serverURL))
	}

	if strings.HasSuffix(base, "/") {
		return base + DetectPath, nil
	}
	return base + "/" + DetectPath, nil
}

// ProcessEvent enriches event in place and returns it.
//
// Errors from the detection service are returned unchanged and leave the
// event without language fields.
func (e *LanguageEnricher) ProcessEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event == nil {
		return nil, errors.ValidationError("event is required")
	}

	fullURL, err := DetectURL(e.config.APIServerURL)
	if err != nil {
		e.logger.WithContext(ctx).Error("Cannot process event", err)
		return nil, err
	}

	event.EnsureProperties()
	props := event.Properties
	logger := e.logger.WithContext(ctx).WithFields(logging.Field{Key: "event_uuid", Value: event.UUID})

	llmInput, _ := event.Property(models.PropertyLLMInput)
	llmOutput, _ := event.Property(models.PropertyLLMOutput)
	if !truthy(llmInput) || !truthy(llmOutput) {
		logger.Debug("Event has no LLM input or output, skipping")
		return event, nil
	}

	if alreadyEnriched(props) {
		removed := pruneEmptyLanguageProperties(props)
		logger.Debug("Event already enriched, skipping detection",
			logging.Field{Key: "removed", Value: removed},
		)
		return event, nil
	}

	text, err := inputText(llmInput)
	if err != nil {
		return nil, err
	}

	result, err := e.client.PostJSON(ctx, fullURL, models.DetectionRequest{
		LLMInput:  text,
		LLMOutput: llmOutput,
	}, e.config.Token)
	if err != nil {
		return nil, err
	}

	// Every returned key is written, including empty and zero values.
	for key, value := range result {
		props[key] = value
	}

	logger.Debug("Event enriched with detected languages",
		logging.Field{Key: "fields", Value: len(result)},
	)

	return event, nil
}

func alreadyEnriched(props map[string]interface{}) bool {
	for _, key := range models.LanguageProperties {
		if _, ok := props[key]; ok {
			return true
		}
	}
	return false
}

// pruneEmptyLanguageProperties deletes language fields holding "" or zero
// and returns the deleted keys.
func pruneEmptyLanguageProperties(props map[string]interface{}) []string {
	var removed []string
	for _, key := range models.LanguageProperties {
		value, ok := props[key]
		if !ok {
			continue
		}
		if s, isString := value.(string); (isString && s == "") || isZeroNumber(value) {
			delete(props, key)
			removed = append(removed, key)
		}
	}
	return removed
}

// inputText extracts the user text from $llm_input: a string is used as-is,
// a message list yields the content of its last message.
func inputText(input interface{}) (interface{}, error) {
	switch v := input.(type) {
	case string:
		return v, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, errors.ValidationError("$llm_input message list is empty")
		}
		message, ok := v[len(v)-1].(map[string]interface{})
		if !ok {
			return nil, errors.ValidationError("last $llm_input message is not an object")
		}
		return message["content"], nil
	default:
		return nil, errors.ValidationError(fmt.Sprintf("$llm_input has unsupported type %T", input))
	}
}

// truthy follows JSON truthiness: null, false, "" and 0 are false.
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		return !isZeroNumber(value)
	}
}

func isZeroNumber(value interface{}) bool {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	case float64:
		return v == 0
	case float32:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	case int32:
		return v == 0
	case uint:
		return v == 0
	case uint64:
		return v == 0
	default:
		return false
	}
}
