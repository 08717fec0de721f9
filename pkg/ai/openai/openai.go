package openai

import (
	"math"
	"sync"
	"time"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultRequestTimeout = 120 * time.Second

// MapOpenAIClient implements ai.MapAIClient against any OpenAI-compatible
// chat completion endpoint. It manages one chat client and accumulates
// token usage metrics across calls.
//
// A MapOpenAIClient should be created using NewMapOpenAIClient.
type MapOpenAIClient struct {
	completionModel string
	structuredModel string

	chatURL string
	chatKey string

	requestTimeout time.Duration

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewMapOpenAIClientParams defines the configuration parameters for creating
// a new MapOpenAIClient.
//
// CompletionModel is used for plain-text generation (chunk summaries, titles).
// StructuredModel is used for schema-enforced generation (hierarchy,
// explanations, artifacts). ChatURL may be empty for the default OpenAI
// endpoint. RequestTimeout bounds every single call; zero means the default.
type NewMapOpenAIClientParams struct {
	CompletionModel string
	StructuredModel string

	ChatURL string
	ChatKey string

	RequestTimeout time.Duration
}

// NewMapOpenAIClient creates and returns a new MapOpenAIClient configured
// with the provided parameters.
//
// Example:
//
//	client := openai.NewMapOpenAIClient(openai.NewMapOpenAIClientParams{
//		CompletionModel: "gpt-4o-mini",
//		StructuredModel: "gpt-4o-mini",
//		ChatKey:         os.Getenv("AI_CHAT_KEY"),
//	})
func NewMapOpenAIClient(
	params NewMapOpenAIClientParams,
) *MapOpenAIClient {
	timeout := params.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	var options []option.RequestOption
	if params.ChatKey != "" {
		options = append(options, option.WithAPIKey(params.ChatKey))
	}
	if params.ChatURL != "" {
		options = append(options, option.WithBaseURL(params.ChatURL))
	}
	client := openai.NewClient(options...)

	return &MapOpenAIClient{
		completionModel: params.CompletionModel,
		structuredModel: params.StructuredModel,

		chatURL: params.ChatURL,
		chatKey: params.ChatKey,

		requestTimeout: timeout,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient: &client,
	}
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *MapOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics since the last reset.
func (c *MapOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *MapOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs

	if c.metrics.DurationMs > 0 {
		tokensPerSecond := (float64(c.metrics.TotalTokens) * 1000.0) / float64(c.metrics.DurationMs)
		c.metrics.TokenPerSecond = float32(math.Round(tokensPerSecond*100) / 100)
	}
}
