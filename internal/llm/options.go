package llm

// DefaultBaseURL is used when no endpoint is configured.
const DefaultBaseURL = "http://localhost:8000/v1"

// Temperature returns a sampling temperature for a ChatRequest. A nil
// ChatRequest.Temperature leaves the server default in place.
func Temperature(v float64) *float64 {
	return &v
}

type clientConfig struct {
	baseURL string
	apiKey  string
	model   string
}

// Option configures an OpenAIClient.
type Option func(*clientConfig)

// WithBaseURL points the client at an OpenAI-compatible endpoint. Empty values are ignored.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithAPIKey sets the bearer token. Empty values are ignored, leaving a
// placeholder key that local servers accept.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		if key != "" {
			c.apiKey = key
		}
	}
}

// WithModel sets the model used when a ChatRequest names none.
func WithModel(model string) Option {
	return func(c *clientConfig) {
		c.model = model
	}
}
