// Package env provides the environment variable names the launcher reads
// and writes, and a lookup indirection so they can be faked in tests.
package env

// Variable names passed to the browser process.
const (
	// OpenAIAPIKey is forwarded to the child when an OpenAI key is
	// configured.
	OpenAIAPIKey = "OPENAI_API_KEY"

	// AnthropicAPIKey is forwarded to the child when an Anthropic key is
	// configured.
	AnthropicAPIKey = "ANTHROPIC_API_KEY"

	// Strategy carries the AI execution strategy marker. It is written
	// verbatim and never interpreted by this library.
	Strategy = "WEB_INTEL_STRATEGY"
)

// Variable names read by the launcher itself.
const (
	// LogLevel overrides the logger level (panic, fatal, error, warn,
	// info, debug, trace).
	LogLevel = "WEB_INTEL_LOG"

	// BrowserPath overrides the browser executable lookup.
	BrowserPath = "WEB_INTEL_BROWSER_PATH"
)

// LookupFunc defines a function to look up a key from the environment.
type LookupFunc func(key string) (string, bool)

// EmptyLookup is a LookupFunc that always returns "" and false.
func EmptyLookup(_ string) (string, bool) { return "", false }

// ConstLookup is a LookupFunc that always returns the given value and
// true for the given key, and "" and false for any other key.
func ConstLookup(key, value string) LookupFunc {
	return func(k string) (string, bool) {
		if k == key {
			return value, true
		}
		return EmptyLookup(k)
	}
}
