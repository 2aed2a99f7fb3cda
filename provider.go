package blogsmith

// Provider identifies an AI provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

// Valid reports whether p names a supported provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderGoogle:
		return true
	}
	return false
}
