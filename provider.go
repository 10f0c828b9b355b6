package openresponses

// Provider identifies a responses endpoint by logical name.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Providers in the default registry.
const (
	ProviderOpenAI      Provider = "openai"
	ProviderAnthropic   Provider = "anthropic"
	ProviderHuggingFace Provider = "huggingface"
	ProviderTogether    Provider = "together"
	ProviderNebius      Provider = "nebius"
)
