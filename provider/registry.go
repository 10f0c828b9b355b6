package provider

import (
	"fmt"
	"sort"
	"strings"

	ai "github.com/spetersoncode/openresponses"
)

// UnknownProviderError is returned when a name matches no registered endpoint.
type UnknownProviderError struct {
	Name      string
	Available []string // sorted
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("provider: unknown provider %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// DuplicateEndpointError is returned when two endpoints share a name.
type DuplicateEndpointError struct {
	Name string
}

func (e *DuplicateEndpointError) Error() string {
	return fmt.Sprintf("provider: duplicate endpoint %q", e.Name)
}

// Registry is a static table of endpoints keyed by name.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	endpoints map[string]Endpoint
	names     []string
}

// NewRegistry builds a registry from the given endpoints.
func NewRegistry(endpoints ...Endpoint) (*Registry, error) {
	r := &Registry{endpoints: make(map[string]Endpoint, len(endpoints))}
	for _, ep := range endpoints {
		if ep.Name == "" {
			return nil, fmt.Errorf("provider: endpoint without name (url %q)", ep.URL)
		}
		if ep.URL == "" {
			return nil, fmt.Errorf("provider: endpoint %q without url", ep.Name)
		}
		if _, exists := r.endpoints[ep.Name]; exists {
			return nil, &DuplicateEndpointError{Name: ep.Name}
		}
		r.endpoints[ep.Name] = ep
		r.names = append(r.names, ep.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(endpoints ...Endpoint) *Registry {
	r, err := NewRegistry(endpoints...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the endpoint registered under name.
// It returns *UnknownProviderError listing every registered name otherwise.
func (r *Registry) Lookup(name string) (Endpoint, error) {
	if ep, ok := r.endpoints[name]; ok {
		return ep, nil
	}
	return Endpoint{}, &UnknownProviderError{Name: name, Available: r.Names()}
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	return len(r.names)
}

// Well-known endpoint URLs.
const (
	OpenAIURL      = "https://api.openai.com/v1/responses"
	AnthropicURL   = "https://api.anthropic.com/v1/responses"
	HuggingFaceURL = "https://api-inference.huggingface.co/v1/responses"
	TogetherURL    = "https://api.together.xyz/v1/responses"
	NebiusURL      = "https://api.nebius.ai/v1/responses"
	RouterURL      = "https://router.huggingface.co/v1/responses"
)

// DefaultEndpoints returns the built-in endpoint table.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: ai.ProviderOpenAI.String(), URL: OpenAIURL, Auth: Bearer(), Transport: TransportOpenAI},
		{Name: ai.ProviderAnthropic.String(), URL: AnthropicURL, Auth: APIKeyHeader("x-api-key"), Transport: TransportAnthropic},
		{Name: ai.ProviderHuggingFace.String(), URL: HuggingFaceURL, Auth: Bearer(), Transport: TransportOpenAI},
		{Name: ai.ProviderTogether.String(), URL: TogetherURL, Auth: Bearer(), Transport: TransportOpenAI},
		{Name: ai.ProviderNebius.String(), URL: NebiusURL, Auth: Bearer(), Transport: TransportOpenAI},
	}
}

// DefaultRegistry returns a registry holding DefaultEndpoints.
func DefaultRegistry() *Registry {
	return MustNewRegistry(DefaultEndpoints()...)
}

// Router returns the single endpoint used for suffix routing.
func Router() Endpoint {
	return Endpoint{Name: "router", URL: RouterURL, Auth: Bearer(), Transport: TransportOpenAI}
}
