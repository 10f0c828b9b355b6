package provider

// AuthScheme builds the authentication header for an endpoint.
type AuthScheme interface {
	// Header returns the header name and value carrying apiKey.
	Header(apiKey string) (name, value string)
}

type bearerAuth struct{}

func (bearerAuth) Header(apiKey string) (string, string) {
	return "Authorization", "Bearer " + apiKey
}

// Bearer returns the "Authorization: Bearer <key>" scheme.
func Bearer() AuthScheme {
	return bearerAuth{}
}

type headerAuth string

func (h headerAuth) Header(apiKey string) (string, string) {
	return string(h), apiKey
}

// APIKeyHeader returns a scheme that sends the raw key in the named header,
// for example "x-api-key".
func APIKeyHeader(name string) AuthScheme {
	return headerAuth(name)
}

// TransportKind selects the HTTP stack used to reach an endpoint.
type TransportKind string

const (
	// TransportOpenAI posts through the OpenAI SDK request pipeline.
	TransportOpenAI TransportKind = "openai"

	// TransportAnthropic posts through the Anthropic SDK request pipeline,
	// which adds the anthropic-version header.
	TransportAnthropic TransportKind = "anthropic"
)

// Endpoint is a responses endpoint. Endpoints are values; they are built
// once when a Registry is created and never mutated.
type Endpoint struct {
	Name      string
	URL       string
	Auth      AuthScheme
	Transport TransportKind
}

// AuthHeader returns the authentication header for apiKey. Endpoints
// without an explicit scheme use bearer authentication.
func (e Endpoint) AuthHeader(apiKey string) (string, string) {
	if e.Auth == nil {
		return Bearer().Header(apiKey)
	}
	return e.Auth.Header(apiKey)
}

// TransportOrDefault returns the endpoint transport, defaulting to TransportOpenAI.
func (e Endpoint) TransportOrDefault() TransportKind {
	if e.Transport == "" {
		return TransportOpenAI
	}
	return e.Transport
}
