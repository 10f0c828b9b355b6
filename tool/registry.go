package tool

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	ai "github.com/spetersoncode/openresponses"
)

// registeredTool combines a tool definition with its handler.
type registeredTool struct {
	tool    ai.Tool
	handler Handler
}

// Registry manages registered tools and their handlers.
// It is safe for concurrent use; registration is expected to finish before
// agent loops start calling tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registeredTool),
	}
}

// Register adds a tool with its handler to the registry.
// Returns *ErrToolAlreadyRegistered if the name is taken.
func (r *Registry) Register(tool ai.Tool, handler Handler) error {
	if tool.Name == "" {
		return errors.New("tool: name required")
	}
	if handler == nil {
		return fmt.Errorf("tool: %s: nil handler", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}

	r.tools[tool.Name] = registeredTool{
		tool:    tool,
		handler: handler,
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tool ai.Tool, handler Handler) {
	if err := r.Register(tool, handler); err != nil {
		panic(err)
	}
}

// Unregister removes a tool from the registry.
// It is a no-op if the tool is not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get retrieves a handler by tool name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.handler, true
}

// GetTool retrieves a tool definition by name.
func (r *Registry) GetTool(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return ai.Tool{}, false
	}
	return rt.tool, true
}

// Tools returns all registered tool definitions sorted by name, so request
// bodies are deterministic.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, rt := range r.tools {
		tools = append(tools, rt.tool)
	}
	slices.SortFunc(tools, func(a, b ai.Tool) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return tools
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Invoke runs the handler for call. It returns *ErrToolNotFound for an
// unregistered name and *ErrToolExecution when the handler fails or panics.
func (r *Registry) Invoke(ctx context.Context, call *ai.FunctionCall) (result string, err error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return "", &ErrToolNotFound{Name: call.Name, CallID: call.CallID}
	}

	defer func() {
		if p := recover(); p != nil {
			result = ""
			err = &ErrToolExecution{Name: call.Name, CallID: call.CallID, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	result, err = rt.handler(ctx, call)
	if err != nil {
		return "", &ErrToolExecution{Name: call.Name, CallID: call.CallID, Err: err}
	}
	return result, nil
}

// Call runs the named tool with JSON arguments. Handler failures are
// converted to a textual result (see ErrorOutput) so the model can recover;
// only an unknown tool is returned as an error.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	return r.call(ctx, &ai.FunctionCall{Name: name, Arguments: args})
}

func (r *Registry) call(ctx context.Context, call *ai.FunctionCall) (string, error) {
	out, err := r.Invoke(ctx, call)
	if err != nil {
		var notFound *ErrToolNotFound
		if errors.As(err, &notFound) {
			return "", err
		}
		return ErrorOutput(err), nil
	}
	return out, nil
}

// Execute runs a function call and returns the output item answering it.
// Returns *ErrToolNotFound if the tool is not registered.
func (r *Registry) Execute(ctx context.Context, call *ai.FunctionCall) (*ai.FunctionCallOutput, error) {
	out, err := r.call(ctx, call)
	if err != nil {
		return nil, err
	}
	return ai.NewFunctionCallOutput(call.CallID, out), nil
}

// ErrorOutput renders a handler failure as tool output text.
func ErrorOutput(err error) string {
	var execErr *ErrToolExecution
	if errors.As(err, &execErr) {
		err = execErr.Err
	}
	return "error: " + err.Error()
}

// RegisterFunc registers a tool with a typed handler that automatically
// unmarshals the arguments JSON into the specified type T.
//
// Example:
//
//	type SearchArgs struct {
//	    Query string `json:"query" jsonschema:"description=Search query"`
//	}
//
//	tool.RegisterFunc(registry, "search", "Search the web",
//	    func(ctx context.Context, args SearchArgs) (string, error) {
//	        return doSearch(args.Query), nil
//	    },
//	)
func RegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	t, h, err := Bind(name, description, fn)
	if err != nil {
		return err
	}
	return r.Register(t, h)
}

// MustRegisterFunc is like RegisterFunc but panics on error.
func MustRegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) {
	if err := RegisterFunc(r, name, description, fn); err != nil {
		panic(err)
	}
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func creates a Registration with automatic schema generation from the typed handler.
// Panics if schema generation fails.
//
// Example:
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("weather", "Get weather", func(ctx context.Context, args WeatherArgs) (string, error) {
//	        return getWeather(args.Location), nil
//	    }),
//	    tool.Func("search", "Search web", searchHandler),
//	)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	t, h := MustBind(name, description, fn)
	return Registration{Tool: t, Handler: h}
}

// WithHandler creates a Registration from a Handler and schema.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: h,
	}
}

// WithTool creates a Registration from an existing Tool and Handler.
func WithTool(t ai.Tool, h Handler) Registration {
	return Registration{
		Tool:    t,
		Handler: h,
	}
}

// Add registers one or more tools to the registry.
// Panics if any tool is already registered.
// Returns the registry for fluent chaining.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}

// RegisterAll registers all registrations, returning the first error.
func (r *Registry) RegisterAll(regs ...Registration) error {
	for _, reg := range regs {
		if err := r.Register(reg.Tool, reg.Handler); err != nil {
			return err
		}
	}
	return nil
}
