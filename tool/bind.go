package tool

import (
	ai "github.com/spetersoncode/openresponses"
)

// Bind creates a Tool and Handler from a typed function.
// The JSON schema for tool parameters is generated from T with
// invopop/jsonschema; fields without omitempty are required.
//
// Example:
//
//	type TranslateArgs struct {
//	    Text string `json:"text" jsonschema:"description=Text to translate"`
//	    To   string `json:"to" jsonschema:"description=Target language"`
//	}
//
//	t, h, err := tool.Bind("translate", "Translate text between languages",
//	    func(ctx context.Context, args TranslateArgs) (string, error) {
//	        return translate(args.Text, args.To), nil
//	    })
func Bind[T any](name, description string, fn TypedHandler[T]) (ai.Tool, Handler, error) {
	schema, err := ai.SchemaFor[T]()
	if err != nil {
		return ai.Tool{}, nil, err
	}

	t := ai.Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}
	return t, typed(fn), nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](name, description string, fn TypedHandler[T]) (ai.Tool, Handler) {
	t, h, err := Bind(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t, h
}
