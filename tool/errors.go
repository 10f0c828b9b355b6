package tool

import "fmt"

// ErrToolNotFound reports a function call naming a tool the registry does
// not hold. CallID is empty when the tool was invoked by name.
type ErrToolNotFound struct {
	Name   string
	CallID string
}

func (e *ErrToolNotFound) Error() string {
	if e.CallID == "" {
		return fmt.Sprintf("tool %q not registered", e.Name)
	}
	return fmt.Sprintf("tool %q not registered (call %s)", e.Name, e.CallID)
}

// ErrToolExecution wraps a handler failure: a returned error, a recovered
// panic, or arguments that did not decode.
type ErrToolExecution struct {
	Name   string
	CallID string
	Err    error
}

func (e *ErrToolExecution) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Name, e.Err)
}

func (e *ErrToolExecution) Unwrap() error { return e.Err }

// ErrToolAlreadyRegistered is returned by Register for a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}
