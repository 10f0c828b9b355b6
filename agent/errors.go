package agent

import (
	"errors"
)

// Sentinel errors for agent runs.
var (
	// ErrEmptyTask indicates Run was called without a task.
	ErrEmptyTask = errors.New("agent: empty task")

	// ErrNilSender indicates the agent has no Sender to call.
	ErrNilSender = errors.New("agent: nil sender")
)
