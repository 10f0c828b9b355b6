package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/agent"
)

const rejectedByOperator = "Rejected by operator"

// consoleApprovals prompts on out for every gated call and answers the
// oldest waiting call with each line read from in. Calls wait until the
// run's context ends.
func consoleApprovals(in io.Reader, out io.Writer) *agent.ApprovalBroker {
	var mu sync.Mutex // prompts from parallel calls
	broker := agent.NewApprovalBroker(
		agent.WithApprovalTimeout(0),
		agent.OnApprovalRequest(func(call *ai.FunctionCall) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "Allow %s(%s)? [y/N] ", call.Name, string(call.Arguments))
		}),
	)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			call, ok := broker.Next()
			if !ok {
				continue
			}
			// The call may have been withdrawn since Next; nothing to answer then.
			if strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				_ = broker.Approve(call.CallID)
			} else {
				_ = broker.Reject(call.CallID, rejectedByOperator)
			}
		}
	}()

	return broker
}
