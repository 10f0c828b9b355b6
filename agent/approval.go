package agent

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	ai "github.com/spetersoncode/openresponses"
)

// ApprovalDecision answers one gated function call.
type ApprovalDecision struct {
	CallID   string
	Approved bool
	Reason   string // rejection reason, ignored when Approved
}

// ApprovalBroker decouples the approver the loop calls from the place the
// decision is made, such as a terminal or an HTTP handler. Gated calls wait
// in arrival order until Decide answers them.
//
//	broker := agent.NewApprovalBroker(agent.OnApprovalRequest(prompt))
//	go readDecisions(broker)
//	result, err := a.Run(ctx, task,
//	    agent.WithApprovalRequired("send_email"),
//	    agent.WithApprover(broker.Approver()),
//	)
type ApprovalBroker struct {
	mu      sync.Mutex
	waiting map[string]chan ApprovalDecision
	queue   []*ai.FunctionCall

	timeout   time.Duration
	onRequest func(call *ai.FunctionCall)
}

// BrokerOption configures an ApprovalBroker.
type BrokerOption func(*ApprovalBroker)

// WithApprovalTimeout rejects a call left undecided for d. Zero waits until
// the run's context ends.
func WithApprovalTimeout(d time.Duration) BrokerOption {
	return func(b *ApprovalBroker) { b.timeout = d }
}

// OnApprovalRequest registers fn to run each time a call starts waiting.
// fn runs on the loop's goroutine and must not block on a decision.
func OnApprovalRequest(fn func(call *ai.FunctionCall)) BrokerOption {
	return func(b *ApprovalBroker) { b.onRequest = fn }
}

// NewApprovalBroker returns a broker. Undecided calls are rejected after
// five minutes unless WithApprovalTimeout says otherwise.
func NewApprovalBroker(opts ...BrokerOption) *ApprovalBroker {
	b := &ApprovalBroker{
		waiting: make(map[string]chan ApprovalDecision),
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Approver returns the ApproverFunc to pass to WithApprover.
func (b *ApprovalBroker) Approver() ApproverFunc {
	return b.await
}

// Decide answers the waiting call named by d.CallID.
func (b *ApprovalBroker) Decide(d ApprovalDecision) error {
	b.mu.Lock()
	ch, ok := b.waiting[d.CallID]
	if ok {
		b.forget(d.CallID)
	}
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("no call %q awaiting approval", d.CallID)
	}
	ch <- d
	return nil
}

// Approve approves callID.
func (b *ApprovalBroker) Approve(callID string) error {
	return b.Decide(ApprovalDecision{CallID: callID, Approved: true})
}

// Reject rejects callID with reason.
func (b *ApprovalBroker) Reject(callID, reason string) error {
	return b.Decide(ApprovalDecision{CallID: callID, Reason: reason})
}

// Next returns the longest-waiting undecided call.
func (b *ApprovalBroker) Next() (*ai.FunctionCall, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	return b.queue[0], true
}

// Pending returns the undecided calls in arrival order.
func (b *ApprovalBroker) Pending() []*ai.FunctionCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.queue)
}

func (b *ApprovalBroker) await(ctx context.Context, call *ai.FunctionCall) (bool, string) {
	// Buffered so Decide never blocks on a waiter that already gave up.
	ch := make(chan ApprovalDecision, 1)

	b.mu.Lock()
	b.waiting[call.CallID] = ch
	b.queue = append(b.queue, call)
	b.mu.Unlock()

	if b.onRequest != nil {
		b.onRequest(call)
	}

	var expired <-chan time.Time
	if b.timeout > 0 {
		timer := time.NewTimer(b.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case d := <-ch:
		if d.Approved {
			return true, ""
		}
		return false, d.Reason
	case <-ctx.Done():
		b.withdraw(call.CallID)
		return false, "approval cancelled"
	case <-expired:
		b.withdraw(call.CallID)
		return false, "approval timed out"
	}
}

func (b *ApprovalBroker) withdraw(callID string) {
	b.mu.Lock()
	b.forget(callID)
	b.mu.Unlock()
}

// forget drops callID from the waiting set. b.mu must be held.
func (b *ApprovalBroker) forget(callID string) {
	delete(b.waiting, callID)
	b.queue = slices.DeleteFunc(b.queue, func(c *ai.FunctionCall) bool { return c.CallID == callID })
}
