package agent

import (
	"context"
	"testing"
	"time"

	ai "github.com/spetersoncode/openresponses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitPending blocks until the broker holds n undecided calls.
func waitPending(t *testing.T, b *ApprovalBroker, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(b.Pending()) == n }, time.Second, time.Millisecond)
}

type verdict struct {
	approved bool
	reason   string
}

func awaitAsync(ctx context.Context, b *ApprovalBroker, call *ai.FunctionCall) <-chan verdict {
	done := make(chan verdict, 1)
	go func() {
		approved, reason := b.Approver()(ctx, call)
		done <- verdict{approved, reason}
	}()
	return done
}

func TestApprovalBroker_Decide(t *testing.T) {
	tests := []struct {
		name   string
		decide func(b *ApprovalBroker) error
		want   verdict
	}{
		{
			name:   "approve",
			decide: func(b *ApprovalBroker) error { return b.Approve("call-123") },
			want:   verdict{approved: true},
		},
		{
			name:   "reject",
			decide: func(b *ApprovalBroker) error { return b.Reject("call-123", "too risky") },
			want:   verdict{reason: "too risky"},
		},
		{
			name: "approved decision drops reason",
			decide: func(b *ApprovalBroker) error {
				return b.Decide(ApprovalDecision{CallID: "call-123", Approved: true, Reason: "ignored"})
			},
			want: verdict{approved: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broker := NewApprovalBroker()
			done := awaitAsync(context.Background(), broker, &ai.FunctionCall{CallID: "call-123", Name: "send_email"})

			waitPending(t, broker, 1)
			require.NoError(t, tt.decide(broker))

			assert.Equal(t, tt.want, <-done)
			assert.Empty(t, broker.Pending())
		})
	}
}

func TestApprovalBroker_NextIsOldest(t *testing.T) {
	broker := NewApprovalBroker()
	first := awaitAsync(context.Background(), broker, &ai.FunctionCall{CallID: "c1", Name: "send_email"})
	waitPending(t, broker, 1)
	second := awaitAsync(context.Background(), broker, &ai.FunctionCall{CallID: "c2", Name: "create_report"})
	waitPending(t, broker, 2)

	next, ok := broker.Next()
	require.True(t, ok)
	assert.Equal(t, "c1", next.CallID)
	require.NoError(t, broker.Reject(next.CallID, "no"))
	assert.Equal(t, verdict{reason: "no"}, <-first)

	next, ok = broker.Next()
	require.True(t, ok)
	assert.Equal(t, "c2", next.CallID)
	require.NoError(t, broker.Approve(next.CallID))
	assert.Equal(t, verdict{approved: true}, <-second)

	_, ok = broker.Next()
	assert.False(t, ok)
}

func TestApprovalBroker_Timeout(t *testing.T) {
	broker := NewApprovalBroker(WithApprovalTimeout(20 * time.Millisecond))

	approved, reason := broker.Approver()(context.Background(), &ai.FunctionCall{CallID: "c1"})
	assert.False(t, approved)
	assert.Equal(t, "approval timed out", reason)
	assert.Empty(t, broker.Pending())
	assert.Error(t, broker.Approve("c1"))
}

func TestApprovalBroker_ContextCancellation(t *testing.T) {
	broker := NewApprovalBroker(WithApprovalTimeout(0))
	ctx, cancel := context.WithCancel(context.Background())

	done := awaitAsync(ctx, broker, &ai.FunctionCall{CallID: "c1"})
	waitPending(t, broker, 1)
	cancel()

	assert.Equal(t, verdict{reason: "approval cancelled"}, <-done)
	assert.Empty(t, broker.Pending())
}

func TestApprovalBroker_DecideUnknownCall(t *testing.T) {
	err := NewApprovalBroker().Approve("missing")
	assert.ErrorContains(t, err, `"missing"`)
}

func TestAgent_Run_WithApprovalBroker(t *testing.T) {
	sender := script(t,
		reply(response("r1",
			fnCall("c1", "add", `{"a":1,"b":2}`),
			fnCall("c2", "multiply", `{"a":2,"b":3}`),
		)),
		reply(response("r2", message("done"))),
	)

	requested := make(chan *ai.FunctionCall, 1)
	broker := NewApprovalBroker(OnApprovalRequest(func(call *ai.FunctionCall) {
		requested <- call
	}))
	go func() {
		call := <-requested
		_ = broker.Reject(call.CallID, "Rejected by operator")
	}()

	result, err := New(sender, mathRegistry()).Run(context.Background(), "go",
		WithApprovalRequired("multiply"),
		WithApprover(broker.Approver()),
	)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)

	outs := outputsOf(sender.inputs[1].Items)
	require.Len(t, outs, 2)
	assert.Equal(t, "3", outs[0].Output)
	assert.Contains(t, outs[1].Output, "Rejected by operator")
}
