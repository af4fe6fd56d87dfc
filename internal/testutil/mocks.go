package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/askdb-io/askdb/internal/store"
)

// FakeAgent is a scripted language-model agent for testing. It satisfies
// llm.Agent structurally without importing the llm package.
type FakeAgent struct {
	mu sync.Mutex

	replies []string
	err     error
	delay   time.Duration

	calls   int
	prompts []string
}

// FakeAgentOption is a functional option for configuring FakeAgent
type FakeAgentOption func(*FakeAgent)

// WithReply makes the agent return the same response on every call
func WithReply(text string) FakeAgentOption {
	return func(f *FakeAgent) {
		f.replies = []string{text}
	}
}

// WithReplies makes the agent return one response per call, in order.
// The last response repeats once the script runs out.
func WithReplies(texts ...string) FakeAgentOption {
	return func(f *FakeAgent) {
		f.replies = texts
	}
}

// WithAgentErr makes every call fail with the given error
func WithAgentErr(err error) FakeAgentOption {
	return func(f *FakeAgent) {
		f.err = err
	}
}

// WithAgentDelay makes each call block for d before responding, so tests
// can exercise timeout and cancellation paths.
func WithAgentDelay(d time.Duration) FakeAgentOption {
	return func(f *FakeAgent) {
		f.delay = d
	}
}

// NewFakeAgent creates a scripted agent with the given options
func NewFakeAgent(opts ...FakeAgentOption) *FakeAgent {
	fake := &FakeAgent{}

	for _, opt := range opts {
		opt(fake)
	}

	return fake
}

// Run returns the next scripted response, honoring the configured delay
// and error injection.
func (f *FakeAgent) Run(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	idx := f.calls - 1
	delay := f.delay
	err := f.err
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.replies) == 0 {
		return "", nil
	}

	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}

	return f.replies[idx], nil
}

// Calls returns how many times Run was invoked
func (f *FakeAgent) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Prompt returns the i-th prompt passed to Run
func (f *FakeAgent) Prompt(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i < 0 || i >= len(f.prompts) {
		return ""
	}

	return f.prompts[i]
}

// LastPrompt returns the most recent prompt passed to Run
func (f *FakeAgent) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.prompts) == 0 {
		return ""
	}

	return f.prompts[len(f.prompts)-1]
}

// CountingExec is a fake query executor that counts invocations, for
// asserting cache hit/miss behavior.
type CountingExec struct {
	mu sync.Mutex

	result *store.ResultSet
	err    error

	calls int
}

// NewCountingExec creates an executor that returns the given result set
func NewCountingExec(result *store.ResultSet) *CountingExec {
	return &CountingExec{result: result}
}

// NewFailingExec creates an executor that always fails
func NewFailingExec(err error) *CountingExec {
	return &CountingExec{err: err}
}

// Exec is the executor callback; pass it where an exec func is expected
func (c *CountingExec) Exec(_ context.Context) (*store.ResultSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++

	if c.err != nil {
		return nil, c.err
	}

	return c.result, nil
}

// Calls returns how many times Exec was invoked
func (c *CountingExec) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// SetErr swaps the injected error; pass nil to let later calls succeed
func (c *CountingExec) SetErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// SingleValueResult builds a one-row, one-column result set, the common
// shape for aggregate queries in tests.
func SingleValueResult(column string, value interface{}) *store.ResultSet {
	return &store.ResultSet{
		Columns: []string{column},
		Rows: []store.Row{
			{store.Field{Column: column, Value: value}},
		},
	}
}
