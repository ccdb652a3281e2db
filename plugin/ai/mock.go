package ai

import (
	"context"
	"sync"
)

// MockCompleter is a scripted Completer for testing.
// Responses are consumed in order; when the queue is exhausted the
// CompleteFunc hook (if any) is called, otherwise the last response is
// repeated.
type MockCompleter struct {
	mu        sync.Mutex
	Responses []string
	Err       error

	// CompleteFunc, when set, overrides the scripted responses entirely.
	CompleteFunc func(ctx context.Context, input, instruction string, temperature float32) (string, error)

	// Calls records every invocation for assertions.
	Calls []MockCall
}

// MockCall captures the arguments of one Complete invocation.
type MockCall struct {
	Input       string
	Instruction string
	Temperature float32
}

func (m *MockCompleter) Complete(ctx context.Context, input, instruction string, temperature float32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Input: input, Instruction: instruction, Temperature: temperature})

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, input, instruction, temperature)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	resp := m.Responses[0]
	if len(m.Responses) > 1 {
		m.Responses = m.Responses[1:]
	}
	return resp, nil
}

// Ensure MockCompleter implements Completer
var _ Completer = (*MockCompleter)(nil)
