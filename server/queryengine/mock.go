package queryengine

import (
	"context"
	"sync"
)

// MockRunner is a CypherRunner test double recording the statements it
// was asked to run.
type MockRunner struct {
	mu sync.Mutex

	// SchemaText is returned by Schema.
	SchemaText string
	// Rows is returned by Run.
	Rows []map[string]any
	// Err, when set, is returned by both methods.
	Err error

	// Statements records every Cypher statement passed to Run.
	Statements []string
}

var _ CypherRunner = (*MockRunner)(nil)

func (m *MockRunner) Schema(_ context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.SchemaText, nil
}

func (m *MockRunner) Run(_ context.Context, cypher string) ([]map[string]any, error) {
	m.mu.Lock()
	m.Statements = append(m.Statements, cypher)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rows, nil
}
