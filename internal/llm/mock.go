package llm

import (
	"context"
	"sync"
)

// DefaultMockResponse is what a MockPredictor returns when nothing is scripted.
const DefaultMockResponse = `{"predicted_stars": 3, "explanation": "Mock prediction.", "confidence": "medium"}`

// MockPredictor is a scripted Predictor for tests and offline runs.
// Responses are returned in order; the last one repeats once exhausted.
type MockPredictor struct {
	mu        sync.Mutex
	Responses []string
	Err       error

	// Call tracking for assertions
	Calls []string
}

func NewMockPredictor(responses ...string) *MockPredictor {
	if len(responses) == 0 {
		responses = []string{DefaultMockResponse}
	}
	return &MockPredictor{Responses: responses}
}

func (m *MockPredictor) Name() string {
	return ProviderMock
}

func (m *MockPredictor) Predict(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.Calls)
	m.Calls = append(m.Calls, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return DefaultMockResponse, nil
	}
	if n >= len(m.Responses) {
		n = len(m.Responses) - 1
	}
	return m.Responses[n], nil
}

// Prompts returns a copy of the prompts seen so far.
func (m *MockPredictor) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}
