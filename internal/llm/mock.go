package llm

import "context"

// MockClient is a scripted Client for tests. Responses are returned in
// order; once exhausted the last one repeats. A non-nil Err wins over
// responses.
type MockClient struct {
	Responses []string
	Err       error

	// Calls records every (history length, input) pair seen.
	Calls []MockCall

	next int
}

type MockCall struct {
	HistoryLen int
	Input      string
}

func (m *MockClient) Generate(ctx context.Context, history []Message, input string) (string, error) {
	m.Calls = append(m.Calls, MockCall{HistoryLen: len(history), Input: input})
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	resp := m.Responses[m.next]
	if m.next < len(m.Responses)-1 {
		m.next++
	}
	return resp, nil
}
