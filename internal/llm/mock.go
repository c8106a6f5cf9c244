package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
// When Chunks is set, Stream delivers them one by one and Generate returns
// their concatenation.
type MockResponse struct {
	Text   string
	Chunks []string
	Usage  Usage
	Err    error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	resp, err := m.next(req)
	if err != nil {
		return nil, err
	}
	text := resp.Text
	for _, c := range resp.Chunks {
		text += c
	}
	return &Response{
		Text:       text,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// Stream delivers the next canned response's chunks in order.
func (m *MockProvider) Stream(_ context.Context, req Request, onChunk func(string)) (*Response, error) {
	resp, err := m.next(req)
	if err != nil {
		return nil, err
	}
	chunks := resp.Chunks
	if len(chunks) == 0 {
		chunks = []string{resp.Text}
	}
	var text string
	for _, c := range chunks {
		text += c
		onChunk(c)
	}
	return &Response{Text: text, Usage: resp.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) next(req Request) (MockResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return MockResponse{}, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return MockResponse{}, resp.Err
	}
	return resp, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// AddText queues plain-text responses.
func (m *MockProvider) AddText(texts ...string) {
	for _, t := range texts {
		m.AddResponse(MockResponse{Text: t})
	}
}

// CallCount returns the number of Generate and Stream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Pending returns the number of queued responses not yet consumed.
func (m *MockProvider) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}
