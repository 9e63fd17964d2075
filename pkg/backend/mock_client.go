package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Call is one request seen by the mock.
type Call struct {
	Method   string
	Endpoint string
	Body     any
}

// Mock is a deterministic Client for tests. It answers Get from Responses and
// fails any call while Fail is set; nothing is random.
type Mock struct {
	mu        sync.Mutex
	Fail      error
	Responses map[string]any
	Calls     []Call
	// OnCall runs before each call is answered, outside the lock.
	OnCall func(Call)
}

// ErrSimulated is what tests usually put in Fail.
var ErrSimulated = errors.New("simulated network error")

func NewMock() *Mock { return &Mock{Responses: map[string]any{}} }

func (m *Mock) Post(ctx context.Context, endpoint string, payload any) error {
	return m.record(Call{Method: "POST", Endpoint: endpoint, Body: payload})
}

func (m *Mock) Put(ctx context.Context, id string, patch any) error {
	return m.record(Call{Method: "PUT", Endpoint: EndpointSubmissions + "/" + id, Body: patch})
}

func (m *Mock) Get(ctx context.Context, endpoint string, out any) error {
	if err := m.record(Call{Method: "GET", Endpoint: endpoint}); err != nil {
		return err
	}
	m.mu.Lock()
	v, ok := m.Responses[endpoint]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("mock: no response for %s", endpoint)
	}
	return convert(v, out)
}

// SetFail makes every later call return err; nil makes them succeed again.
func (m *Mock) SetFail(err error) {
	m.mu.Lock()
	m.Fail = err
	m.mu.Unlock()
}

// CallCount counts recorded calls made with method.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (m *Mock) record(c Call) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, c)
	hook := m.OnCall
	m.mu.Unlock()
	if hook != nil {
		hook(c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Fail
}
