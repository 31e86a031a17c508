package jail

import (
	"context"
	"sync"

	"go-iocage/config"
	"go-iocage/mount"
)

// MockState is a test implementation of State.
//
// Running maps a jail uuid to its JID; jails absent from the map are
// stopped. Every query is recorded in Queries.
type MockState struct {
	mu sync.Mutex

	Running map[string]int
	Err     error
	Queries []string
}

// NewMockState creates a MockState where every jail is stopped.
func NewMockState() *MockState {
	return &MockState{Running: make(map[string]int)}
}

func init() {
	Register("mock", func(*config.Config, mount.Runner) State {
		return NewMockState()
	})
}

func (m *MockState) IsRunning(ctx context.Context, uuid string) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, uuid)
	if m.Err != nil {
		return false, 0, m.Err
	}
	jid, ok := m.Running[uuid]
	return ok, jid, nil
}

// Start marks uuid as running with the given JID.
func (m *MockState) Start(uuid string, jid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Running[uuid] = jid
}

// Stop marks uuid as stopped.
func (m *MockState) Stop(uuid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Running, uuid)
}

// QueryCount returns the number of IsRunning calls.
func (m *MockState) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}
