package mount

import (
	"context"
	"strings"
	"sync"
)

// Call records one invocation made through MockRunner.
type Call struct {
	Program     string
	Args        []string
	Interactive bool
}

// String renders the call as a shell-like command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Program + " " + strings.Join(c.Args, " "))
}

// MockRunner is a test implementation of Runner.
//
// Results are looked up by program name in Results; a program without an
// entry succeeds with empty output. Handler, when set, takes precedence and
// can inspect arguments or touch files (an editor stand-in, for example).
//
// Usage example:
//
//	runner := NewMockRunner()
//	runner.Results["mount"] = &Result{Stderr: "mount: /mnt: Operation not permitted\n"}
//	...
//	if runner.CallCount() != 1 {
//	    t.Error("mount not invoked")
//	}
type MockRunner struct {
	mu sync.Mutex

	Calls   []Call
	Results map[string]*Result
	Errors  map[string]error
	Handler func(call Call) (*Result, error)
}

// Compile-time interface check
var _ Runner = (*MockRunner)(nil)

// NewMockRunner creates a MockRunner where every program succeeds.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Results: make(map[string]*Result),
		Errors:  make(map[string]error),
	}
}

func (m *MockRunner) invoke(call Call) (*Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	handler := m.Handler
	res, err := m.Results[call.Program], m.Errors[call.Program]
	m.mu.Unlock()

	if handler != nil {
		return handler(call)
	}
	if res == nil {
		res = &Result{}
	}
	// Copy to avoid sharing state between callers
	out := *res
	return &out, err
}

func (m *MockRunner) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.invoke(Call{Program: program, Args: args})
}

func (m *MockRunner) RunInteractive(ctx context.Context, program string, args ...string) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	res, err := m.invoke(Call{Program: program, Args: args, Interactive: true})
	if res == nil {
		return -1, err
	}
	return res.ExitCode, err
}

// CallCount returns the number of recorded invocations.
func (m *MockRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// CallsTo returns the recorded invocations of program.
func (m *MockRunner) CallsTo(program string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []Call
	for _, c := range m.Calls {
		if c.Program == program {
			calls = append(calls, c)
		}
	}
	return calls
}

// LastCall returns the most recent invocation, or nil if none.
func (m *MockRunner) LastCall() *Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	c := m.Calls[len(m.Calls)-1]
	return &c
}
