package jail

import (
	"context"
	"errors"
	"testing"

	"go-iocage/config"
	"go-iocage/mount"
)

func TestNew_ValidBackends(t *testing.T) {
	for _, name := range []string{"jls", "stopped", "mock"} {
		state, err := New(name, &config.Config{JlsCmd: "jls"}, mount.NewMockRunner())
		if err != nil {
			t.Fatalf("New(%q) error = %v, want nil", name, err)
		}
		if state == nil {
			t.Fatalf("New(%q) returned nil", name)
		}
	}
}

func TestNew_InvalidBackend(t *testing.T) {
	state, err := New("nonexistent", nil, nil)
	if state != nil {
		t.Error("New(\"nonexistent\") should return nil state")
	}

	var unknownErr *ErrUnknownBackend
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error type = %T, want *ErrUnknownBackend", err)
	}
	if unknownErr.Backend != "nonexistent" {
		t.Errorf("Backend = %q, want nonexistent", unknownErr.Backend)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Register() with duplicate name should panic")
		}
	}()

	Register("mock", func(*config.Config, mount.Runner) State { return NewMockState() })
}

func TestHostName(t *testing.T) {
	if got := HostName("web"); got != "ioc-web" {
		t.Errorf("HostName(web) = %q", got)
	}
	if got := HostName("web.example"); got != "ioc-web_example" {
		t.Errorf("HostName(web.example) = %q", got)
	}
}

func TestJLS_IsRunning(t *testing.T) {
	tests := []struct {
		name        string
		result      *mount.Result
		runErr      error
		wantRunning bool
		wantJID     int
		wantErr     bool
	}{
		{"running", &mount.Result{Stdout: "12\n"}, nil, true, 12, false},
		{"not found", &mount.Result{ExitCode: 1, Stderr: "jls: jail \"ioc-web\" not found\n"}, nil, false, 0, false},
		{"garbage output", &mount.Result{Stdout: "jid\n"}, nil, false, 0, false},
		{"exec failure", nil, errors.New("exec: \"jls\": executable file not found"), false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := mount.NewMockRunner()
			if tt.result != nil {
				runner.Results["/usr/sbin/jls"] = tt.result
			}
			if tt.runErr != nil {
				runner.Errors["/usr/sbin/jls"] = tt.runErr
			}

			state, err := New("jls", &config.Config{JlsCmd: "/usr/sbin/jls"}, runner)
			if err != nil {
				t.Fatal(err)
			}
			running, jid, err := state.IsRunning(context.Background(), "web")
			if (err != nil) != tt.wantErr {
				t.Fatalf("IsRunning() error = %v, wantErr %v", err, tt.wantErr)
			}
			if running != tt.wantRunning || jid != tt.wantJID {
				t.Errorf("IsRunning() = (%v, %d), want (%v, %d)", running, jid, tt.wantRunning, tt.wantJID)
			}

			call := runner.LastCall()
			if call == nil {
				t.Fatal("jls was not invoked")
			}
			if call.String() != "/usr/sbin/jls -j ioc-web jid" {
				t.Errorf("call = %q", call.String())
			}
		})
	}
}

func TestStopped(t *testing.T) {
	running, jid, err := Stopped{}.IsRunning(context.Background(), "web")
	if running || jid != 0 || err != nil {
		t.Errorf("Stopped.IsRunning() = (%v, %d, %v)", running, jid, err)
	}
}

func TestMockState(t *testing.T) {
	m := NewMockState()
	ctx := context.Background()

	if running, _, _ := m.IsRunning(ctx, "web"); running {
		t.Error("jail should start stopped")
	}
	m.Start("web", 3)
	if running, jid, _ := m.IsRunning(ctx, "web"); !running || jid != 3 {
		t.Errorf("IsRunning() = (%v, %d), want (true, 3)", running, jid)
	}
	m.Stop("web")
	if running, _, _ := m.IsRunning(ctx, "web"); running {
		t.Error("jail should be stopped")
	}
	if m.QueryCount() != 3 {
		t.Errorf("QueryCount() = %d, want 3", m.QueryCount())
	}
}
