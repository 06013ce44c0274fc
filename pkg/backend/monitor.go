package backend

import (
	"context"
	"sync"
	"time"
)

// ConnectionStatus describes backend reachability as seen by the dashboard.
type ConnectionStatus string

const (
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
)

// DefaultConnectTimeout bounds the startup health check.
const DefaultConnectTimeout = 5 * time.Second

// ConnectionState is a snapshot of the monitor.
type ConnectionState struct {
	Status    ConnectionStatus `json:"status"`
	Error     string           `json:"error,omitempty"`
	CheckedAt time.Time        `json:"checkedAt,omitempty"`
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	Timeout time.Duration
	Now     func() time.Time
}

// Monitor tracks backend connectivity. A check that does not finish within
// the timeout escalates to StatusDisconnected.
type Monitor struct {
	checker HealthChecker
	timeout time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	state ConnectionState
}

// NewMonitor builds a monitor in the connecting state.
func NewMonitor(checker HealthChecker, opts MonitorOptions) *Monitor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultConnectTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Monitor{
		checker: checker,
		timeout: opts.Timeout,
		now:     opts.Now,
		state:   ConnectionState{Status: StatusConnecting},
	}
}

// State returns the last observed connection state.
func (m *Monitor) State() ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Connected reports whether the last check succeeded.
func (m *Monitor) Connected() bool {
	return m.State().Status == StatusConnected
}

// Check runs one bounded health check and records the outcome.
func (m *Monitor) Check(ctx context.Context) ConnectionState {
	if m.checker == nil {
		return m.set(ConnectionState{Status: StatusDisconnected, Error: "backend not configured"})
	}
	checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.checker.Health(checkCtx) }()

	select {
	case err := <-done:
		if err != nil {
			return m.set(ConnectionState{Status: StatusDisconnected, Error: Message(err, err.Error())})
		}
		return m.set(ConnectionState{Status: StatusConnected})
	case <-checkCtx.Done():
		return m.set(ConnectionState{Status: StatusDisconnected, Error: "backend did not respond in time"})
	}
}

// Retry moves back to connecting and re-runs the check.
func (m *Monitor) Retry(ctx context.Context) ConnectionState {
	m.mu.Lock()
	m.state = ConnectionState{Status: StatusConnecting}
	m.mu.Unlock()
	return m.Check(ctx)
}

func (m *Monitor) set(state ConnectionState) ConnectionState {
	state.CheckedAt = m.now()
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
	return state
}
