package deptstate

import (
	"context"
	"sync"
)

// Ticket captures the route a fetch was issued for.
type Ticket struct {
	Seq   uint64
	Route Route
}

// Navigator records the current route so late fetch results can be
// recognized as stale and dropped. An AppState owns one navigator, so every
// request served from it shares the same current route: a navigation by one
// viewer makes another viewer's in-flight fetch stale.
type Navigator struct {
	mu      sync.RWMutex
	seq     uint64
	current Route
}

// NewNavigator starts on the dashboard route.
func NewNavigator() *Navigator {
	return &Navigator{current: Route{Name: RouteDashboard}}
}

// Navigate makes route current and returns a ticket for fetches issued on its behalf.
func (n *Navigator) Navigate(route Route) Ticket {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	n.current = route
	return Ticket{Seq: n.seq, Route: route}
}

// Current returns the current route.
func (n *Navigator) Current() Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// IsCurrent reports whether the ticket's department/file pair still matches the current route.
func (n *Navigator) IsCurrent(t Ticket) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current.Department == t.Route.Department && n.current.FileID == t.Route.FileID
}

// Fetch runs fn and discards its result when the route changed while it was in flight.
func Fetch[T any](ctx context.Context, n *Navigator, t Ticket, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	out, err := fn(ctx)
	if !n.IsCurrent(t) {
		return zero, ErrStaleResult
	}
	if err != nil {
		return zero, err
	}
	return out, nil
}
