package deptstate

import "errors"

var (
	// ErrMissingDepartment is returned when a write or route omits the department.
	ErrMissingDepartment = errors.New("deptstate: department is required")
	// ErrMissingFileID is returned when a write omits the file identifier.
	ErrMissingFileID = errors.New("deptstate: file id is required")
	// ErrInvalidDepartment is returned for names that cannot form a single path segment.
	ErrInvalidDepartment = errors.New("deptstate: department name must not contain '/'")
	// ErrStaleResult marks a fetch result that belongs to a route the viewer already left.
	ErrStaleResult = errors.New("deptstate: result superseded by a newer navigation")
	// ErrUnknownPageKey is returned for raw page values without a key.
	ErrUnknownPageKey = errors.New("deptstate: page state key is required")
)

// DepartmentAnalysisState points at the most recently analyzed file of a department.
type DepartmentAnalysisState struct {
	FileID    string `json:"fileId"`
	Timestamp int64  `json:"timestamp"`
}

// StateEventReason tags the kind of change carried by a StateEvent.
type StateEventReason string

const (
	// ReasonSet is published after SetDepartmentState.
	ReasonSet StateEventReason = "set"
	// ReasonWipe is published after the state tracker was cleared.
	ReasonWipe StateEventReason = "wipe"
)

// StateEvent describes a change in the department state store.
type StateEvent struct {
	Reason      StateEventReason        `json:"reason"`
	Department  string                  `json:"department,omitempty"`
	State       DepartmentAnalysisState `json:"state"`
	Departments []string                `json:"departments"`
}

// StateHook is notified synchronously after every department state change.
type StateHook interface {
	StateChanged(event StateEvent)
}

// StateHookFunc adapts a function into a StateHook.
type StateHookFunc func(StateEvent)

// StateChanged calls f.
func (f StateHookFunc) StateChanged(event StateEvent) { f(event) }

type multiHook []StateHook

func (m multiHook) StateChanged(event StateEvent) {
	for _, h := range m {
		if h != nil {
			h.StateChanged(event)
		}
	}
}
