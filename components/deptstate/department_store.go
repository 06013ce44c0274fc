package deptstate

import (
	"sort"
	"strings"
	"sync"
)

// DepartmentStore maps department names to their active analysis file.
// Writes are last-write-wins; entries are never removed individually.
type DepartmentStore struct {
	mu      sync.RWMutex
	clock   Clock
	hook    StateHook
	entries map[string]DepartmentAnalysisState
	// names maps a case-folded department to the spelling first written.
	names map[string]string
}

// NewDepartmentStore builds an empty store. hook may be nil.
func NewDepartmentStore(clock Clock, hook StateHook) *DepartmentStore {
	return &DepartmentStore{
		clock:   normalizeClock(clock),
		hook:    hook,
		entries: make(map[string]DepartmentAnalysisState),
		names:   make(map[string]string),
	}
}

// SetDepartmentState overwrites (or creates) the entry for department.
// Names match case-insensitively and keep the spelling of the first write.
// Inputs are copied so callers may pass strings backed by reused buffers.
func (s *DepartmentStore) SetDepartmentState(department, fileID string) error {
	department = strings.Clone(strings.TrimSpace(department))
	if department == "" {
		return ErrMissingDepartment
	}
	if strings.Contains(department, "/") {
		return ErrInvalidDepartment
	}
	if strings.TrimSpace(fileID) == "" {
		return ErrMissingFileID
	}
	fileID = strings.Clone(fileID)
	now := s.clock.Now().UnixMilli()

	s.mu.Lock()
	if canonical, ok := s.names[foldName(department)]; ok {
		department = canonical
	} else {
		s.names[foldName(department)] = department
	}
	// Timestamps never go backwards for a department, even if the wall clock does.
	if prev, ok := s.entries[department]; ok && prev.Timestamp > now {
		now = prev.Timestamp
	}
	state := DepartmentAnalysisState{FileID: fileID, Timestamp: now}
	s.entries[department] = state
	keys := s.sortedKeysLocked()
	s.mu.Unlock()

	if s.hook != nil {
		s.hook.StateChanged(StateEvent{
			Reason:      ReasonSet,
			Department:  department,
			State:       state,
			Departments: keys,
		})
	}
	return nil
}

// GetDepartmentState returns the entry for department, if any.
func (s *DepartmentStore) GetDepartmentState(department string) (DepartmentAnalysisState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.entries[s.names[foldName(department)]]
	return state, ok
}

// ListActiveDepartments returns the departments that currently have state, sorted.
func (s *DepartmentStore) ListActiveDepartments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedKeysLocked()
}

// Snapshot copies the whole mapping.
func (s *DepartmentStore) Snapshot() map[string]DepartmentAnalysisState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]DepartmentAnalysisState, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// reset drops every entry. Only AppState.Wipe calls it.
func (s *DepartmentStore) reset() {
	s.mu.Lock()
	s.entries = make(map[string]DepartmentAnalysisState)
	s.names = make(map[string]string)
	s.mu.Unlock()
	if s.hook != nil {
		s.hook.StateChanged(StateEvent{Reason: ReasonWipe, Departments: []string{}})
	}
}

func (s *DepartmentStore) sortedKeysLocked() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func foldName(department string) string {
	return strings.ToLower(strings.TrimSpace(department))
}
