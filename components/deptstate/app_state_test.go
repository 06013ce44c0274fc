package deptstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppStatePersistsActiveDepartments(t *testing.T) {
	storage := NewMemoryStorage()
	telemetry := &recordingTelemetry{}
	state := NewAppState(Options{Storage: storage, Telemetry: telemetry})

	require.NoError(t, state.Departments().SetDepartmentState("Toys", "t1"))
	require.NoError(t, state.Departments().SetDepartmentState("Books", "b1"))

	raw, ok, err := storage.Load(context.Background(), ActiveDepartmentsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["Books","Toys"]`, string(raw))

	persisted, err := state.PersistedDepartments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Toys"}, persisted)
	assert.True(t, telemetry.has("deptstate.department.set"))
}

func TestAppStateWipe(t *testing.T) {
	storage := NewMemoryStorage()
	state := NewAppState(Options{Storage: storage})
	events, cancel := state.Broadcaster().Subscribe()
	defer cancel()

	require.NoError(t, state.Departments().SetDepartmentState("Toys", "t1"))
	require.NoError(t, state.Pages().SetPageState(LastAnalysis{Department: "Toys", FileID: "t1"}))
	<-events

	require.NoError(t, state.Wipe(context.Background()))

	assert.Empty(t, state.Departments().ListActiveDepartments())
	_, ok := state.Pages().LastAnalysis()
	assert.False(t, ok)
	_, ok, _ = storage.Load(context.Background(), ActiveDepartmentsKey)
	assert.False(t, ok)
	wipe := <-events
	assert.Equal(t, ReasonWipe, wipe.Reason)
}

func TestAppStateWithoutStorage(t *testing.T) {
	state := NewAppState(Options{})
	persisted, err := state.PersistedDepartments(context.Background())
	require.NoError(t, err)
	assert.Nil(t, persisted)
	assert.NoError(t, state.Wipe(context.Background()))
}

func TestAppStateInstancesAreIsolated(t *testing.T) {
	a := NewAppState(Options{})
	b := NewAppState(Options{})
	require.NoError(t, a.Departments().SetDepartmentState("Toys", "t1"))
	assert.Empty(t, b.Departments().ListActiveDepartments())
}
