package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

// ClearDataInput requests a bulk delete of all uploaded data.
type ClearDataInput struct {
	ActorID string `json:"actor_id,omitempty"`
}

type dataManager interface {
	ClearAll(ctx context.Context) error
}

type stateWiper interface {
	Wipe(ctx context.Context) error
}

type cachePurger interface {
	Purge()
}

// ClearDataCommand deletes backend data and, only once that succeeded,
// wipes local department state.
type ClearDataCommand struct {
	backend   dataManager
	state     stateWiper
	cache     cachePurger
	telemetry Telemetry
}

// NewClearDataCommand builds a command instance. cache may be nil.
func NewClearDataCommand(backend dataManager, state stateWiper, cache cachePurger, telemetry Telemetry) *ClearDataCommand {
	return &ClearDataCommand{backend: backend, state: state, cache: cache, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ClearDataInput] = (*ClearDataCommand)(nil)

// Execute clears backend data then local state.
func (c *ClearDataCommand) Execute(ctx context.Context, msg ClearDataInput) error {
	if c.backend == nil || c.state == nil {
		return errors.New("clear data command requires backend and state")
	}
	operationID := uuid.NewString()
	if err := c.backend.ClearAll(ctx); err != nil {
		c.telemetry.Record(ctx, "deptboard.data.clear_failed", map[string]any{
			"operation_id": operationID,
			"actor_id":     msg.ActorID,
			"error":        err.Error(),
		})
		return err
	}
	if err := c.state.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe local state: %w", err)
	}
	if c.cache != nil {
		c.cache.Purge()
	}
	c.telemetry.Record(ctx, "deptboard.data.cleared", map[string]any{
		"operation_id": operationID,
		"actor_id":     msg.ActorID,
	})
	return nil
}
