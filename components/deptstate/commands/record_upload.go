package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"
)

// RecordUploadInput is sent by the upload collaborator once analysis completed.
type RecordUploadInput struct {
	Department string `json:"department"`
	FileID     string `json:"fileId"`
}

type departmentWriter interface {
	SetDepartmentState(department, fileID string) error
}

// RecordUploadCommand marks the uploaded file as the active one for its department.
type RecordUploadCommand struct {
	store     departmentWriter
	telemetry Telemetry
}

// NewRecordUploadCommand builds a command instance.
func NewRecordUploadCommand(store departmentWriter, telemetry Telemetry) *RecordUploadCommand {
	return &RecordUploadCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RecordUploadInput] = (*RecordUploadCommand)(nil)

// Execute writes the department state.
func (c *RecordUploadCommand) Execute(ctx context.Context, msg RecordUploadInput) error {
	if c.store == nil {
		return errors.New("record upload command requires department store")
	}
	department := strings.TrimSpace(msg.Department)
	fileID := strings.TrimSpace(msg.FileID)
	if err := c.store.SetDepartmentState(department, fileID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "deptboard.upload.recorded", map[string]any{
		"department": department,
		"file_id":    fileID,
	})
	return nil
}
