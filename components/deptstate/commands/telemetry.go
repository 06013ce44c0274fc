package commands

import "github.com/goliatone/go-deptboard/components/deptstate"

// Telemetry is the event sink commands share with the state tracker.
type Telemetry = deptstate.Telemetry

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return deptstate.NopTelemetry{}
	}
	return t
}
