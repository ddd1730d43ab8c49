// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import (
	"context"
	"log/slog"
	"slices"
)

type actionKind int

const (
	actionUnloadDrivers actionKind = iota
	actionDetachDevice
)

// action is a completed reversible action.
type action struct {
	kind actionKind
	// modules for actionUnloadDrivers.
	modules []string
	// address for actionDetachDevice.
	address string
}

// undo runs the compensating action.
func (a action) undo(ctx context.Context, o *Orchestrator) error {
	switch a.kind {
	case actionUnloadDrivers:
		return o.Drivers.Load(ctx, a.modules) //nolint:wrapcheck
	default:
		return o.Devices.Reattach(ctx, a.address) //nolint:wrapcheck
	}
}

func (a action) logAttrs() []any {
	if a.kind == actionUnloadDrivers {
		return []any{slog.Any("modules", a.modules)}
	}

	return []any{slog.String("address", a.address)}
}

// journal records the reversible actions of the detach stage in the order
// they were done.
type journal struct {
	actions []action
}

func (j *journal) record(a action) {
	j.actions = append(j.actions, a)
}

func (j *journal) len() int {
	return len(j.actions)
}

// undoOrder returns the recorded actions in the order they must be undone.
//
// Stages are undone in reverse order: devices are reattached before drivers
// are reloaded. Within a stage the recording order is kept, so devices are
// reattached in the order they were declared.
func (j *journal) undoOrder() []action {
	var drivers, devices []action

	for _, a := range j.actions {
		switch a.kind {
		case actionUnloadDrivers:
			drivers = append(drivers, a)
		case actionDetachDevice:
			devices = append(devices, a)
		}
	}

	return slices.Concat(devices, drivers)
}
