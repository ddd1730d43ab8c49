// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/aibor/vfiorun/internal/qemu"
)

// Options control a run.
type Options struct {
	// SkipAttach leaves devices detached and drivers unloaded after QEMU
	// exits.
	SkipAttach bool
}

// Result is the outcome of a run that started QEMU.
type Result struct {
	// GuestErr is the error QEMU failed with, if any. It does not affect the
	// reattach stage.
	GuestErr error

	// Reattached is true if the reattach stage ran.
	Reattached bool

	// ReattachFailed is true if at least one reattach action failed.
	ReattachFailed bool
}

// Orchestrator runs the device lifecycle for a [qemu.Plan].
//
// Only one run must be active at a time. Nothing else must detach or attach
// the plan's devices during a run.
type Orchestrator struct {
	Drivers    DriverControl
	Devices    DeviceControl
	Governor   GovernorControl
	PAT        PATControl
	Hypervisor Hypervisor

	// Fs is used for ephemeral files. Default is the OS file system.
	Fs afero.Fs

	// Signals is armed while devices are handed over and QEMU is running.
	// Default is an [InterruptScope].
	Signals Signals

	Logger *slog.Logger
}

// Run runs all stages for the given plan.
//
// If the governor, files or detach stage fails, a [*StageError] is returned
// and QEMU is not started. Resources detached before a detach failure are
// reattached already. Otherwise, the returned [Result] reports the outcome
// of QEMU and the reattach stage.
func (o *Orchestrator) Run(ctx context.Context, plan *qemu.Plan, opts Options) (Result, error) {
	var result Result

	err := o.setGovernor(ctx, plan)
	if err != nil {
		return result, err
	}

	err = o.createFiles(plan)
	if err != nil {
		return result, err
	}

	release, err := o.signals().Absorb()
	if err != nil {
		o.logger().Warn("Installing signal handler failed",
			slog.Any("error", err))
	} else {
		defer release()
	}

	err = o.Detach(ctx, plan)
	if err != nil {
		return result, err
	}

	o.logger().Info("Starting qemu")

	result.GuestErr = o.Hypervisor.Run(ctx, plan)
	if result.GuestErr != nil {
		o.logger().Error("QEMU failed", slog.Any("error", result.GuestErr))
	} else {
		o.logger().Info("QEMU exited")
	}

	if opts.SkipAttach {
		o.logger().Info("Skipping reattach, devices stay detached")
		return result, nil
	}

	result.Reattached = true
	result.ReattachFailed = !o.reattach(ctx, plan)

	return result, nil
}

// Detach unloads the plan's drivers and detaches its devices from the host.
// Afterwards, the PAT entries of the plan's PAT clear addresses are cleared.
//
// If unloading or detaching fails, everything done so far is undone and a
// [*StageError] for [StageDetach] is returned.
func (o *Orchestrator) Detach(ctx context.Context, plan *qemu.Plan) error {
	var detached journal

	err := o.detach(ctx, plan, &detached)
	if err != nil {
		o.logger().Error("Detaching failed, rolling back",
			slog.Int("actions", detached.len()),
			slog.Any("error", err))
		if !o.rollback(ctx, &detached) {
			o.logger().Error("Rollback incomplete, check the host's device state")
		}

		return &StageError{Stage: StageDetach, Err: err}
	}

	o.clearPAT(ctx, plan)

	return nil
}

// Attach clears the PAT entries of the plan's PAT clear addresses, reattaches
// all its devices and reloads its drivers.
//
// All actions are tried, even if some fail. If any failed, a [*StageError]
// for [StageReattach] is returned.
func (o *Orchestrator) Attach(ctx context.Context, plan *qemu.Plan) error {
	if !o.reattach(ctx, plan) {
		return &StageError{Stage: StageReattach}
	}

	return nil
}

func (o *Orchestrator) setGovernor(ctx context.Context, plan *qemu.Plan) error {
	if plan.CPUGovernor == "" {
		return nil
	}

	o.logger().Info("Setting cpu governor",
		slog.String("governor", plan.CPUGovernor))

	err := o.Governor.SetGovernor(ctx, plan.CPUGovernor)
	if err != nil {
		o.logger().Error("Setting cpu governor failed",
			slog.String("governor", plan.CPUGovernor),
			slog.Any("error", err))

		return &StageError{Stage: StageGovernor, Err: err}
	}

	return nil
}

func (o *Orchestrator) createFiles(plan *qemu.Plan) error {
	for _, file := range plan.Files {
		o.logger().Debug("Creating ephemeral file",
			slog.String("path", file.Path),
			slog.Int("uid", file.UID),
			slog.Int("gid", file.GID),
			slog.String("mode", file.Mode.String()))

		err := createFile(o.fs(), file)
		if err != nil {
			o.logger().Error("Creating ephemeral file failed",
				slog.String("path", file.Path),
				slog.Any("error", err))

			return &StageError{
				Stage: StageFiles,
				Err:   fmt.Errorf("%s: %w", file.Path, err),
			}
		}
	}

	return nil
}

func (o *Orchestrator) detach(ctx context.Context, plan *qemu.Plan, detached *journal) error {
	if len(plan.Drivers) > 0 {
		o.logger().Info("Unloading drivers", slog.Any("modules", plan.Drivers))

		// Recorded before unloading, so that reloading is attempted even if
		// unloading failed for only some of the modules.
		detached.record(action{kind: actionUnloadDrivers, modules: plan.Drivers})

		err := o.Drivers.Unload(ctx, plan.Drivers)
		if err != nil {
			return fmt.Errorf("unload drivers: %w", err)
		}
	}

	if len(plan.Devices) > 0 {
		o.logger().Info("Unbinding pci devices", slog.Any("devices", plan.Devices))
	}

	for _, address := range plan.Devices {
		o.logger().Debug("Unbinding pci device", slog.String("address", address))

		err := o.Devices.Detach(ctx, address)
		if err != nil {
			return fmt.Errorf("unbind %s: %w", address, err)
		}

		detached.record(action{kind: actionDetachDevice, address: address})
	}

	return nil
}

// rollback runs the compensating actions of all recorded actions. Failures
// are logged and do not stop the rollback.
func (o *Orchestrator) rollback(ctx context.Context, detached *journal) bool {
	ok := true

	for _, a := range detached.undoOrder() {
		err := a.undo(ctx, o)
		if err != nil {
			ok = false

			o.logger().Error("Rollback action failed",
				append(a.logAttrs(), slog.Any("error", err))...)
		}
	}

	return ok
}

func (o *Orchestrator) reattach(ctx context.Context, plan *qemu.Plan) bool {
	ok := o.clearPAT(ctx, plan)

	if len(plan.Devices) > 0 {
		o.logger().Info("Rebinding pci devices", slog.Any("devices", plan.Devices))
	}

	for _, address := range plan.Devices {
		o.logger().Debug("Rebinding pci device", slog.String("address", address))

		err := o.Devices.Reattach(ctx, address)
		if err != nil {
			ok = false

			o.logger().Error("Rebinding pci device failed",
				slog.String("address", address),
				slog.Any("error", err))
		}
	}

	if len(plan.Drivers) > 0 {
		o.logger().Info("Reloading drivers", slog.Any("modules", plan.Drivers))

		err := o.Drivers.Load(ctx, plan.Drivers)
		if err != nil {
			ok = false

			o.logger().Error("Reloading drivers failed",
				slog.Any("modules", plan.Drivers),
				slog.Any("error", err))
		}
	}

	return ok
}

// clearPAT clears the PAT entries of all addresses. Failures are logged and
// do not stop clearing the remaining addresses.
func (o *Orchestrator) clearPAT(ctx context.Context, plan *qemu.Plan) bool {
	ok := true

	for _, address := range plan.PATClear {
		o.logger().Debug("Clearing PAT entries", slog.String("address", address))

		err := o.PAT.Clear(ctx, address)
		if err != nil {
			ok = false

			o.logger().Warn("Clearing PAT entries failed",
				slog.String("address", address),
				slog.Any("error", err))
		}
	}

	return ok
}

func (o *Orchestrator) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}

	return o.Fs
}

func (o *Orchestrator) signals() Signals {
	if o.Signals == nil {
		return &InterruptScope{Logger: o.Logger}
	}

	return o.Signals
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}

	return o.Logger
}
