// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import (
	"context"

	"github.com/aibor/vfiorun/internal/qemu"
)

// DriverControl loads and unloads kernel modules as a batch.
type DriverControl interface {
	Unload(ctx context.Context, modules []string) error
	Load(ctx context.Context, modules []string) error
}

// DeviceControl detaches PCI devices from the host and reattaches them.
type DeviceControl interface {
	Detach(ctx context.Context, address string) error
	Reattach(ctx context.Context, address string) error
}

// GovernorControl sets the CPU frequency governor.
type GovernorControl interface {
	SetGovernor(ctx context.Context, governor string) error
}

// PATControl clears the PAT entries of a PCI device.
type PATControl interface {
	Clear(ctx context.Context, address string) error
}

// Hypervisor runs the virtual machine for a plan and blocks until it exits.
type Hypervisor interface {
	Run(ctx context.Context, plan *qemu.Plan) error
}

// Signals arms the process wide interrupt handling for the duration of a
// run.
type Signals interface {
	// Absorb starts absorbing interrupts. The returned function stops it.
	Absorb() (release func(), err error)
}
