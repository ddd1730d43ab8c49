// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package device

import (
	"context"

	"github.com/aibor/vfiorun/internal/hostcmd"
)

// VirshProgram is the default device bind control program.
const VirshProgram = "virsh"

// Virsh detaches PCI devices from their host drivers and reattaches them
// using libvirt's node device commands.
type Virsh struct {
	Runner  hostcmd.Runner
	Program string
}

// Detach unbinds the PCI device with the given address from the host.
func (v *Virsh) Detach(ctx context.Context, address string) error {
	return v.run(ctx, "nodedev-detach", address)
}

// Reattach binds the PCI device with the given address to the host again.
func (v *Virsh) Reattach(ctx context.Context, address string) error {
	return v.run(ctx, "nodedev-reattach", address)
}

func (v *Virsh) run(ctx context.Context, verb, address string) error {
	program := programOr(v.Program, VirshProgram)
	return v.Runner.Run(ctx, program, verb, NodeDeviceName(address)) //nolint:wrapcheck
}
