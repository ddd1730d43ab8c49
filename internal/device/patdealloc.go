// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package device

import (
	"context"

	"github.com/aibor/vfiorun/internal/hostcmd"
)

// PATDeallocProgram is the default PAT clearing program.
const PATDeallocProgram = "pat-dealloc"

// PATDealloc clears the PAT entries of a PCI device's memory regions. This
// works around "Failed to mmap ... BAR" errors after a device has been
// unbound and rebound.
type PATDealloc struct {
	Runner  hostcmd.Runner
	Program string
}

// Clear clears the PAT entries of the PCI device with the given address.
func (p *PATDealloc) Clear(ctx context.Context, address string) error {
	program := programOr(p.Program, PATDeallocProgram)
	return p.Runner.Run(ctx, program, "pci", "--load", "--address", address) //nolint:wrapcheck
}
