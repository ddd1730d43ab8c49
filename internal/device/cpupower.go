// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package device

import (
	"context"

	"github.com/aibor/vfiorun/internal/hostcmd"
)

// CPUPowerProgram is the default frequency governor program.
const CPUPowerProgram = "cpupower"

// CPUPower sets the CPU frequency governor for all host CPUs.
type CPUPower struct {
	Runner  hostcmd.Runner
	Program string
}

// SetGovernor sets the given frequency governor, e.g. "performance".
func (c *CPUPower) SetGovernor(ctx context.Context, governor string) error {
	program := programOr(c.Program, CPUPowerProgram)
	return c.Runner.Run(ctx, program, "frequency-set", "-g", governor) //nolint:wrapcheck
}
