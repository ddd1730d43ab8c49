// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package device

import (
	"context"

	"github.com/aibor/vfiorun/internal/hostcmd"
)

// ModprobeProgram is the default driver control program.
const ModprobeProgram = "modprobe"

// Modprobe loads and unloads kernel modules as a single batch each.
type Modprobe struct {
	Runner  hostcmd.Runner
	Program string
}

// Load loads all given modules with one invocation.
func (m *Modprobe) Load(ctx context.Context, modules []string) error {
	return m.run(ctx, nil, modules)
}

// Unload removes all given modules with one invocation.
func (m *Modprobe) Unload(ctx context.Context, modules []string) error {
	return m.run(ctx, []string{"-r"}, modules)
}

func (m *Modprobe) run(ctx context.Context, opts, modules []string) error {
	args := make([]string, 0, len(opts)+len(modules))
	args = append(args, opts...)
	args = append(args, modules...)

	return m.Runner.Run(ctx, programOr(m.Program, ModprobeProgram), args...) //nolint:wrapcheck
}

func programOr(program, fallback string) string {
	if program == "" {
		return fallback
	}

	return program
}
