// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/aibor/vfiorun/internal/qemu"
)

// writePlan writes a human readable description of the plan, one item per
// line.
func writePlan(w io.Writer, cmdline []string, plan *qemu.Plan) error {
	var out strings.Builder

	line := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&out, "%-10s %s\n", key+":", value)
		}
	}

	line("command", shellquote.Join(cmdline...))

	for _, env := range plan.Environ() {
		line("env", env)
	}

	for _, file := range plan.Files {
		line("file", fmt.Sprintf("%s uid=%d gid=%d mode=%#o",
			file.Path, file.UID, file.GID, file.Mode.Perm()))
	}

	line("governor", plan.CPUGovernor)
	line("affinity", plan.CPUAffinity)
	line("drivers", strings.Join(plan.Drivers, " "))
	line("devices", strings.Join(plan.Devices, " "))
	line("pat-clear", strings.Join(plan.PATClear, " "))
	line("bridge", plan.Bridge)

	_, err := io.WriteString(w, out.String())
	if err != nil {
		return fmt.Errorf("write plan: %w", err)
	}

	return nil
}
