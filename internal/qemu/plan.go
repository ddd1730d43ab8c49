// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"io/fs"
	"maps"
	"slices"
)

// EphemeralFile is a file that must be created fresh with the given
// ownership and permissions before QEMU starts.
type EphemeralFile struct {
	Path string
	UID  int
	GID  int
	Mode fs.FileMode
}

// Plan is the compiled launch configuration. It must not be modified.
type Plan struct {
	// Args is the QEMU argument vector without the binary.
	Args []string

	// Env is set for the QEMU process only, in addition to the environment
	// of the current process.
	Env map[string]string

	Files []EphemeralFile

	// CPUAffinity is a CPU list as understood by taskset, like "0-5,8-13".
	// If empty, QEMU is not pinned.
	CPUAffinity string

	// CPUGovernor is the CPU frequency governor set before devices are
	// detached. If empty, the governor is not changed.
	CPUGovernor string

	// Devices are PCI addresses of devices detached from the host.
	Devices []string

	// Drivers are kernel modules unloaded before devices are detached.
	Drivers []string

	// PATClear are PCI addresses whose PAT entries are cleared after detach
	// and before reattach.
	PATClear []string

	// Bridge is the host bridge the guest NIC is attached to, if any.
	Bridge string
}

// Environ returns [Plan.Env] as sorted list of "key=value" strings.
func (p *Plan) Environ() []string {
	environ := make([]string, 0, len(p.Env))
	for _, key := range slices.Sorted(maps.Keys(p.Env)) {
		environ = append(environ, key+"="+p.Env[key])
	}

	return environ
}

type planEnv map[string]string

func (e planEnv) set(key, value string) error {
	if _, exists := e[key]; exists {
		return fmt.Errorf("%w: %s", ErrEnvConflict, key)
	}

	e[key] = value

	return nil
}
