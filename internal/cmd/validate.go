// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os/exec"
	"slices"

	"golang.org/x/sys/unix"

	"github.com/aibor/vfiorun/internal/device"
	"github.com/aibor/vfiorun/internal/qemu"
	"github.com/aibor/vfiorun/internal/sys"
)

// host provides the host facts a [qemu.Plan] is validated against.
type host struct {
	LookPath   func(file string) (string, error)
	KVMDevice  string
	PCI        sys.PCIBus
	HostCPUs   func() (*unix.CPUSet, error)
	LinkByName sys.LinkByNameFunc
}

func defaultHost() host {
	return host{
		LookPath:  exec.LookPath,
		KVMDevice: sys.KVMDevice,
		HostCPUs:  sys.HostCPUs,
	}
}

// programs returns all programs needed for the given plan. QEMU related
// programs are only included if withQEMU is true.
func programs(plan *qemu.Plan, qemuBinary string, withQEMU bool) []string {
	var names []string

	if withQEMU {
		names = append(names, qemuBinary)

		if plan.CPUAffinity != "" {
			names = append(names, qemu.TasksetBinary)
		}

		if plan.CPUGovernor != "" {
			names = append(names, device.CPUPowerProgram)
		}
	}

	if len(plan.Drivers) > 0 {
		names = append(names, device.ModprobeProgram)
	}

	if len(plan.Devices) > 0 {
		names = append(names, device.VirshProgram)
	}

	if len(plan.PATClear) > 0 {
		names = append(names, device.PATDeallocProgram)
	}

	return names
}

// Validate the host for the given [qemu.Plan]. Checks that only matter for
// starting QEMU are skipped if withQEMU is false.
func (h *host) Validate(plan *qemu.Plan, qemuBinary string, withQEMU bool) error {
	for _, program := range programs(plan, qemuBinary, withQEMU) {
		_, err := h.LookPath(program)
		if err != nil {
			return &PreflightError{Check: "program " + program, Err: err}
		}
	}

	if withQEMU {
		err := sys.CheckKVM(h.KVMDevice)
		if err != nil {
			return &PreflightError{Check: "kvm", Err: err}
		}
	}

	addresses := slices.Concat(plan.Devices, plan.PATClear)
	slices.Sort(addresses)

	for _, address := range slices.Compact(addresses) {
		err := h.validateDevice(address)
		if err != nil {
			return &PreflightError{Check: "pci device " + address, Err: err}
		}
	}

	if withQEMU && plan.CPUAffinity != "" {
		err := h.validateAffinity(plan.CPUAffinity)
		if err != nil {
			return &PreflightError{Check: "cpu affinity", Err: err}
		}
	}

	if withQEMU && plan.Bridge != "" {
		err := sys.CheckBridge(plan.Bridge, h.LinkByName)
		if err != nil {
			return &PreflightError{Check: "network", Err: err}
		}
	}

	return nil
}

func (h *host) validateDevice(address string) error {
	err := device.ValidateAddress(address)
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = h.PCI.Device(address)

	return err //nolint:wrapcheck
}

func (h *host) validateAffinity(list string) error {
	available, err := h.HostCPUs()
	if err != nil {
		return fmt.Errorf("host cpus: %w", err)
	}

	return sys.CheckCPUList(list, available) //nolint:wrapcheck
}
