// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrKVMNotAvailable is returned if /dev/kvm can not be used.
	ErrKVMNotAvailable = errors.New("kvm not available")

	// ErrInvalidCPUList is returned if a CPU list is malformed.
	ErrInvalidCPUList = errors.New("invalid cpu list")

	// ErrCPUNotAvailable is returned if a CPU is not in the set of CPUs the
	// current process may be scheduled on.
	ErrCPUNotAvailable = errors.New("cpu not available")

	// ErrPCIDeviceNotFound is returned if a PCI device is not present.
	ErrPCIDeviceNotFound = errors.New("pci device not found")

	// ErrNotABridge is returned if a network link exists but is not a
	// bridge.
	ErrNotABridge = errors.New("link is not a bridge")
)
