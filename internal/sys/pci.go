// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// PCIDevicesPath is the sysfs directory of all PCI devices.
const PCIDevicesPath = "/sys/bus/pci/devices"

// PCIDevice describes a PCI device as found in sysfs.
type PCIDevice struct {
	Address string
	Vendor  string
	Device  string
	Class   string
}

// PCIBus reads PCI device information from a sysfs tree.
type PCIBus struct {
	// FS is rooted at [PCIDevicesPath]. If nil, the host's sysfs is used.
	FS fs.FS
}

func (b *PCIBus) fsys() fs.FS {
	if b.FS == nil {
		return os.DirFS(PCIDevicesPath)
	}

	return b.FS
}

// Device returns the device with the given address.
//
// It returns [ErrPCIDeviceNotFound] if the device is not present. Missing
// attribute files are left empty.
func (b *PCIBus) Device(address string) (PCIDevice, error) {
	device := PCIDevice{Address: address}

	_, err := fs.Stat(b.fsys(), address)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return device, fmt.Errorf("%w: %s", ErrPCIDeviceNotFound, address)
		}

		return device, fmt.Errorf("stat %s: %w", address, err)
	}

	device.Vendor = b.attribute(address, "vendor")
	device.Device = b.attribute(address, "device")
	device.Class = b.attribute(address, "class")

	return device, nil
}

func (b *PCIBus) attribute(address, name string) string {
	content, err := fs.ReadFile(b.fsys(), path.Join(address, name))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(content))
}
