// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package device

import (
	"fmt"
	"regexp"
	"strings"
)

// Domain, bus, device and function of a PCI device, like 0000:01:00.0.
var pciAddressRegex = regexp.MustCompile(
	`^[0-9a-fA-F]{4}:[0-9a-fA-F]{2}:[0-9a-fA-F]{2}\.[0-7]$`,
)

// ValidateAddress checks that the given string is a PCI address in the form
// DDDD:BB:DD.F.
func ValidateAddress(address string) error {
	if !pciAddressRegex.MatchString(address) {
		return fmt.Errorf("%w: %q (expected format: 0000:01:00.0)",
			ErrInvalidAddress, address)
	}

	return nil
}

// NodeDeviceName translates a PCI address into the libvirt node device name,
// e.g. 0000:01:00.1 becomes pci_0000_01_00_1.
func NodeDeviceName(address string) string {
	return "pci_" + strings.NewReplacer(":", "_", ".", "_").Replace(address)
}
