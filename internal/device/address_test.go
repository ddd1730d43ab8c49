// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aibor/vfiorun/internal/device"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		valid   bool
	}{
		{name: "gpu", address: "0000:01:00.0", valid: true},
		{name: "hex digits", address: "0000:0a:1f.7", valid: true},
		{name: "upper case", address: "0000:0A:1F.3", valid: true},
		{name: "missing domain", address: "01:00.0"},
		{name: "function out of range", address: "0000:01:00.8"},
		{name: "trailing garbage", address: "0000:01:00.0 "},
		{name: "empty", address: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := device.ValidateAddress(tt.address)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, device.ErrInvalidAddress)
			}
		})
	}
}

func TestNodeDeviceName(t *testing.T) {
	assert.Equal(t, "pci_0000_01_00_1", device.NodeDeviceName("0000:01:00.1"))
	assert.Equal(t, "pci_0000_0b_00_0", device.NodeDeviceName("0000:0b:00.0"))
}
