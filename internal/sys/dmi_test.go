// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/vfiorun/internal/sys"
)

func TestHardwareDMIAttribute(t *testing.T) {
	hw := sys.Hardware{
		DMI: fstest.MapFS{
			"sys_vendor":   {Data: []byte("Gigabyte Technology Co., Ltd.\n")},
			"board_name":   {Data: []byte("X570 AORUS ULTRA\n")},
			"product_sku":  {Data: []byte("To Be Filled By O.E.M.\n")},
			"product_name": {Data: []byte("\n")},
			"product_uuid": {Data: []byte("3137F3A5-8FA3-41A4-87F5-AADD00AB066F\n")},
		},
	}

	tests := []struct {
		name     string
		expected string
		exists   bool
	}{
		{name: "sys_vendor", expected: "Gigabyte Technology Co., Ltd.", exists: true},
		{name: "board_name", expected: "X570 AORUS ULTRA", exists: true},
		{name: "product_sku"},
		{name: "product_name"},
		{name: "product_uuid", expected: "3137f3a5-8fa3-41a4-87f5-aadd00ab066f", exists: true},
		{name: "bios_vendor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, exists := hw.DMIAttribute(tt.name)
			assert.Equal(t, tt.exists, exists)
			assert.Equal(t, tt.expected, value)
		})
	}

	require.NoError(t, hw.DMIAvailable())
}

func TestHardwareDMIAttributeInvalidUUID(t *testing.T) {
	for _, content := range []string{"not-a-uuid", "00000000-0000-0000-0000-000000000000"} {
		hw := sys.Hardware{
			DMI: fstest.MapFS{"product_uuid": {Data: []byte(content)}},
		}

		_, exists := hw.DMIAttribute("product_uuid")
		assert.False(t, exists, content)
	}
}

func TestHardwareDMIAvailable(t *testing.T) {
	hw := sys.Hardware{DMI: fstest.MapFS{}}
	require.NoError(t, hw.DMIAvailable())

	hw = sys.Hardware{DMI: fakeFS{}}
	assert.Error(t, hw.DMIAvailable())
}

func TestHardwareProcessor(t *testing.T) {
	tests := []struct {
		name     string
		info     sys.CPUInfoFunc
		expected sys.Processor
		err      bool
	}{
		{
			name: "amd",
			info: cpuInfo(cpu.InfoStat{
				VendorID:  "AuthenticAMD",
				ModelName: "AMD Ryzen 9 5950X 16-Core Processor            ",
			}),
			expected: sys.Processor{
				Version:      "AMD Ryzen 9 5950X 16-Core Processor",
				Manufacturer: "Advanced Micro Devices, Inc.",
			},
		},
		{
			name: "intel",
			info: cpuInfo(cpu.InfoStat{
				VendorID:  "GenuineIntel",
				ModelName: "Intel(R) Core(TM) i9-9900K CPU @ 3.60GHz",
			}),
			expected: sys.Processor{
				Version:      "Intel(R) Core(TM) i9-9900K CPU @ 3.60GHz",
				Manufacturer: "Intel(R) Corporation",
			},
		},
		{
			name: "unknown vendor",
			info: cpuInfo(cpu.InfoStat{VendorID: "HygonGenuine", ModelName: "Hygon C86"}),
			expected: sys.Processor{
				Version:      "Hygon C86",
				Manufacturer: "HygonGenuine",
			},
		},
		{
			name: "no cpus",
			info: cpuInfo(),
			err:  true,
		},
		{
			name: "error",
			info: func(context.Context) ([]cpu.InfoStat, error) {
				return nil, errors.New("no /proc")
			},
			err: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw := sys.Hardware{CPUInfo: tt.info}

			processor, err := hw.Processor(t.Context())
			if tt.err {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, processor)
		})
	}
}

func cpuInfo(stats ...cpu.InfoStat) sys.CPUInfoFunc {
	return func(context.Context) ([]cpu.InfoStat, error) {
		return stats, nil
	}
}
