// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
)

// DMIPath is the sysfs directory of the host's DMI identity attributes.
const DMIPath = "/sys/class/dmi/id"

// Placeholder values firmware vendors put into DMI fields they do not care
// about. They are treated as not set.
var dmiPlaceholders = []string{ //nolint:gochecknoglobals
	"",
	"To Be Filled By O.E.M.",
	"Not Applicable",
}

var cpuVendors = map[string]string{ //nolint:gochecknoglobals
	"AuthenticAMD": "Advanced Micro Devices, Inc.",
	"GenuineIntel": "Intel(R) Corporation",
}

// CPUInfoFunc returns information about the host's processors.
type CPUInfoFunc func(ctx context.Context) ([]cpu.InfoStat, error)

// Processor identifies the host processor.
type Processor struct {
	Version      string
	Manufacturer string
}

// Hardware reads the identity of the host hardware.
type Hardware struct {
	// DMI is rooted at [DMIPath]. If nil, the host's sysfs is used.
	DMI fs.FS

	// CPUInfo is used for processor identity. If nil,
	// [cpu.InfoWithContext] is used.
	CPUInfo CPUInfoFunc
}

func (h *Hardware) dmi() fs.FS {
	if h.DMI == nil {
		return os.DirFS(DMIPath)
	}

	return h.DMI
}

// DMIAvailable returns an error if the DMI attributes can not be read at
// all.
func (h *Hardware) DMIAvailable() error {
	_, err := fs.ReadDir(h.dmi(), ".")
	if err != nil {
		return fmt.Errorf("read dmi attributes: %w", err)
	}

	return nil
}

// DMIAttribute returns the value of the DMI attribute with the given name,
// like "sys_vendor". Unreadable attributes and placeholder values are
// reported as not available. Some attributes, like serial numbers, are only
// readable by root.
//
// The "product_uuid" attribute is only returned if it is a valid non-nil
// UUID. It is normalized to lower case.
func (h *Hardware) DMIAttribute(name string) (string, bool) {
	content, err := fs.ReadFile(h.dmi(), name)
	if err != nil {
		return "", false
	}

	value := strings.TrimSpace(string(content))
	for _, placeholder := range dmiPlaceholders {
		if value == placeholder {
			return "", false
		}
	}

	if name == "product_uuid" {
		id, err := uuid.Parse(value)
		if err != nil || id == uuid.Nil {
			return "", false
		}

		value = id.String()
	}

	return value, true
}

// Processor returns the identity of the first host processor.
func (h *Hardware) Processor(ctx context.Context) (Processor, error) {
	info := h.CPUInfo
	if info == nil {
		info = cpu.InfoWithContext
	}

	stats, err := info(ctx)
	if err != nil {
		return Processor{}, fmt.Errorf("cpu info: %w", err)
	}

	if len(stats) == 0 {
		return Processor{}, fmt.Errorf("cpu info: %w", fs.ErrNotExist)
	}

	manufacturer, exists := cpuVendors[stats[0].VendorID]
	if !exists {
		manufacturer = stats[0].VendorID
	}

	return Processor{
		Version:      strings.TrimSpace(stats[0].ModelName),
		Manufacturer: manufacturer,
	}, nil
}
