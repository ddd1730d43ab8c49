// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

// Options are the machine options of a single section.
//
// Empty options are not applied.
type Options struct {
	CPU         string `mapstructure:"cpu"`
	SMP         string `mapstructure:"smp"`
	RAM         string `mapstructure:"ram"`
	CPUAffinity string `mapstructure:"cpu_affinity"`
	CPUGovernor string `mapstructure:"cpu_governor"`
	OVMF        string `mapstructure:"ovmf"`

	Identity *IdentityOptions `mapstructure:"identity"`

	// VGA is one of none, std, virtio, qxl.
	VGA string `mapstructure:"vga"`
	// Window is one of none, gtk.
	Window string `mapstructure:"window"`

	Audio   AudioOptions   `mapstructure:"audio"`
	Network NetworkOptions `mapstructure:"network"`

	LookingGlass *LookingGlassOptions `mapstructure:"looking_glass"`

	Spice      bool `mapstructure:"spice"`
	SpiceAgent bool `mapstructure:"spice_agent"`

	Disks    []DiskOptions `mapstructure:"disks"`
	PCI      []string      `mapstructure:"pci"`
	PATClear []string      `mapstructure:"pat_clear"`
	Drivers  []string      `mapstructure:"drivers"`
	USB      []USBOptions  `mapstructure:"usb"`
}

// IdentityOptions control the hardware identity presented to the guest.
type IdentityOptions struct {
	// Host populates the identity from the host hardware.
	Host bool `mapstructure:"host"`

	// Fields override single fields, keyed by category name (like "system")
	// and field name.
	Fields map[string]map[string]string `mapstructure:"fields"`
}

// AudioOptions configure guest audio.
type AudioOptions struct {
	// Backend is one of pipewire, spice.
	Backend    string `mapstructure:"backend"`
	RuntimeDir string `mapstructure:"runtime_dir"`

	// Frontend is one of intel-hda, ich9-intel-hda, usb-audio.
	Frontend string `mapstructure:"frontend"`
	// HDAType is one of output, duplex, micro.
	HDAType string `mapstructure:"hda_type"`
}

// NetworkOptions configure guest networking.
type NetworkOptions struct {
	// Mode is one of none, user, virtio-user, bridge.
	Mode   string `mapstructure:"mode"`
	Bridge string `mapstructure:"bridge"`
}

// LookingGlassOptions configure the looking-glass shared memory device. The
// owner is given either by ID or by name.
type LookingGlassOptions struct {
	UID   *int   `mapstructure:"uid"`
	GID   *int   `mapstructure:"gid"`
	User  string `mapstructure:"user"`
	Group string `mapstructure:"group"`
}

// DiskOptions configure a disk.
type DiskOptions struct {
	Path string `mapstructure:"path"`
	// Type is one of raw, virtio.
	Type string `mapstructure:"type"`
}

// USBOptions configure a USB device. Either Device or the IDs are set.
type USBOptions struct {
	// Device is an emulated device. Only "tablet" is supported.
	Device string `mapstructure:"device"`

	// Vendor and Product are hexadecimal IDs of a host USB device, like
	// "046d".
	Vendor  string `mapstructure:"vendor"`
	Product string `mapstructure:"product"`
}
