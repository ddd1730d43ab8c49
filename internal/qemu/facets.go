// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"io/fs"
)

// VGA is the emulated graphics device.
type VGA string

const (
	VGANone VGA = "none"
	// VGAStd is the standard QEMU VGA device. Works out of the box.
	VGAStd VGA = "std"
	// VGAVirtio requires guest drivers that are not available for every OS.
	VGAVirtio VGA = "virtio"
	// VGAQXL works with Windows guests, may need drivers.
	VGAQXL VGA = "qxl"
)

// Window is the local display of the machine.
type Window string

const (
	WindowNone Window = "none"
	// WindowGTK opens a GTK window. Useful for debugging, pointless without
	// a [VGA] device.
	WindowGTK Window = "gtk"
)

// AudioBackendType is the host side of guest audio.
type AudioBackendType int

const (
	AudioBackendNone AudioBackendType = iota
	AudioBackendPipewire
	AudioBackendSpice
)

// AudioBackend is the host side of guest audio. It is incomplete without an
// [AudioFrontend].
type AudioBackend struct {
	Type AudioBackendType
	// RuntimeDir of the pipewire server, typically /run/user/$UID.
	RuntimeDir string
}

// AudioFrontendType is the emulated guest sound device.
type AudioFrontendType int

const (
	AudioFrontendNone AudioFrontendType = iota
	// AudioFrontendIntelHDA is an emulated Intel ICH6 sound card.
	AudioFrontendIntelHDA
	// AudioFrontendIntelHDAICH9 is an emulated Intel ICH9 sound card.
	AudioFrontendIntelHDAICH9
	AudioFrontendUSBAudio
)

// HDAType is the codec of an emulated Intel HDA sound card.
type HDAType string

const (
	// HDAOutput is output only (line-out).
	HDAOutput HDAType = "output"
	// HDADuplex has line-out and line-in.
	HDADuplex HDAType = "duplex"
	// HDAMicro has speaker and microphone.
	HDAMicro HDAType = "micro"
)

// AudioFrontend is the guest side of audio. It requires an [AudioBackend].
type AudioFrontend struct {
	Type    AudioFrontendType
	HDAType HDAType
}

// NetworkMode is the guest network setup.
type NetworkMode int

const (
	NetworkNone NetworkMode = iota
	// NetworkUser is emulated e1000 user networking. Works out of the box,
	// but has high CPU overhead.
	NetworkUser
	// NetworkVirtioUser is virtio user networking. Requires guest drivers.
	NetworkVirtioUser
	// NetworkBridge attaches a virtio NIC to an existing host bridge.
	NetworkBridge
)

// Networking is the guest network facet.
type Networking struct {
	Mode   NetworkMode
	Bridge string
}

// DiskType is the way a disk is attached to the guest.
type DiskType int

const (
	// DiskRaw works out of the box, but is slow.
	DiskRaw DiskType = iota
	// DiskVirtio is fast, but requires guest drivers.
	DiskVirtio
)

// Disk is a raw disk image or block device.
type Disk struct {
	Path string
	Type DiskType
}

func (d Disk) argument() Argument {
	option := "media=disk"
	if d.Type == DiskVirtio {
		option = "if=virtio"
	}

	return RepeatableArg("drive", "file="+d.Path, "format=raw", option)
}

// USBDevice is a USB device attached to the guest.
type USBDevice struct {
	// Device is the QEMU device model for emulated devices. If empty, the
	// host device identified by VendorID and ProductID is passed through.
	Device    string
	VendorID  uint16
	ProductID uint16
}

func (d USBDevice) argument() Argument {
	if d.Device != "" {
		return RepeatableArg("device", d.Device)
	}

	return RepeatableArg("device",
		"usb-host",
		fmt.Sprintf("vendorid=0x%x", d.VendorID),
		fmt.Sprintf("productid=0x%x", d.ProductID),
	)
}

const (
	// LookingGlassPath is the shared memory file used by looking-glass.
	LookingGlassPath = "/dev/shm/looking-glass"

	// LookingGlassMode is the permission mode of [LookingGlassPath].
	LookingGlassMode fs.FileMode = 0o644

	lookingGlassSize = "32M"
)

// LookingGlass is the shared memory display channel for looking-glass. The
// shared memory file is owned by the given user and group, so the
// looking-glass client can open it.
type LookingGlass struct {
	UID int
	GID int
}

func (l LookingGlass) arguments() []Argument {
	return []Argument{
		RepeatableArg("device",
			"ivshmem-plain",
			"memdev=ivshmem",
			"bus=pci.0",
		),
		RepeatableArg("object",
			"memory-backend-file",
			"id=ivshmem",
			"share=on",
			"mem-path="+LookingGlassPath,
			"size="+lookingGlassSize,
		),
	}
}

func (l LookingGlass) file() EphemeralFile {
	return EphemeralFile{
		Path: LookingGlassPath,
		UID:  l.UID,
		GID:  l.GID,
		Mode: LookingGlassMode,
	}
}
