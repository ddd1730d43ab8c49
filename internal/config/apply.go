// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/moby/sys/user"

	"github.com/aibor/vfiorun/internal/qemu"
)

// Resolver resolves options that depend on the host.
type Resolver struct {
	// Identity is the source of host identity values. If nil, host identity
	// options use default values only.
	Identity qemu.IdentitySource

	// LookupUser resolves user names. If nil, [user.LookupUser] is used.
	LookupUser func(name string) (user.User, error)

	// LookupGroup resolves group names. If nil, [user.LookupGroup] is used.
	LookupGroup func(name string) (user.Group, error)
}

type noIdentity struct{}

func (noIdentity) IdentityValue(qemu.IdentityCategory, string) (string, bool) {
	return "", false
}

// Apply applies all non-empty options to the given [qemu.Config].
func (o *Options) Apply(cfg *qemu.Config, resolver Resolver) error {
	setIfSet(o.CPU, cfg.CPU)
	setIfSet(o.SMP, cfg.SMP)
	setIfSet(o.RAM, cfg.RAM)
	setIfSet(o.CPUAffinity, cfg.CPUAffinity)
	setIfSet(o.CPUGovernor, cfg.CPUGovernor)
	setIfSet(o.OVMF, cfg.OVMF)

	err := o.applyIdentity(cfg, resolver)
	if err != nil {
		return err
	}

	err = o.applyDisplay(cfg)
	if err != nil {
		return err
	}

	err = o.Audio.apply(cfg)
	if err != nil {
		return err
	}

	err = o.Network.apply(cfg)
	if err != nil {
		return err
	}

	if o.LookingGlass != nil {
		uid, gid, err := o.LookingGlass.owner(resolver)
		if err != nil {
			return err
		}

		cfg.LookingGlass(uid, gid)
	}

	if o.Spice {
		cfg.Spice()
	}

	if o.SpiceAgent {
		cfg.SpiceAgent()
	}

	for _, disk := range o.Disks {
		switch disk.Type {
		case "", "raw":
			cfg.RawDisk(disk.Path)
		case "virtio":
			cfg.VirtioDisk(disk.Path)
		default:
			return invalidOption("disks.type", disk.Type)
		}
	}

	for _, address := range o.PCI {
		cfg.PCIDevice(address)
	}

	for _, address := range o.PATClear {
		cfg.PATClear(address)
	}

	if len(o.Drivers) > 0 {
		cfg.UnloadDrivers(o.Drivers...)
	}

	for _, device := range o.USB {
		err := device.apply(cfg)
		if err != nil {
			return err
		}
	}

	return nil
}

func (o *Options) applyIdentity(cfg *qemu.Config, resolver Resolver) error {
	if o.Identity == nil {
		return nil
	}

	if o.Identity.Host {
		source := resolver.Identity
		if source == nil {
			source = noIdentity{}
		}

		cfg.HostIdentity(source)
	}

	// Sorted, so new fields are always added in the same order.
	for _, name := range slices.Sorted(maps.Keys(o.Identity.Fields)) {
		category, err := qemu.ParseIdentityCategory(name)
		if err != nil {
			return fmt.Errorf("%w: identity.fields: %w", ErrInvalidOption, err)
		}

		fields := o.Identity.Fields[name]
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			cfg.IdentityField(category, key, fields[key])
		}
	}

	return nil
}

func (o *Options) applyDisplay(cfg *qemu.Config) error {
	switch vga := qemu.VGA(o.VGA); vga {
	case "":
	case qemu.VGANone, qemu.VGAStd, qemu.VGAVirtio, qemu.VGAQXL:
		cfg.VGA(vga)
	default:
		return invalidOption("vga", o.VGA)
	}

	switch window := qemu.Window(o.Window); window {
	case "":
	case qemu.WindowNone, qemu.WindowGTK:
		cfg.Window(window)
	default:
		return invalidOption("window", o.Window)
	}

	return nil
}

func (a *AudioOptions) apply(cfg *qemu.Config) error {
	switch a.Backend {
	case "":
	case "pipewire":
		cfg.Pipewire(a.RuntimeDir)
	case "spice":
		cfg.SpiceAudio()
	default:
		return invalidOption("audio.backend", a.Backend)
	}

	hdaType := qemu.HDAType(a.HDAType)

	switch hdaType {
	case "":
		hdaType = qemu.HDAOutput
	case qemu.HDAOutput, qemu.HDADuplex, qemu.HDAMicro:
	default:
		return invalidOption("audio.hda_type", a.HDAType)
	}

	switch a.Frontend {
	case "":
	case "intel-hda":
		cfg.IntelHDA(hdaType)
	case "ich9-intel-hda":
		cfg.IntelHDAICH9(hdaType)
	case "usb-audio":
		cfg.USBAudio()
	default:
		return invalidOption("audio.frontend", a.Frontend)
	}

	return nil
}

func (n *NetworkOptions) apply(cfg *qemu.Config) error {
	switch n.Mode {
	case "":
	case "none":
		cfg.Networking(qemu.Networking{Mode: qemu.NetworkNone})
	case "user":
		cfg.UserNetworking()
	case "virtio-user":
		cfg.VirtioUserNetworking()
	case "bridge":
		if n.Bridge == "" {
			return invalidOption("network.bridge", n.Bridge)
		}

		cfg.BridgeNetworking(n.Bridge)
	default:
		return invalidOption("network.mode", n.Mode)
	}

	return nil
}

func (l *LookingGlassOptions) owner(resolver Resolver) (int, int, error) {
	var uid, gid int

	switch {
	case l.UID != nil:
		uid = *l.UID
	case l.User != "":
		lookup := resolver.LookupUser
		if lookup == nil {
			lookup = user.LookupUser
		}

		u, err := lookup(l.User)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: looking_glass.user: %w", ErrInvalidOption, err)
		}

		uid = u.Uid
		gid = u.Gid
	default:
		return 0, 0, invalidOption("looking_glass", "uid or user required")
	}

	switch {
	case l.GID != nil:
		gid = *l.GID
	case l.Group != "":
		lookup := resolver.LookupGroup
		if lookup == nil {
			lookup = user.LookupGroup
		}

		g, err := lookup(l.Group)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: looking_glass.group: %w", ErrInvalidOption, err)
		}

		gid = g.Gid
	case l.UID != nil:
		return 0, 0, invalidOption("looking_glass", "gid or group required")
	}

	return uid, gid, nil
}

func (u *USBOptions) apply(cfg *qemu.Config) error {
	switch u.Device {
	case "tablet", "usb-tablet":
		cfg.USBTablet()
		return nil
	case "":
	default:
		return invalidOption("usb.device", u.Device)
	}

	vendor, err := parseUSBID(u.Vendor)
	if err != nil {
		return invalidOption("usb.vendor", u.Vendor)
	}

	product, err := parseUSBID(u.Product)
	if err != nil {
		return invalidOption("usb.product", u.Product)
	}

	cfg.USBHost(vendor, product)

	return nil
}

func parseUSBID(id string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(id, "0x"), 16, 16)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return uint16(v), nil
}

func setIfSet(value string, setter func(string) *qemu.Config) {
	if value != "" {
		setter(value)
	}
}

func invalidOption(name, value string) error {
	return fmt.Errorf("%w: %s: %q", ErrInvalidOption, name, value)
}
