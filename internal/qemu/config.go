// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"path/filepath"
	"slices"
)

// DefaultRAM is the guest memory size used if none is set.
const DefaultRAM = "4G"

const audioDevID = "audio0"

// Config accumulates the facets of a virtual machine.
//
// All setters return the [Config] itself so calls can be chained. Setting a
// scalar facet again replaces the previous value. List facets (disks, PCI
// devices, PAT clear addresses, USB devices) are appended to. The zero value
// is ready to use.
type Config struct {
	cpu           string
	smp           string
	ram           string
	cpuAffinity   string
	cpuGovernor   string
	firmware      string
	hostIdentity  *Identity
	identity      *Identity
	vga           VGA
	window        Window
	audioBackend  AudioBackend
	audioFrontend AudioFrontend
	networking    Networking
	lookingGlass  *LookingGlass
	spice         bool
	spiceAgent    bool
	disks         []Disk
	pci           []string
	patClear      []string
	drivers       []string
	usb           []USBDevice
}

// CPU sets the QEMU CPU model and options, e.g. "host,topoext".
func (c *Config) CPU(options string) *Config {
	c.cpu = options
	return c
}

// SMP sets the number and topology of guest CPUs, e.g.
// "sockets=1,cores=6,threads=2".
func (c *Config) SMP(layout string) *Config {
	c.smp = layout
	return c
}

// RAM sets the guest memory size, e.g. "16G". Default is [DefaultRAM].
func (c *Config) RAM(size string) *Config {
	c.ram = size
	return c
}

// CPUAffinity pins the QEMU process to the given host CPU list. See
// taskset(1).
func (c *Config) CPUAffinity(affinity string) *Config {
	c.cpuAffinity = affinity
	return c
}

// CPUGovernor sets the host CPU frequency governor before the machine is
// started. It is not reverted afterwards.
func (c *Config) CPUGovernor(governor string) *Config {
	c.cpuGovernor = governor
	return c
}

// OVMF boots the machine in UEFI mode with the given firmware file, e.g.
// /usr/share/edk2/x64/OVMF.fd.
func (c *Config) OVMF(path string) *Config {
	c.firmware = path
	return c
}

// HostIdentity presents SMBIOS tables to the guest that are populated from
// the host hardware. Fields the source can not provide use fixed defaults.
// The source is read immediately. Fields set with [Config.IdentityField]
// take precedence, no matter in which order both are called.
func (c *Config) HostIdentity(source IdentitySource) *Config {
	c.hostIdentity = HostIdentity(source)
	return c
}

// IdentityField sets a single SMBIOS field. Setting an existing key again
// replaces its value. Without [Config.HostIdentity], only the fields set
// this way are presented.
func (c *Config) IdentityField(category IdentityCategory, key, value string) *Config {
	if c.identity == nil {
		c.identity = &Identity{}
	}

	c.identity.Set(category, key, value)

	return c
}

// VGA sets the emulated graphics device.
func (c *Config) VGA(vga VGA) *Config {
	c.vga = vga
	return c
}

// Window sets the local display.
func (c *Config) Window(window Window) *Config {
	c.window = window
	return c
}

// Pipewire uses the pipewire server with the given runtime directory as audio
// backend. Requires an audio frontend.
func (c *Config) Pipewire(runtimeDir string) *Config {
	c.audioBackend = AudioBackend{Type: AudioBackendPipewire, RuntimeDir: runtimeDir}
	return c
}

// SpiceAudio sends audio via the spice protocol. Requires an audio frontend
// and [Config.Spice].
func (c *Config) SpiceAudio() *Config {
	c.audioBackend = AudioBackend{Type: AudioBackendSpice}
	return c
}

// IntelHDA adds an emulated Intel ICH6 sound card. Requires an audio backend.
func (c *Config) IntelHDA(hdaType HDAType) *Config {
	c.audioFrontend = AudioFrontend{Type: AudioFrontendIntelHDA, HDAType: hdaType}
	return c
}

// IntelHDAICH9 adds an emulated Intel ICH9 sound card. Requires an audio
// backend.
func (c *Config) IntelHDAICH9(hdaType HDAType) *Config {
	c.audioFrontend = AudioFrontend{Type: AudioFrontendIntelHDAICH9, HDAType: hdaType}
	return c
}

// USBAudio adds an emulated USB audio device. Requires an audio backend.
func (c *Config) USBAudio() *Config {
	c.audioFrontend = AudioFrontend{Type: AudioFrontendUSBAudio}
	return c
}

// Networking sets the guest network.
func (c *Config) Networking(networking Networking) *Config {
	c.networking = networking
	return c
}

// UserNetworking adds emulated e1000 user networking.
func (c *Config) UserNetworking() *Config {
	return c.Networking(Networking{Mode: NetworkUser})
}

// VirtioUserNetworking adds virtio user networking.
func (c *Config) VirtioUserNetworking() *Config {
	return c.Networking(Networking{Mode: NetworkVirtioUser})
}

// BridgeNetworking attaches a virtio NIC to the given host bridge.
func (c *Config) BridgeNetworking(bridge string) *Config {
	return c.Networking(Networking{Mode: NetworkBridge, Bridge: bridge})
}

// LookingGlass adds the looking-glass shared memory device. The shared
// memory file is owned by the given user and group.
func (c *Config) LookingGlass(uid, gid int) *Config {
	c.lookingGlass = &LookingGlass{UID: uid, GID: gid}
	return c
}

// Spice adds the spice remote display with virtio keyboard and mouse.
func (c *Config) Spice() *Config {
	c.spice = true
	return c
}

// SpiceAgent adds the spice agent channel used for clipboard sharing.
func (c *Config) SpiceAgent() *Config {
	c.spiceAgent = true
	return c
}

// RawDisk adds a disk attached as plain IDE/SATA disk.
func (c *Config) RawDisk(path string) *Config {
	c.disks = append(c.disks, Disk{Path: path, Type: DiskRaw})
	return c
}

// VirtioDisk adds a disk attached with virtio.
func (c *Config) VirtioDisk(path string) *Config {
	c.disks = append(c.disks, Disk{Path: path, Type: DiskVirtio})
	return c
}

// PCIDevice passes the PCI device with the given address through to the
// guest. It is detached from the host before and reattached after the run.
func (c *Config) PCIDevice(address string) *Config {
	c.pci = append(c.pci, address)
	return c
}

// PATClear clears the PAT entries of the PCI device with the given address
// after detaching and before reattaching it.
func (c *Config) PATClear(address string) *Config {
	c.patClear = append(c.patClear, address)
	return c
}

// UnloadDrivers unloads the given kernel modules before and reloads them
// after the run.
func (c *Config) UnloadDrivers(drivers ...string) *Config {
	c.drivers = slices.Clone(drivers)
	return c
}

// USBHost passes the host USB device with the given IDs through.
func (c *Config) USBHost(vendorID, productID uint16) *Config {
	c.usb = append(c.usb, USBDevice{VendorID: vendorID, ProductID: productID})
	return c
}

// USBTablet adds an emulated USB tablet for absolute pointer positioning.
func (c *Config) USBTablet() *Config {
	c.usb = append(c.usb, USBDevice{Device: "usb-tablet"})
	return c
}

// Clone returns a deep copy of the [Config].
func (c *Config) Clone() *Config {
	clone := *c

	if c.hostIdentity != nil {
		clone.hostIdentity = c.hostIdentity.clone()
	}

	if c.identity != nil {
		clone.identity = c.identity.clone()
	}

	if c.lookingGlass != nil {
		lookingGlass := *c.lookingGlass
		clone.lookingGlass = &lookingGlass
	}

	clone.disks = slices.Clone(c.disks)
	clone.pci = slices.Clone(c.pci)
	clone.patClear = slices.Clone(c.patClear)
	clone.drivers = slices.Clone(c.drivers)
	clone.usb = slices.Clone(c.usb)

	return &clone
}

// Build compiles the [Config] into a [Plan].
//
// The order of the arguments is fixed and independent of the order the
// facets have been set in. Devices referenced by later arguments are always
// declared first. Build does not modify the [Config] and does not perform
// any I/O.
func (c *Config) Build() (*Plan, error) {
	env := planEnv{}
	args := make([]Argument, 0, 32)

	args = append(args,
		UniqueArg("nodefaults"),
		UniqueArg("enable-kvm"),
		UniqueArg("mon", "chardev=char0", "mode=readline"),
		RepeatableArg("chardev", "stdio", "id=char0", "mux=on"),
	)

	args = append(args, c.systemArgs()...)

	firmwareArgs, err := c.firmwareArgs()
	if err != nil {
		return nil, err
	}

	args = append(args, firmwareArgs...)

	if identity := c.mergedIdentity(); identity != nil {
		args = append(args, identity.arguments()...)
	}

	args = append(args,
		UniqueArg("vga", string(valueOr(c.vga, VGANone))),
		UniqueArg("display", string(valueOr(c.window, WindowNone))),
	)

	backendArgs, err := c.audioBackendArgs(env)
	if err != nil {
		return nil, err
	}

	args = append(args, backendArgs...)
	args = append(args, c.audioFrontendArgs()...)
	args = append(args, c.networkArgs())

	for _, address := range c.pci {
		args = append(args, RepeatableArg("device", "vfio-pci", "host="+address))
	}

	for _, disk := range c.disks {
		args = append(args, disk.argument())
	}

	if len(c.usb) > 0 {
		args = append(args, UniqueArg("usb"))

		for _, device := range c.usb {
			args = append(args, device.argument())
		}
	}

	var files []EphemeralFile

	if c.lookingGlass != nil {
		args = append(args, c.lookingGlass.arguments()...)
		files = append(files, c.lookingGlass.file())
	}

	args = append(args, c.spiceArgs()...)

	argStrings, err := BuildArgumentStrings(args)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Args:        argStrings,
		Env:         env,
		Files:       files,
		CPUAffinity: c.cpuAffinity,
		CPUGovernor: c.cpuGovernor,
		Devices:     slices.Clone(c.pci),
		Drivers:     slices.Clone(c.drivers),
		PATClear:    slices.Clone(c.patClear),
		Bridge:      c.bridge(),
	}, nil
}

func (c *Config) bridge() string {
	if c.networking.Mode != NetworkBridge {
		return ""
	}

	return c.networking.Bridge
}

// MustBuild is like [Config.Build] but panics on error.
func (c *Config) MustBuild() *Plan {
	plan, err := c.Build()
	if err != nil {
		panic(err)
	}

	return plan
}

func (c *Config) systemArgs() []Argument {
	var args []Argument

	if c.cpu != "" {
		args = append(args, UniqueArg("cpu", c.cpu))
	}

	if c.smp != "" {
		args = append(args, UniqueArg("smp", c.smp))
	}

	return append(args, UniqueArg("m", valueOr(c.ram, DefaultRAM)))
}

func (c *Config) mergedIdentity() *Identity {
	if c.hostIdentity == nil {
		return c.identity
	}

	identity := c.hostIdentity.clone()
	if c.identity != nil {
		identity.merge(c.identity)
	}

	return identity
}

func (c *Config) firmwareArgs() ([]Argument, error) {
	if c.firmware == "" {
		return nil, nil
	}

	dir, file := filepath.Split(c.firmware)
	if dir == "" || file == "" {
		return nil, fmt.Errorf("%w: %s", ErrFirmwareDirectory, c.firmware)
	}

	return []Argument{
		UniqueArg("L", filepath.Clean(dir)),
		UniqueArg("bios", c.firmware),
	}, nil
}

func (c *Config) audioBackendArgs(env planEnv) ([]Argument, error) {
	switch c.audioBackend.Type {
	case AudioBackendPipewire:
		err := env.set("PIPEWIRE_RUNTIME_DIR", c.audioBackend.RuntimeDir)
		if err != nil {
			return nil, err
		}

		err = env.set("PIPEWIRE_LATENCY", "512/48000")
		if err != nil {
			return nil, err
		}

		return []Argument{
			UniqueArg("audiodev", "pipewire", "id="+audioDevID),
		}, nil
	case AudioBackendSpice:
		return []Argument{
			UniqueArg("audiodev", "spice", "id="+audioDevID),
		}, nil
	default:
		return nil, nil
	}
}

func (c *Config) audioFrontendArgs() []Argument {
	codec := RepeatableArg("device",
		"hda-"+string(valueOr(c.audioFrontend.HDAType, HDAOutput)),
		"audiodev="+audioDevID,
	)

	switch c.audioFrontend.Type {
	case AudioFrontendIntelHDA:
		return []Argument{RepeatableArg("device", "intel-hda"), codec}
	case AudioFrontendIntelHDAICH9:
		return []Argument{RepeatableArg("device", "ich9-intel-hda"), codec}
	case AudioFrontendUSBAudio:
		return []Argument{
			RepeatableArg("device", "usb-audio", "audiodev="+audioDevID),
		}
	default:
		return nil
	}
}

func (c *Config) networkArgs() Argument {
	switch c.networking.Mode {
	case NetworkUser:
		return RepeatableArg("nic", "model=e1000")
	case NetworkVirtioUser:
		return RepeatableArg("nic", "model=virtio-net-pci")
	case NetworkBridge:
		return RepeatableArg("nic",
			"bridge",
			"br="+c.networking.Bridge,
			"model=virtio-net-pci",
		)
	default:
		return RepeatableArg("nic", "none")
	}
}

func (c *Config) spiceArgs() []Argument {
	var args []Argument

	if c.spice {
		args = append(args,
			UniqueArg("spice", "port=5900", "disable-ticketing=on"),
			RepeatableArg("device", "virtio-keyboard-pci"),
			RepeatableArg("device", "virtio-mouse-pci"),
		)
	}

	if c.spiceAgent {
		args = append(args,
			RepeatableArg("device", "virtio-serial-pci"),
			RepeatableArg("chardev", "spicevmc", "id=vdagent", "name=vdagent"),
			RepeatableArg("device",
				"virtserialport",
				"chardev=vdagent",
				"name=com.redhat.spice.0",
			),
		)
	}

	return args
}

func valueOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}

	return value
}
