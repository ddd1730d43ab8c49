// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/vfiorun/internal/qemu"
)

var defaultArgs = []string{ //nolint:gochecknoglobals
	"-nodefaults",
	"-enable-kvm",
	"-mon", "chardev=char0,mode=readline",
	"-chardev", "stdio,id=char0,mux=on",
}

func args(a ...string) []string {
	return append(append([]string{}, defaultArgs...), a...)
}

// fullConfig sets every facet. The setters are called in the order given by
// the facets slice.
func fullConfig(facets []func(*qemu.Config)) *qemu.Config {
	cfg := &qemu.Config{}
	for _, facet := range facets {
		facet(cfg)
	}

	return cfg
}

func allFacets() []func(*qemu.Config) {
	return []func(*qemu.Config){
		func(c *qemu.Config) { c.CPU("host,topoext") },
		func(c *qemu.Config) { c.SMP("sockets=1,cores=4,threads=2") },
		func(c *qemu.Config) { c.RAM("16G") },
		func(c *qemu.Config) { c.OVMF("/usr/share/edk2/x64/OVMF.fd") },
		func(c *qemu.Config) { c.IdentityField(qemu.IdentityBIOS, "vendor", "Foo, Inc.") },
		func(c *qemu.Config) { c.VGA(qemu.VGAStd) },
		func(c *qemu.Config) { c.Window(qemu.WindowGTK) },
		func(c *qemu.Config) { c.Pipewire("/run/user/1000") },
		func(c *qemu.Config) { c.IntelHDA(qemu.HDADuplex) },
		func(c *qemu.Config) { c.VirtioUserNetworking() },
		func(c *qemu.Config) { c.PCIDevice("0000:01:00.0").PCIDevice("0000:01:00.1") },
		func(c *qemu.Config) { c.VirtioDisk("/dev/sda").RawDisk("/dev/sdb") },
		func(c *qemu.Config) { c.USBHost(0x046d, 0xc52b).USBTablet() },
		func(c *qemu.Config) { c.LookingGlass(1000, 100) },
		func(c *qemu.Config) { c.Spice() },
		func(c *qemu.Config) { c.SpiceAgent() },
		func(c *qemu.Config) { c.CPUAffinity("0-7") },
		func(c *qemu.Config) { c.CPUGovernor("performance") },
		func(c *qemu.Config) { c.PATClear("0000:01:00.0") },
		func(c *qemu.Config) { c.UnloadDrivers("nvidia_drm", "nvidia") },
	}
}

func TestConfigBuild(t *testing.T) {
	tests := []struct {
		name     string
		config   *qemu.Config
		expected []string
	}{
		{
			name:     "zero value",
			config:   &qemu.Config{},
			expected: args("-m", "4G", "-vga", "none", "-display", "none", "-nic", "none"),
		},
		{
			name:   "spice audio with usb audio",
			config: (&qemu.Config{}).SpiceAudio().USBAudio().Spice(),
			expected: args(
				"-m", "4G",
				"-vga", "none",
				"-display", "none",
				"-audiodev", "spice,id=audio0",
				"-device", "usb-audio,audiodev=audio0",
				"-nic", "none",
				"-spice", "port=5900,disable-ticketing=on",
				"-device", "virtio-keyboard-pci",
				"-device", "virtio-mouse-pci",
			),
		},
		{
			name:   "ich9 frontend without backend",
			config: (&qemu.Config{}).IntelHDAICH9(qemu.HDAMicro),
			expected: args(
				"-m", "4G",
				"-vga", "none",
				"-display", "none",
				"-device", "ich9-intel-hda",
				"-device", "hda-micro,audiodev=audio0",
				"-nic", "none",
			),
		},
		{
			name:   "bridge networking",
			config: (&qemu.Config{}).UserNetworking().BridgeNetworking("br0"),
			expected: args(
				"-m", "4G",
				"-vga", "none",
				"-display", "none",
				"-nic", "bridge,br=br0,model=virtio-net-pci",
			),
		},
		{
			name:   "all facets",
			config: fullConfig(allFacets()),
			expected: args(
				"-cpu", "host,topoext",
				"-smp", "sockets=1,cores=4,threads=2",
				"-m", "16G",
				"-L", "/usr/share/edk2/x64",
				"-bios", "/usr/share/edk2/x64/OVMF.fd",
				"-smbios", "type=0,vendor=Foo,, Inc.",
				"-vga", "std",
				"-display", "gtk",
				"-audiodev", "pipewire,id=audio0",
				"-device", "intel-hda",
				"-device", "hda-duplex,audiodev=audio0",
				"-nic", "model=virtio-net-pci",
				"-device", "vfio-pci,host=0000:01:00.0",
				"-device", "vfio-pci,host=0000:01:00.1",
				"-drive", "file=/dev/sda,format=raw,if=virtio",
				"-drive", "file=/dev/sdb,format=raw,media=disk",
				"-usb",
				"-device", "usb-host,vendorid=0x46d,productid=0xc52b",
				"-device", "usb-tablet",
				"-device", "ivshmem-plain,memdev=ivshmem,bus=pci.0",
				"-object", "memory-backend-file,id=ivshmem,share=on,mem-path=/dev/shm/looking-glass,size=32M",
				"-spice", "port=5900,disable-ticketing=on",
				"-device", "virtio-keyboard-pci",
				"-device", "virtio-mouse-pci",
				"-device", "virtio-serial-pci",
				"-chardev", "spicevmc,id=vdagent,name=vdagent",
				"-device", "virtserialport,chardev=vdagent,name=com.redhat.spice.0",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := tt.config.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, plan.Args)
		})
	}
}

func TestConfigBuildOrderIndependent(t *testing.T) {
	facets := append(allFacets(), func(c *qemu.Config) { c.HostIdentity(identitySource{}) })
	expected := fullConfig(facets).MustBuild()

	reversed := make([]func(*qemu.Config), 0, len(facets))
	for idx := len(facets) - 1; idx >= 0; idx-- {
		reversed = append(reversed, facets[idx])
	}

	actual := fullConfig(reversed).MustBuild()

	assert.Equal(t, expected, actual)
}

func TestConfigBuildRepeatable(t *testing.T) {
	cfg := fullConfig(allFacets())

	first, err := cfg.Build()
	require.NoError(t, err)

	second, err := cfg.Build()
	require.NoError(t, err)

	assert.Equal(t, first.Args, second.Args)
	assert.Equal(t, first.Env, second.Env)
	assert.Equal(t, first.Environ(), second.Environ())
}

func TestConfigBuildPlan(t *testing.T) {
	plan := fullConfig(allFacets()).MustBuild()

	expected := &qemu.Plan{
		Args: plan.Args,
		Env: map[string]string{
			"PIPEWIRE_RUNTIME_DIR": "/run/user/1000",
			"PIPEWIRE_LATENCY":     "512/48000",
		},
		Files: []qemu.EphemeralFile{
			{
				Path: "/dev/shm/looking-glass",
				UID:  1000,
				GID:  100,
				Mode: 0o644,
			},
		},
		CPUAffinity: "0-7",
		CPUGovernor: "performance",
		Devices:     []string{"0000:01:00.0", "0000:01:00.1"},
		Drivers:     []string{"nvidia_drm", "nvidia"},
		PATClear:    []string{"0000:01:00.0"},
	}

	assert.Equal(t, expected, plan)
}

func TestConfigBuildPlanBridge(t *testing.T) {
	tests := []struct {
		name     string
		config   *qemu.Config
		expected string
	}{
		{
			name:   "no networking",
			config: &qemu.Config{},
		},
		{
			name:     "bridge",
			config:   (&qemu.Config{}).BridgeNetworking("br0"),
			expected: "br0",
		},
		{
			name:   "bridge replaced by user networking",
			config: (&qemu.Config{}).BridgeNetworking("br0").UserNetworking(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.MustBuild().Bridge)
		})
	}
}

func TestConfigLastWriteWins(t *testing.T) {
	cfg := (&qemu.Config{}).
		RAM("8G").
		RAM("16G").
		VGA(qemu.VGAQXL).
		VGA(qemu.VGAVirtio).
		UnloadDrivers("amdgpu").
		UnloadDrivers("nvidia").
		LookingGlass(1, 1).
		LookingGlass(1000, 1000)

	plan, err := cfg.Build()
	require.NoError(t, err)

	assertRAM := qemu.ArgumentValuesAssertionFunc("m", assert.Equal)
	assertRAM(t, plan.Args, []string{"16G"})

	assertVGA := qemu.ArgumentValuesAssertionFunc("vga", assert.Equal)
	assertVGA(t, plan.Args, []string{"virtio"})

	assert.Equal(t, []string{"nvidia"}, plan.Drivers)
	require.Len(t, plan.Files, 1)
	assert.Equal(t, 1000, plan.Files[0].UID)
}

func TestConfigListFacetsAppend(t *testing.T) {
	cfg := (&qemu.Config{}).
		PCIDevice("0000:0b:00.0").
		RawDisk("/dev/sdb").
		PCIDevice("0000:0b:00.1").
		VirtioDisk("/dev/nvme0n1")

	plan, err := cfg.Build()
	require.NoError(t, err)

	assertDevices := qemu.ArgumentValuesAssertionFunc("device", assert.Equal)
	assertDevices(t, plan.Args, []string{
		"vfio-pci,host=0000:0b:00.0",
		"vfio-pci,host=0000:0b:00.1",
	})

	assertDrives := qemu.ArgumentValuesAssertionFunc("drive", assert.Equal)
	assertDrives(t, plan.Args, []string{
		"file=/dev/sdb,format=raw,media=disk",
		"file=/dev/nvme0n1,format=raw,if=virtio",
	})

	assert.Equal(t, []string{"0000:0b:00.0", "0000:0b:00.1"}, plan.Devices)
}

func TestConfigLookingGlass(t *testing.T) {
	plan := (&qemu.Config{}).LookingGlass(1000, 1000).MustBuild()

	assertObjects := qemu.ArgumentValuesAssertionFunc("object", assert.Equal)
	assertObjects(t, plan.Args, []string{
		"memory-backend-file,id=ivshmem,share=on,mem-path=/dev/shm/looking-glass,size=32M",
	})

	assertDevices := qemu.ArgumentValuesAssertionFunc("device", assert.Equal)
	assertDevices(t, plan.Args, []string{"ivshmem-plain,memdev=ivshmem,bus=pci.0"})

	assert.Equal(t, []qemu.EphemeralFile{
		{Path: qemu.LookingGlassPath, UID: 1000, GID: 1000, Mode: qemu.LookingGlassMode},
	}, plan.Files)

	plan = (&qemu.Config{}).MustBuild()
	assert.NotContains(t, plan.Args, "-object")
	assert.Empty(t, plan.Files)
}

func TestConfigBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		config *qemu.Config
		err    error
	}{
		{
			name:   "firmware without directory",
			config: (&qemu.Config{}).OVMF("OVMF.fd"),
			err:    qemu.ErrFirmwareDirectory,
		},
		{
			name:   "firmware directory only",
			config: (&qemu.Config{}).OVMF("/usr/share/edk2/x64/"),
			err:    qemu.ErrFirmwareDirectory,
		},
		{
			name:   "duplicate pci device",
			config: (&qemu.Config{}).PCIDevice("0000:01:00.0").PCIDevice("0000:01:00.0"),
			err:    qemu.ErrArgumentCollision,
		},
		{
			name:   "duplicate usb tablet",
			config: (&qemu.Config{}).USBTablet().USBTablet(),
			err:    qemu.ErrArgumentCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.config.Build()
			require.ErrorIs(t, err, tt.err)

			assert.Panics(t, func() { tt.config.MustBuild() })
		})
	}
}

func TestConfigFirmwareDirectory(t *testing.T) {
	plan := (&qemu.Config{}).OVMF("/OVMF.fd").MustBuild()

	assertL := qemu.ArgumentValuesAssertionFunc("L", assert.Equal)
	assertL(t, plan.Args, []string{"/"})
}

func TestConfigClone(t *testing.T) {
	base := (&qemu.Config{}).PCIDevice("0000:01:00.0").IdentityField(qemu.IdentitySystem, "family", "X570 MB")
	clone := base.Clone().PCIDevice("0000:01:00.1").IdentityField(qemu.IdentitySystem, "family", "B550")

	assert.Equal(t, []string{"0000:01:00.0"}, base.MustBuild().Devices)
	assert.Equal(t, []string{"0000:01:00.0", "0000:01:00.1"}, clone.MustBuild().Devices)

	assertSMBIOS := qemu.ArgumentValuesAssertionFunc("smbios", assert.Equal)
	assertSMBIOS(t, base.MustBuild().Args, []string{"type=1,family=X570 MB"})
	assertSMBIOS(t, clone.MustBuild().Args, []string{"type=1,family=B550"})
}
