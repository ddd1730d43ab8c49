// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/vfiorun/internal/config"
	"github.com/aibor/vfiorun/internal/qemu"
)

type noHostValues struct{}

func (noHostValues) IdentityValue(qemu.IdentityCategory, string) (string, bool) {
	return "", false
}

func intPtr(i int) *int {
	return &i
}

func TestOptionsApplyInvalid(t *testing.T) {
	tests := []struct {
		name    string
		options config.Options
	}{
		{name: "vga", options: config.Options{VGA: "cirrus"}},
		{name: "window", options: config.Options{Window: "sdl"}},
		{name: "audio backend", options: config.Options{Audio: config.AudioOptions{Backend: "alsa"}}},
		{name: "audio frontend", options: config.Options{Audio: config.AudioOptions{Frontend: "ac97"}}},
		{name: "hda type", options: config.Options{Audio: config.AudioOptions{Frontend: "intel-hda", HDAType: "surround"}}},
		{name: "network mode", options: config.Options{Network: config.NetworkOptions{Mode: "tap"}}},
		{name: "bridge without name", options: config.Options{Network: config.NetworkOptions{Mode: "bridge"}}},
		{name: "disk type", options: config.Options{Disks: []config.DiskOptions{{Path: "/dev/sda", Type: "scsi"}}}},
		{name: "usb device", options: config.Options{USB: []config.USBOptions{{Device: "mouse"}}}},
		{name: "usb vendor", options: config.Options{USB: []config.USBOptions{{Vendor: "xyz", Product: "1"}}}},
		{name: "usb product", options: config.Options{USB: []config.USBOptions{{Vendor: "046d", Product: "10000"}}}},
		{name: "looking glass without owner", options: config.Options{LookingGlass: &config.LookingGlassOptions{}}},
		{name: "looking glass without group", options: config.Options{LookingGlass: &config.LookingGlassOptions{UID: intPtr(1000)}}},
		{name: "looking glass unknown user", options: config.Options{LookingGlass: &config.LookingGlassOptions{User: "bob"}}},
		{
			name: "identity category",
			options: config.Options{Identity: &config.IdentityOptions{
				Fields: map[string]map[string]string{"chassis": {"serial": "1"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Apply(&qemu.Config{}, testResolver())
			assert.ErrorIs(t, err, config.ErrInvalidOption)
		})
	}
}

func TestOptionsApplyLookingGlassUser(t *testing.T) {
	options := config.Options{
		LookingGlass: &config.LookingGlassOptions{User: "alice"},
	}

	cfg := &qemu.Config{}
	require.NoError(t, options.Apply(cfg, testResolver()))

	plan := cfg.MustBuild()
	require.Len(t, plan.Files, 1)
	assert.Equal(t, 1000, plan.Files[0].UID)
	assert.Equal(t, 1000, plan.Files[0].GID, "primary group of the user")
}

func TestOptionsApplyEmptyKeepsValues(t *testing.T) {
	cfg := (&qemu.Config{}).RAM("16G").VGA(qemu.VGAStd)

	require.NoError(t, (&config.Options{}).Apply(cfg, testResolver()))

	plan := cfg.MustBuild()

	assertRAM := qemu.ArgumentValuesAssertionFunc("m", assert.Equal)
	assertRAM(t, plan.Args, []string{"16G"})

	assertVGA := qemu.ArgumentValuesAssertionFunc("vga", assert.Equal)
	assertVGA(t, plan.Args, []string{"std"})
}

func TestOptionsApplyHostIdentityWithoutSource(t *testing.T) {
	options := config.Options{Identity: &config.IdentityOptions{Host: true}}

	cfg := &qemu.Config{}
	require.NoError(t, options.Apply(cfg, config.Resolver{}))

	assert.Equal(t, (&qemu.Config{}).HostIdentity(noHostValues{}).MustBuild(), cfg.MustBuild())
}
