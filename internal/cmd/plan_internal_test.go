// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/vfiorun/internal/qemu"
)

func TestWritePlanQuotesCommand(t *testing.T) {
	tests := []struct {
		arg      string
		expected string
	}{
		{arg: "-nodefaults", expected: "-nodefaults"},
		{arg: "file=/dev/sdd,format=raw,if=virtio", expected: "file=/dev/sdd,format=raw,if=virtio"},
		{arg: "", expected: "''"},
		{arg: "type=0,vendor=Foo,, Inc.", expected: "'type=0,vendor=Foo,, Inc.'"},
		{arg: "it's", expected: `it\'s`},
		{arg: "it's here", expected: `'it'\''s here'`},
		{arg: "$HOME", expected: `\$HOME`},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			var out bytes.Buffer

			err := writePlan(&out, []string{"qemu-system-x86_64", tt.arg}, &qemu.Plan{})
			require.NoError(t, err)

			assert.Equal(t, "command:   qemu-system-x86_64 "+tt.expected+"\n", out.String())
		})
	}
}

func TestWritePlan(t *testing.T) {
	plan := &qemu.Plan{
		Args: []string{"-m", "8G"},
		Env: map[string]string{
			"PIPEWIRE_RUNTIME_DIR": "/run/user/1000",
			"PIPEWIRE_LATENCY":     "512/48000",
		},
		Files: []qemu.EphemeralFile{
			{
				Path: qemu.LookingGlassPath,
				UID:  1000,
				GID:  100,
				Mode: qemu.LookingGlassMode,
			},
		},
		CPUAffinity: "0-3",
		CPUGovernor: "performance",
		Devices:     []string{"0000:01:00.0", "0000:01:00.1"},
		Drivers:     []string{"nvidia_drm", "nvidia"},
		PATClear:    []string{"0000:01:00.0"},
	}

	var out bytes.Buffer

	err := writePlan(&out, []string{"qemu-system-x86_64", "-m", "8G"}, plan)
	require.NoError(t, err)

	expected := "" +
		"command:   qemu-system-x86_64 -m 8G\n" +
		"env:       PIPEWIRE_LATENCY=512/48000\n" +
		"env:       PIPEWIRE_RUNTIME_DIR=/run/user/1000\n" +
		"file:      /dev/shm/looking-glass uid=1000 gid=100 mode=0644\n" +
		"governor:  performance\n" +
		"affinity:  0-3\n" +
		"drivers:   nvidia_drm nvidia\n" +
		"devices:   0000:01:00.0 0000:01:00.1\n" +
		"pat-clear: 0000:01:00.0\n"

	assert.Equal(t, expected, out.String())
}
