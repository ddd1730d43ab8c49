// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"context"
	"os"
	"testing/fstest"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/afero"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/aibor/vfiorun/internal/hostcmd"
	"github.com/aibor/vfiorun/internal/sys"
)

type noopSignals struct{}

func (noopSignals) Absorb() (func(), error) {
	return func() {}, nil
}

func testPCIBus() sys.PCIBus {
	return sys.PCIBus{
		FS: fstest.MapFS{
			"0000:01:00.0/vendor": {Data: []byte("0x10de\n")},
			"0000:01:00.1/vendor": {Data: []byte("0x10de\n")},
		},
	}
}

func testHostCPUs() (*unix.CPUSet, error) {
	set := &unix.CPUSet{}
	for i := range 8 {
		set.Set(i)
	}

	return set, nil
}

func testLinkByName(name string) (netlink.Link, error) {
	return &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: name}}, nil
}

func testLookPath(file string) (string, error) {
	return "/usr/bin/" + file, nil
}

func testHost() host {
	return host{
		LookPath:   testLookPath,
		KVMDevice:  os.DevNull,
		PCI:        testPCIBus(),
		HostCPUs:   testHostCPUs,
		LinkByName: testLinkByName,
	}
}

func testHardware() sys.Hardware {
	return sys.Hardware{
		DMI: fstest.MapFS{
			"sys_vendor":   {Data: []byte("ASUSTeK COMPUTER INC.\n")},
			"product_name": {Data: []byte("To Be Filled By O.E.M.\n")},
			"board_vendor": {Data: []byte("ASUSTeK COMPUTER INC.\n")},
			"bios_version": {Data: []byte("1407\n")},
		},
		CPUInfo: func(context.Context) ([]cpu.InfoStat, error) {
			return []cpu.InfoStat{
				{
					VendorID:  "GenuineIntel",
					ModelName: "Intel(R) Core(TM) i9-12900K",
				},
			}, nil
		},
	}
}

type testApp struct {
	*app

	runner *hostcmd.FakeRunner
	fs     afero.Fs
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(failures map[string]string) *testApp {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	a := newApp(IO{
		Stdin:  &bytes.Buffer{},
		Stdout: stdout,
		Stderr: stderr,
	})

	runner := &hostcmd.FakeRunner{Fail: hostcmd.FailOn(failures)}
	fs := afero.NewMemMapFs()

	a.host = testHost()
	a.hardware = testHardware()
	a.runner = runner
	a.fs = fs
	a.signals = noopSignals{}

	return &testApp{
		app:    a,
		runner: runner,
		fs:     fs,
		stdout: stdout,
		stderr: stderr,
	}
}
