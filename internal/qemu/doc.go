// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu provides the launch configuration model for a QEMU virtual
// machine with device passthrough.
//
// A [Config] accumulates the individual facets of the machine. Scalar facets
// are replaced by later calls, list facets are appended. [Config.Build]
// compiles them into an immutable [Plan]: the QEMU argument vector, the
// environment for the QEMU process, the ephemeral files that must exist
// before QEMU starts and the inputs for the device lifecycle.
//
// [Launcher] runs the QEMU binary for a [Plan], optionally pinned to a set of
// host CPUs with taskset.
package qemu
