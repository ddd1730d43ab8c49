// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package device provides the host device control collaborators: kernel
// driver loading, PCI device detaching and reattaching, CPU frequency
// governor and PAT entry clearing. Each of them is a thin wrapper around one
// external program invoked via a [hostcmd.Runner].
package device
