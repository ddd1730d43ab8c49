// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hostcmd runs short-lived external programs on the host. Each
// invocation is a single request/response: the exit code decides success and
// the program's standard error is the failure reason.
//
// All device control collaborators use the [Runner] interface, so they can be
// tested with a [FakeRunner] instead of touching host state.
package hostcmd
