// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for vfiorun. It handles
// flag parsing and host validation, and maps the outcome of a run to an exit
// code.
package cmd
