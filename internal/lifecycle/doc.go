// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package lifecycle hands host devices over to a QEMU guest and back.
//
// A run is a linear sequence of stages: set the CPU governor, create the
// ephemeral files, absorb interrupts, detach drivers and devices, run QEMU
// and reattach everything. Everything that is detached is recorded in a
// journal. If detaching fails halfway, the journal is replayed through the
// compensating actions, so no device is left unbound and no driver is left
// unloaded.
//
// Failures are logged with full detail where they are detected. Callers only
// get the aggregate outcome of a stage.
package lifecycle
