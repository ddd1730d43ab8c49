// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Vfiorun runs QEMU guests with PCI devices passed through from the host.
package main

import (
	"context"
	"os"

	"github.com/aibor/vfiorun/internal/cmd"
)

func main() {
	// Interrupts are not bound to the context. While QEMU runs, they are
	// absorbed so the handover of devices back to the host is never cut
	// short.
	os.Exit(cmd.Run(context.Background(), os.Args[1:], cmd.IO{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}
