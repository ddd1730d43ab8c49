// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
)

const (
	// DefaultBinary is the QEMU binary used if none is set.
	DefaultBinary = "qemu-system-x86_64"

	// TasksetBinary is the CPU pinning wrapper.
	TasksetBinary = "taskset"
)

// Launcher runs QEMU for a [Plan].
//
// The QEMU monitor is multiplexed on stdio, so the standard streams of the
// current process are passed to QEMU by default.
type Launcher struct {
	// Binary is the QEMU system binary. Default is [DefaultBinary].
	Binary string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// CommandLine returns the complete command line for the [Plan]. If a CPU
// affinity is set, QEMU is wrapped by taskset.
func (l *Launcher) CommandLine(plan *Plan) []string {
	binary := valueOr(l.Binary, DefaultBinary)

	var cmdline []string
	if plan.CPUAffinity != "" {
		cmdline = append(cmdline, TasksetBinary, "--cpu-list", plan.CPUAffinity)
	}

	cmdline = append(cmdline, binary)

	return append(cmdline, plan.Args...)
}

// Cmd returns the [exec.Cmd] for the [Plan]. The environment of the current
// process is extended by [Plan.Env].
func (l *Launcher) Cmd(ctx context.Context, plan *Plan) *exec.Cmd {
	cmdline := l.CommandLine(plan)

	cmd := exec.CommandContext(ctx, cmdline[0], cmdline[1:]...)
	cmd.Env = slices.Concat(os.Environ(), plan.Environ())
	cmd.Stdin = readerOr(l.Stdin, os.Stdin)
	cmd.Stdout = writerOr(l.Stdout, os.Stdout)
	cmd.Stderr = writerOr(l.Stderr, os.Stderr)

	return cmd
}

// Run runs QEMU and blocks until it exits.
//
// It returns a [*CommandError] if QEMU could not be started or did not exit
// with code 0.
func (l *Launcher) Run(ctx context.Context, plan *Plan) error {
	cmd := l.Cmd(ctx, plan)

	l.logger().Debug("Running qemu", slog.String("command", cmd.String()))

	err := cmd.Run()
	if err == nil {
		return nil
	}

	cmdErr := &CommandError{Err: err, ExitCode: -1}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}

	return cmdErr
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}

	return l.Logger
}

func readerOr(r io.Reader, fallback io.Reader) io.Reader {
	if r == nil {
		return fallback
	}

	return r
}

func writerOr(w io.Writer, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}

	return w
}
