// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hostcmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

const invalidStderr = "<conversion error: stderr was not valid utf8>"

// Runner runs an external program with the given arguments.
//
// It returns nil if the program exits with code 0. Any other outcome is
// returned as [*InvocationError].
type Runner interface {
	Run(ctx context.Context, program string, args ...string) error
}

// ExecRunner is a [Runner] that spawns the program as child process.
type ExecRunner struct {
	// Logger receives the command line and the program's stdout on debug
	// level. If nil, [slog.Default] is used.
	Logger *slog.Logger
}

// Run implements [Runner].
func (r *ExecRunner) Run(
	ctx context.Context,
	program string,
	args ...string,
) error {
	logger := r.logger().With(slog.String("program", program))

	cmd := exec.CommandContext(ctx, program, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return newInvocationError(program, args, err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return newInvocationError(program, args, err)
	}

	logger.Debug("Running command", slog.String("command", cmd.String()))

	err = cmd.Start()
	if err != nil {
		return newInvocationError(program, args, err)
	}

	var stderrBuf bytes.Buffer

	// Both pipes must be drained completely before [exec.Cmd.Wait] is called.
	outputGroup := errgroup.Group{}
	outputGroup.Go(func() error {
		return logLines(logger, stdout)
	})
	outputGroup.Go(func() error {
		_, err := io.Copy(&stderrBuf, stderr)
		return err //nolint:wrapcheck
	})

	readErr := outputGroup.Wait()

	err = cmd.Wait()
	if err == nil {
		if readErr != nil {
			logger.Debug("Reading command output failed",
				slog.Any("error", readErr))
		}

		return nil
	}

	invocationErr := newInvocationError(program, args, err)
	invocationErr.Stderr = stderrText(stderrBuf.Bytes())

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		invocationErr.ExitCode = exitErr.ExitCode()
	}

	return invocationErr
}

func (r *ExecRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}

	return r.Logger
}

func logLines(logger *slog.Logger, reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		logger.Debug("Command output", slog.String("line", scanner.Text()))
	}

	return scanner.Err() //nolint:wrapcheck
}

func stderrText(stderr []byte) string {
	if !utf8.Valid(stderr) {
		return invalidStderr
	}

	return strings.TrimSpace(string(stderr))
}
