// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hostcmd

import (
	"slices"
)

// InvocationError is returned by a [Runner] if a program could not be spawned
// or did not exit with code 0.
type InvocationError struct {
	Program string
	Args    []string

	// ExitCode of the program. It is -1 if the program did not exit on its
	// own or could not be spawned at all.
	ExitCode int

	// Stderr is the trimmed standard error output of the program.
	Stderr string

	// Err is the underlying error, if any.
	Err error
}

func newInvocationError(program string, args []string, err error) *InvocationError {
	return &InvocationError{
		Program:  program,
		Args:     slices.Clone(args),
		ExitCode: -1,
		Err:      err,
	}
}

// Error implements the [error] interface.
//
// The failure reason is the program's stderr. If the program did not write
// anything, the underlying error is used instead.
func (e *InvocationError) Error() string {
	reason := e.Stderr
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}

	return e.Program + " invocation failure: " + reason
}

// Is implements the [errors.Is] interface.
func (*InvocationError) Is(other error) bool {
	_, ok := other.(*InvocationError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *InvocationError) Unwrap() error {
	return e.Err
}
