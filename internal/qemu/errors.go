// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "errors"

var (
	// ErrArgumentCollision is returned if two [Argument]s are considered equal.
	ErrArgumentCollision = errors.New("colliding args")

	// ErrFirmwareDirectory is returned if the directory of the firmware file
	// can not be determined from its path.
	ErrFirmwareDirectory = errors.New("firmware path has no parent directory")

	// ErrEnvConflict is returned if an environment variable is set twice.
	ErrEnvConflict = errors.New("conflicting environment variable")

	// ErrUnknownIdentityCategory is returned if an [IdentityCategory] name
	// is not known.
	ErrUnknownIdentityCategory = errors.New("unknown identity category")
)

// CommandError wraps any error occurred during QEMU execution.
type CommandError struct {
	Err error

	// ExitCode of the QEMU process. It is -1 if the process could not be
	// started or was terminated by a signal.
	ExitCode int
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	return "qemu: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}
