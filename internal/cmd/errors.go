// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrReattachIncomplete is returned if at least one device or driver
	// could not be given back to the host after QEMU exited.
	ErrReattachIncomplete = errors.New("reattach incomplete")

	// ErrInvalidEnvArgs is returned if VFIORUN_ARGS can not be split into
	// arguments.
	ErrInvalidEnvArgs = errors.New("invalid " + envArgsVar)
)

// PreflightError wraps errors found while validating the host before any
// lifecycle stage runs.
type PreflightError struct {
	Check string
	Err   error
}

func (e *PreflightError) Error() string {
	if e.Err == nil {
		return "preflight " + e.Check
	}

	return fmt.Sprintf("preflight %s: %v", e.Check, e.Err)
}

func (e *PreflightError) Is(other error) bool {
	_, ok := other.(*PreflightError)
	return ok
}

func (e *PreflightError) Unwrap() error {
	return e.Err
}
