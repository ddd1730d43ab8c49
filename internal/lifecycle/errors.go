// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import "errors"

var (
	// ErrGovernor is returned if the CPU governor could not be set.
	ErrGovernor = errors.New("setting cpu governor failed")

	// ErrFiles is returned if an ephemeral file could not be created.
	ErrFiles = errors.New("creating ephemeral files failed")

	// ErrDetach is returned if drivers or devices could not be detached. All
	// already detached resources have been reattached when it is returned.
	ErrDetach = errors.New("detaching devices failed")

	// ErrReattach is returned if at least one device or driver could not be
	// reattached.
	ErrReattach = errors.New("reattaching devices had errors")
)

// Stage is a stage of a run.
type Stage string

const (
	StageGovernor Stage = "governor"
	StageFiles    Stage = "files"
	StageDetach   Stage = "detach"
	StageReattach Stage = "reattach"
)

// StageError is returned by a failed stage. It wraps the stage's sentinel
// error, like [ErrDetach], and the error that caused the stage to fail.
type StageError struct {
	Stage Stage
	Err   error
}

var stageErrors = map[Stage]error{ //nolint:gochecknoglobals
	StageGovernor: ErrGovernor,
	StageFiles:    ErrFiles,
	StageDetach:   ErrDetach,
	StageReattach: ErrReattach,
}

// Error implements the [error] interface.
func (e *StageError) Error() string {
	msg := "stage " + string(e.Stage)
	if sentinel, exists := stageErrors[e.Stage]; exists {
		msg = sentinel.Error()
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (e *StageError) Is(other error) bool {
	if _, ok := other.(*StageError); ok {
		return true
	}

	return stageErrors[e.Stage] == other
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *StageError) Unwrap() error {
	return e.Err
}
