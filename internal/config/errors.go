// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "errors"

var (
	// ErrNoConfig is returned if no configuration file is found.
	ErrNoConfig = errors.New("no configuration file found")

	// ErrUnknownProfile is returned if a profile is not defined.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrInvalidOption is returned if an option has an invalid value.
	ErrInvalidOption = errors.New("invalid option")
)
