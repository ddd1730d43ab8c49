// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-shellwords"
)

const envArgsVar = "VFIORUN_ARGS"

// EnvArgs returns vfiorun arguments from the environment.
//
// The value is split like a shell would do, so quoted arguments may contain
// spaces. Environment variables are not expanded.
func EnvArgs() ([]string, error) {
	args, err := shellwords.Parse(os.Getenv(envArgsVar))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnvArgs, err)
	}

	return args, nil
}

// MergedArgs returns the given arguments prepended by the arguments from
// [EnvArgs].
func MergedArgs(args []string) ([]string, error) {
	envArgs, err := EnvArgs()
	if err != nil {
		return nil, err
	}

	return append(envArgs, args...), nil
}
