// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"strings"

	"github.com/stretchr/testify/assert"
)

// ArgumentValuesAssertionFunc returns an [assert.ComparisonAssertionFunc]
// that can be used to assert the values of all arguments with the given name
// in a compiled argument vector like [Plan.Args].
func ArgumentValuesAssertionFunc(
	name string,
	assertion assert.ComparisonAssertionFunc,
) assert.ComparisonAssertionFunc {
	return func(t assert.TestingT, arg1, arg2 any, arg3 ...any) bool {
		args, ok := arg1.([]string)
		if !assert.True(t, ok, "first argument should be []string") {
			return false
		}

		var values []string

		for idx, arg := range args {
			if arg != "-"+name {
				continue
			}

			if idx+1 < len(args) && !strings.HasPrefix(args[idx+1], "-") {
				values = append(values, args[idx+1])
			}
		}

		if values == nil {
			return assert.Fail(t, "Argument not found", name)
		}

		return assertion(t, values, arg2, arg3...)
	}
}
