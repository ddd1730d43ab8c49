// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hostcmd

import (
	"context"
	"slices"
	"strings"
)

// Invocation is a single call recorded by [FakeRunner].
type Invocation struct {
	Program string
	Args    []string
}

// String returns the invocation as space separated command line.
func (i Invocation) String() string {
	return strings.Join(append([]string{i.Program}, i.Args...), " ")
}

// FakeRunner is a [Runner] that records all invocations instead of running
// anything.
type FakeRunner struct {
	Invocations []Invocation

	// Fail decides the outcome of an invocation. A non-empty return value
	// fails the invocation with that text as stderr. If nil, all invocations
	// succeed.
	Fail func(inv Invocation) string
}

// Run implements [Runner].
func (r *FakeRunner) Run(_ context.Context, program string, args ...string) error {
	inv := Invocation{
		Program: program,
		Args:    slices.Clone(args),
	}
	r.Invocations = append(r.Invocations, inv)

	if r.Fail == nil {
		return nil
	}

	stderr := r.Fail(inv)
	if stderr == "" {
		return nil
	}

	return &InvocationError{
		Program:  program,
		Args:     inv.Args,
		ExitCode: 1,
		Stderr:   stderr,
	}
}

// Commands returns all recorded invocations as command line strings.
func (r *FakeRunner) Commands() []string {
	commands := make([]string, 0, len(r.Invocations))
	for _, inv := range r.Invocations {
		commands = append(commands, inv.String())
	}

	return commands
}

// FailOn returns a function usable as [FakeRunner.Fail] that fails every
// invocation whose command line is a key in the given map. The value is used
// as stderr.
func FailOn(failures map[string]string) func(Invocation) string {
	return func(inv Invocation) string {
		return failures[inv.String()]
	}
}
