// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/afero"

	"github.com/aibor/vfiorun/internal/config"
	"github.com/aibor/vfiorun/internal/device"
	"github.com/aibor/vfiorun/internal/hostcmd"
	"github.com/aibor/vfiorun/internal/lifecycle"
	"github.com/aibor/vfiorun/internal/qemu"
	"github.com/aibor/vfiorun/internal/sys"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// app holds the state shared by all subcommands. Host access is replaceable
// for tests.
type app struct {
	io     IO
	logger *slog.Logger

	host     host
	hardware sys.Hardware
	runner   hostcmd.Runner
	fs       afero.Fs
	signals  lifecycle.Signals

	configPath string
	debug      bool
}

func newApp(cfg IO) *app {
	return &app{
		io:   cfg,
		host: defaultHost(),
	}
}

// profile loads the configuration file and builds the [qemu.Plan] for the
// profile with the given name.
func (a *app) profile(
	ctx context.Context,
	name string,
	window bool,
) (*config.File, *qemu.Plan, error) {
	file, err := config.Load(a.configPath)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	a.logger.Debug("Loaded configuration", slog.String("path", file.Path))

	resolver := config.Resolver{
		Identity: newHostIdentity(ctx, &a.hardware, a.logger),
	}

	cfg, err := file.Profile(name, window, resolver)
	if err != nil {
		return nil, nil, fmt.Errorf("profile %s: %w", name, err)
	}

	plan, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build profile %s: %w", name, err)
	}

	return file, plan, nil
}

func (a *app) launcher(file *config.File) *qemu.Launcher {
	return &qemu.Launcher{
		Binary: file.QEMU,
		Stdin:  a.io.Stdin,
		Stdout: a.io.Stdout,
		Stderr: a.io.Stderr,
		Logger: a.logger,
	}
}

func (a *app) orchestrator(hypervisor lifecycle.Hypervisor) *lifecycle.Orchestrator {
	runner := a.runner
	if runner == nil {
		runner = &hostcmd.ExecRunner{Logger: a.logger}
	}

	return &lifecycle.Orchestrator{
		Drivers:    &device.Modprobe{Runner: runner},
		Devices:    &device.Virsh{Runner: runner},
		Governor:   &device.CPUPower{Runner: runner},
		PAT:        &device.PATDealloc{Runner: runner},
		Hypervisor: hypervisor,
		Fs:         a.fs,
		Signals:    a.signals,
		Logger:     a.logger,
	}
}

type runOptions struct {
	window      bool
	skipAttach  bool
	noPreflight bool
}

func (a *app) run(ctx context.Context, name string, opts runOptions) error {
	file, plan, err := a.profile(ctx, name, opts.window)
	if err != nil {
		return err
	}

	if !opts.noPreflight {
		err := a.host.Validate(plan, file.QEMU, true)
		if err != nil {
			return err
		}
	}

	launcher := a.launcher(file)
	a.logger.Debug("QEMU command",
		slog.String("command", shellquote.Join(launcher.CommandLine(plan)...)))

	result, err := a.orchestrator(launcher).Run(ctx, plan, lifecycle.Options{
		SkipAttach: opts.skipAttach,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	// A failing guest is logged already and does not fail the run.
	if result.ReattachFailed {
		return ErrReattachIncomplete
	}

	return nil
}

func (a *app) detach(ctx context.Context, name string, noPreflight bool) error {
	file, plan, err := a.profile(ctx, name, false)
	if err != nil {
		return err
	}

	if !noPreflight {
		err := a.host.Validate(plan, file.QEMU, false)
		if err != nil {
			return err
		}
	}

	return a.orchestrator(nil).Detach(ctx, plan) //nolint:wrapcheck
}

func (a *app) attach(ctx context.Context, name string) error {
	_, plan, err := a.profile(ctx, name, false)
	if err != nil {
		return err
	}

	return a.orchestrator(nil).Attach(ctx, plan) //nolint:wrapcheck
}

func (a *app) plan(ctx context.Context, name string, window bool) error {
	file, plan, err := a.profile(ctx, name, window)
	if err != nil {
		return err
	}

	return writePlan(a.io.Stdout, a.launcher(file).CommandLine(plan), plan)
}

func (a *app) execute(ctx context.Context, args []string) int {
	a.logger = setupLogging(a.io.Stderr, false)

	args, err := MergedArgs(args)
	if err != nil {
		a.logger.Error(err.Error())
		return exitCodeFailure
	}

	root := newRootCommand(a)
	root.SetArgs(args)

	err = root.ExecuteContext(ctx)
	if err != nil {
		a.logger.Error(err.Error())
		return exitCodeFailure
	}

	return exitCodeSuccess
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	return newApp(cfg).execute(ctx, args)
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return buildInfo.Main.Version
}
