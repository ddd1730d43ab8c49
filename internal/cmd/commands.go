// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "vfiorun",
		Short: "Run QEMU guests with PCI devices passed through from the host",
		Long: "vfiorun runs QEMU guests defined by profiles in a configuration " +
			"file. Devices of a profile are detached from the host before QEMU " +
			"starts and given back to the host after QEMU exited.",
		Version:       version(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.logger = setupLogging(a.io.Stderr, a.debug)
		},
	}

	root.SetVersionTemplate("Version: {{.Version}}\n")
	root.SetIn(a.io.Stdin)
	root.SetOut(a.io.Stdout)
	root.SetErr(a.io.Stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "",
		"configuration file (default: config.{yaml,toml} in "+
			"$XDG_CONFIG_HOME/vfiorun or /etc/vfiorun)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug output")

	root.AddCommand(
		newRunCommand(a),
		newDetachCommand(a),
		newAttachCommand(a),
		newPlanCommand(a),
	)

	return root
}

func newRunCommand(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <profile>",
		Short: "Detach devices, run QEMU and reattach devices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	addWindowFlag(flags, &opts.window)
	addPreflightFlag(flags, &opts.noPreflight)
	flags.BoolVar(&opts.skipAttach, "skip-attach", false,
		"leave devices detached after QEMU exited")

	return cmd
}

func newDetachCommand(a *app) *cobra.Command {
	var noPreflight bool

	cmd := &cobra.Command{
		Use:   "detach <profile>",
		Short: "Unload drivers and detach devices of a profile from the host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.detach(cmd.Context(), args[0], noPreflight)
		},
	}

	addPreflightFlag(cmd.Flags(), &noPreflight)

	return cmd
}

func newAttachCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <profile>",
		Short: "Reattach devices of a profile to the host and reload drivers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.attach(cmd.Context(), args[0])
		},
	}
}

func newPlanCommand(a *app) *cobra.Command {
	var window bool

	cmd := &cobra.Command{
		Use:   "plan <profile>",
		Short: "Print the QEMU command and lifecycle inputs without running anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.plan(cmd.Context(), args[0], window)
		},
	}

	addWindowFlag(cmd.Flags(), &window)

	return cmd
}

func addWindowFlag(flags *pflag.FlagSet, window *bool) {
	flags.BoolVarP(window, "window", "w", false,
		"apply the window section of the configuration")
}

func addPreflightFlag(flags *pflag.FlagSet, noPreflight *bool) {
	flags.BoolVar(noPreflight, "no-preflight", false,
		"skip validation of the host")
}
