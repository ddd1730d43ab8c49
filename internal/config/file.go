// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/aibor/vfiorun/internal/qemu"
)

const (
	// EnvPrefix is the prefix of environment variables overriding top level
	// keys, like VFIORUN_QEMU.
	EnvPrefix = "VFIORUN"

	fileName = "config"
	dirName  = "vfiorun"
)

// File is the content of a configuration file.
type File struct {
	// QEMU is the QEMU system binary.
	QEMU string `mapstructure:"qemu"`

	Common   Options            `mapstructure:"common"`
	Window   Options            `mapstructure:"window"`
	Profiles map[string]Options `mapstructure:"profiles"`

	// Path of the file the configuration has been read from.
	Path string `mapstructure:"-"`
}

type section struct {
	name    string
	options Options
}

// SearchPaths returns the directories searched for a configuration file if
// no path is given, in order.
func SearchPaths() []string {
	var paths []string

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}

	if configHome != "" {
		paths = append(paths, filepath.Join(configHome, dirName))
	}

	return append(paths, filepath.Join("/etc", dirName))
}

// Load reads the configuration file at the given path. If the path is empty,
// a file named config.{yaml,toml,json} is searched in [SearchPaths].
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("qemu", qemu.DefaultBinary)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)

		for _, dir := range SearchPaths() {
			v.AddConfigPath(dir)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNoConfig, err)
		}

		return nil, fmt.Errorf("read config: %w", err)
	}

	file := &File{}

	err = v.Unmarshal(file)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", v.ConfigFileUsed(), err)
	}

	file.Path = v.ConfigFileUsed()

	return file, nil
}

// ProfileNames returns the names of all profiles, sorted.
func (f *File) ProfileNames() []string {
	return slices.Sorted(maps.Keys(f.Profiles))
}

// Profile returns the [qemu.Config] for the profile with the given name.
// The window section is only applied if window is true.
func (f *File) Profile(name string, window bool, resolver Resolver) (*qemu.Config, error) {
	profile, exists := f.Profiles[strings.ToLower(name)]
	if !exists {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownProfile,
			name, strings.Join(f.ProfileNames(), ", "))
	}

	sections := []section{
		{"common", f.Common},
		{"profiles." + name, profile},
	}

	if window {
		sections = append(sections, section{"window", f.Window})
	}

	cfg := &qemu.Config{}

	for _, section := range sections {
		err := section.options.Apply(cfg, resolver)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", section.name, err)
		}
	}

	return cfg, nil
}
