// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads virtual machine profiles from a configuration file.
//
// The file has a "common" section applied to every profile, a "window"
// section applied only if a window is requested and a "profiles" section
// with named profiles. Sections are applied in the order common, profile,
// window. Scalar options of later sections replace earlier ones, list
// options are appended.
//
// Profile names are case insensitive.
package config
