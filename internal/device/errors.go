// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package device

import "errors"

// ErrInvalidAddress is returned if a PCI address is malformed.
var ErrInvalidAddress = errors.New("invalid pci address")
