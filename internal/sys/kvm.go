// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"
)

// KVMDevice is the KVM device node.
const KVMDevice = "/dev/kvm"

// CheckKVM checks if the KVM device at the given path can be opened for
// writing.
func CheckKVM(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKVMNotAvailable, err)
	}

	_ = f.Close()

	return nil
}
