// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/afero"

	"github.com/aibor/vfiorun/internal/qemu"
)

// createFile creates the ephemeral file fresh. A stale file at the path is
// removed first. Creation fails if the path exists again by then.
func createFile(fsys afero.Fs, file qemu.EphemeralFile) error {
	err := fsys.Remove(file.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale file: %w", err)
	}

	f, err := fsys.OpenFile(file.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, file.Mode)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	err = fsys.Chown(file.Path, file.UID, file.GID)
	if err != nil {
		return fmt.Errorf("chown: %w", err)
	}

	err = fsys.Chmod(file.Path, file.Mode)
	if err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	return nil
}
