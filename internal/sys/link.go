// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// LinkByNameFunc looks up a network link by its name.
type LinkByNameFunc func(name string) (netlink.Link, error)

// CheckBridge checks that a network link with the given name exists and is a
// bridge. If lookup is nil, [netlink.LinkByName] is used.
func CheckBridge(name string, lookup LinkByNameFunc) error {
	if lookup == nil {
		lookup = netlink.LinkByName
	}

	link, err := lookup(name)
	if err != nil {
		return fmt.Errorf("bridge %s not present: %w", name, err)
	}

	if _, ok := link.(*netlink.Bridge); !ok {
		return fmt.Errorf("%w: %s is %s", ErrNotABridge, name, link.Type())
	}

	return nil
}
