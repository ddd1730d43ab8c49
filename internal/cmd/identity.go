// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aibor/vfiorun/internal/qemu"
	"github.com/aibor/vfiorun/internal/sys"
)

// DMI attribute names per identity category and field.
var dmiAttributes = map[qemu.IdentityCategory]map[string]string{ //nolint:gochecknoglobals
	qemu.IdentityBIOS: {
		"vendor":  "bios_vendor",
		"version": "bios_version",
		"date":    "bios_date",
		"release": "bios_release",
	},
	qemu.IdentitySystem: {
		"manufacturer": "sys_vendor",
		"product":      "product_name",
		"version":      "product_version",
		"serial":       "product_serial",
		"uuid":         "product_uuid",
		"sku":          "product_sku",
		"family":       "product_family",
	},
	qemu.IdentityBaseboard: {
		"manufacturer": "board_vendor",
		"product":      "board_name",
		"version":      "board_version",
		"serial":       "board_serial",
		"asset":        "board_asset_tag",
	},
}

// hostIdentity is a [qemu.IdentitySource] backed by the host hardware.
//
// The host is only read on first use.
type hostIdentity struct {
	hardware  *sys.Hardware
	processor sys.Processor
	init      func()
}

func newHostIdentity(
	ctx context.Context,
	hardware *sys.Hardware,
	logger *slog.Logger,
) *hostIdentity {
	identity := &hostIdentity{hardware: hardware}

	identity.init = sync.OnceFunc(func() {
		err := hardware.DMIAvailable()
		if err != nil {
			logger.Warn("Host DMI attributes not available, using defaults",
				slog.Any("error", err))
		}

		identity.processor, err = hardware.Processor(ctx)
		if err != nil {
			logger.Warn("Host processor identity not available, using defaults",
				slog.Any("error", err))
		}
	})

	return identity
}

// IdentityValue implements [qemu.IdentitySource].
func (i *hostIdentity) IdentityValue(
	category qemu.IdentityCategory,
	key string,
) (string, bool) {
	i.init()

	if category == qemu.IdentityProcessor {
		return i.processorValue(key)
	}

	attribute, exists := dmiAttributes[category][key]
	if !exists {
		return "", false
	}

	return i.hardware.DMIAttribute(attribute)
}

func (i *hostIdentity) processorValue(key string) (string, bool) {
	var value string

	switch key {
	case "version":
		value = i.processor.Version
	case "manufacturer":
		value = i.processor.Manufacturer
	}

	return value, value != ""
}
