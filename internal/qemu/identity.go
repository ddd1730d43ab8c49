// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// IdentityCategory is an SMBIOS structure type presented to the guest.
type IdentityCategory int

const (
	IdentityBIOS         IdentityCategory = 0
	IdentitySystem       IdentityCategory = 1
	IdentityBaseboard    IdentityCategory = 2
	IdentityEnclosure    IdentityCategory = 3
	IdentityProcessor    IdentityCategory = 4
	IdentityOEMStrings   IdentityCategory = 11
	IdentityMemoryDevice IdentityCategory = 17
)

// IdentityCategories lists all categories in SMBIOS type order.
var IdentityCategories = []IdentityCategory{ //nolint:gochecknoglobals
	IdentityBIOS,
	IdentitySystem,
	IdentityBaseboard,
	IdentityEnclosure,
	IdentityProcessor,
	IdentityOEMStrings,
	IdentityMemoryDevice,
}

var identityCategoryNames = map[IdentityCategory]string{ //nolint:gochecknoglobals
	IdentityBIOS:         "bios",
	IdentitySystem:       "system",
	IdentityBaseboard:    "baseboard",
	IdentityEnclosure:    "enclosure",
	IdentityProcessor:    "processor",
	IdentityOEMStrings:   "oem-strings",
	IdentityMemoryDevice: "memory-device",
}

// String implements [fmt.Stringer].
func (c IdentityCategory) String() string {
	name, exists := identityCategoryNames[c]
	if !exists {
		return "type" + strconv.Itoa(int(c))
	}

	return name
}

// ParseIdentityCategory returns the category with the given name as returned
// by [IdentityCategory.String].
func ParseIdentityCategory(name string) (IdentityCategory, error) {
	for category, n := range identityCategoryNames {
		if n == name {
			return category, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownIdentityCategory, name)
}

// IdentityField is a single SMBIOS field.
type IdentityField struct {
	Key   string
	Value string
}

// Default values for all identity fields. They describe a common consumer
// mainboard, so the guest does not look like a virtual machine.
var defaultIdentity = map[IdentityCategory][]IdentityField{ //nolint:gochecknoglobals
	IdentityBIOS: {
		{"version", "F31o"},
		{"vendor", "American Megatrends International, LLC."},
		{"uefi", "on"},
		{"release", "5.17"},
		{"date", "12/03/2020"},
	},
	IdentitySystem: {
		{"version", "-CF"},
		{"sku", "Default string"},
		{"product", "X570 AORUS ULTRA"},
		{"manufacturer", "Gigabyte Technology Co., Ltd."},
		{"uuid", "3137f3a5-8fa3-41a4-87f5-aadd00ab066f"},
		{"serial", "Default string"},
		{"family", "X570 MB"},
	},
	IdentityBaseboard: {
		{"asset", "Default string"},
		{"version", "Default string"},
		{"product", "X570 AORUS ULTRA"},
		{"location", "Default string"},
		{"manufacturer", "Gigabyte Technology Co., Ltd."},
		{"serial", "Default string"},
	},
	IdentityEnclosure: {
		{"asset", "Default string"},
		{"version", "Default string"},
		{"sku", "Default string"},
		{"manufacturer", "Default string"},
		{"serial", "Default string"},
	},
	IdentityProcessor: {
		{"asset", "Unknown"},
		{"version", "AMD Ryzen 9 5950X 16-Core Processor"},
		{"part", "Zen"},
		{"manufacturer", "Advanced Micro Devices, Inc."},
		{"serial", "Unknown"},
		{"sock_pfx", "AM4"},
	},
	IdentityOEMStrings: {
		{"value", "Default string"},
	},
	IdentityMemoryDevice: {
		{"bank", "Bank 0"},
		{"asset", "Not Specified"},
		{"part", "OV_8GR1"},
		{"manufacturer", "OEM_VENDOR"},
		{"speed", "3200"},
		{"serial", "OEM33162"},
		{"loc_pfx", "DIMM 0"},
	},
}

// IdentitySource provides identity values of the host hardware.
type IdentitySource interface {
	// IdentityValue returns the host's value for the given field, if
	// available.
	IdentityValue(category IdentityCategory, key string) (string, bool)
}

// Identity is the hardware identity presented to the guest by SMBIOS tables.
//
// Fields keep the order they are first set in. The zero value is an empty
// identity.
type Identity struct {
	records map[IdentityCategory][]IdentityField
}

// DefaultIdentity returns an [Identity] with all fields set to their default
// values.
func DefaultIdentity() *Identity {
	identity := &Identity{}

	for _, category := range IdentityCategories {
		for _, field := range defaultIdentity[category] {
			identity.Set(category, field.Key, field.Value)
		}
	}

	return identity
}

// HostIdentity returns the [DefaultIdentity] with every field the source
// provides replaced by the host's value.
func HostIdentity(source IdentitySource) *Identity {
	identity := DefaultIdentity()

	for _, category := range IdentityCategories {
		for idx, field := range identity.records[category] {
			value, exists := source.IdentityValue(category, field.Key)
			if exists {
				identity.records[category][idx].Value = value
			}
		}
	}

	return identity
}

// Set sets the field with the given key. An existing field keeps its
// position, new fields are appended to the category.
func (i *Identity) Set(category IdentityCategory, key, value string) *Identity {
	if i.records == nil {
		i.records = make(map[IdentityCategory][]IdentityField)
	}

	fields := i.records[category]

	idx := slices.IndexFunc(fields, func(f IdentityField) bool {
		return f.Key == key
	})
	if idx == -1 {
		i.records[category] = append(fields, IdentityField{key, value})
	} else {
		fields[idx].Value = value
	}

	return i
}

// Get returns the value of the field with the given key.
func (i *Identity) Get(category IdentityCategory, key string) (string, bool) {
	for _, field := range i.records[category] {
		if field.Key == key {
			return field.Value, true
		}
	}

	return "", false
}

// Fields returns a copy of all fields of the given category.
func (i *Identity) Fields(category IdentityCategory) []IdentityField {
	return slices.Clone(i.records[category])
}

// merge sets all fields of other, category by category in type order.
func (i *Identity) merge(other *Identity) {
	categories := slices.Sorted(maps.Keys(other.records))

	for _, category := range categories {
		for _, field := range other.records[category] {
			i.Set(category, field.Key, field.Value)
		}
	}
}

func (i *Identity) clone() *Identity {
	c := &Identity{
		records: make(map[IdentityCategory][]IdentityField, len(i.records)),
	}

	for category, fields := range i.records {
		c.records[category] = slices.Clone(fields)
	}

	return c
}

// arguments returns one "-smbios" argument per category in type order.
// Categories without fields are omitted. Custom categories not in
// [IdentityCategories] are appended in type order as well.
func (i *Identity) arguments() []Argument {
	categories := make([]IdentityCategory, 0, len(i.records))
	for category := range i.records {
		categories = append(categories, category)
	}

	slices.Sort(categories)

	args := make([]Argument, 0, len(categories))

	for _, category := range categories {
		fields := i.records[category]
		if len(fields) == 0 {
			continue
		}

		values := make([]string, 0, len(fields)+1)
		values = append(values, "type="+strconv.Itoa(int(category)))

		for _, field := range fields {
			values = append(values, field.Key+"="+escapeValue(field.Value))
		}

		args = append(args, RepeatableArg("smbios", values...))
	}

	return args
}

// escapeValue escapes commas in QEMU option values.
func escapeValue(value string) string {
	return strings.ReplaceAll(value, ",", ",,")
}
