// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// maxCPUs is the number of CPUs a [unix.CPUSet] can hold.
const maxCPUs = len(unix.CPUSet{}) * bits.UintSize

// ParseCPUList parses a CPU list as understood by taskset(1), like
// "0-5,8-13", "0-15:2" or "3". The returned CPUs are in list order. CPUs
// beyond what a [unix.CPUSet] can hold are rejected.
func ParseCPUList(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidCPUList)
	}

	var cpus []int

	for part := range strings.SplitSeq(list, ",") {
		from, to, stride, err := parseCPURange(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCPUList, list)
		}

		for cpu := from; cpu <= to; cpu += stride {
			cpus = append(cpus, cpu)
		}
	}

	return cpus, nil
}

// parseCPURange parses a single list item "N", "N-M" or "N-M:S".
func parseCPURange(part string) (int, int, int, error) {
	bounds, strideStr, hasStride := strings.Cut(part, ":")
	first, last, isRange := strings.Cut(bounds, "-")

	if hasStride && !isRange {
		return 0, 0, 0, strconv.ErrSyntax
	}

	from, err := parseCPU(first)
	if err != nil {
		return 0, 0, 0, err
	}

	to, stride := from, 1

	if isRange {
		to, err = parseCPU(last)
		if err != nil {
			return 0, 0, 0, err
		}

		if to < from {
			return 0, 0, 0, strconv.ErrRange
		}
	}

	if hasStride {
		stride, err = strconv.Atoi(strideStr)
		if err != nil {
			return 0, 0, 0, err //nolint:wrapcheck
		}

		if stride < 1 {
			return 0, 0, 0, strconv.ErrRange
		}
	}

	return from, to, stride, nil
}

func parseCPU(s string) (int, error) {
	cpu, err := strconv.Atoi(s)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	if cpu < 0 || cpu >= maxCPUs {
		return 0, strconv.ErrRange
	}

	return cpu, nil
}

// HostCPUs returns the set of CPUs the current process may be scheduled on.
func HostCPUs() (*unix.CPUSet, error) {
	var set unix.CPUSet

	err := unix.SchedGetaffinity(0, &set)
	if err != nil {
		return nil, fmt.Errorf("get affinity: %w", err)
	}

	return &set, nil
}

// CheckCPUList checks that the given CPU list is well formed and all its
// CPUs are in the given set.
func CheckCPUList(list string, available *unix.CPUSet) error {
	cpus, err := ParseCPUList(list)
	if err != nil {
		return err
	}

	for _, cpu := range cpus {
		if !available.IsSet(cpu) {
			return fmt.Errorf("%w: %d", ErrCPUNotAvailable, cpu)
		}
	}

	return nil
}
