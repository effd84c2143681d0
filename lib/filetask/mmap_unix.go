// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package filetask

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// LoadFile maps path read-only. Empty files are returned without a
// mapping, since mmap rejects zero lengths.
func LoadFile(path string) (*Content, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return nil, fmt.Errorf("stating %s: %w", path, err)
	}
	if stat.Mode&unix.S_IFMT != unix.S_IFREG {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if stat.Size == 0 {
		return &Content{Data: []byte{}}, nil
	}

	// The mapping stays valid after the descriptor is closed.
	data, err := unix.Mmap(fd, 0, int(stat.Size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("memory-mapping %s: %w", path, err)
	}
	return &Content{
		Data: data,
		release: func() error {
			if err := unix.Munmap(data); err != nil {
				return fmt.Errorf("unmapping %s: %w", path, err)
			}
			return nil
		},
	}, nil
}
