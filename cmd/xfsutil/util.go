/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */
package main

import (
	"fmt"
	"strings"

	"code.cloudfoundry.org/bytefmt"

	"github.com/vorteil/xfsread/pkg/xfs"
)

// NumbersMode determines which format PrintableSize renders sizes in.
var NumbersMode int

// SetNumbersMode parses s and sets NumbersMode accordingly.
func SetNumbersMode(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "short":
		NumbersMode = 0
	case "dec", "decimal":
		NumbersMode = 1
	case "hex", "hexadecimal":
		NumbersMode = 2
	default:
		return fmt.Errorf("numbers mode must be one of 'dec', 'hex', or 'short'")
	}
	return nil
}

// PrintableSize wraps a byte count to alter its string formatting behaviour
// according to the global NumbersMode.
type PrintableSize uint64

func (c PrintableSize) String() string {
	switch NumbersMode {
	case 0:
		return bytefmt.ByteSize(uint64(c))
	case 1:
		return fmt.Sprintf("%d", uint64(c))
	case 2:
		return fmt.Sprintf("%#x", uint64(c))
	default:
		panic("invalid NumbersMode")
	}
}

// openVolume opens path read-only and mounts it as an xfs.Volume. The
// returned close function must be called once the caller is done with v.
func openVolume(path string) (v *xfs.Volume, closeFn func() error, err error) {
	dev, f, err := xfs.OpenFileDevice(path)
	if err != nil {
		return nil, nil, err
	}
	v, err = xfs.Mount(dev)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return v, f.Close, nil
}

// resolvePath resolves the optional second positional argument (defaulting
// to the volume root) to an inode.
func resolvePath(v *xfs.Volume, args []string) (*xfs.Inode, string, error) {
	fpath := "/"
	if len(args) > 1 {
		fpath = args[1]
	}
	ino, err := xfs.LookupPath(v, fpath)
	if err != nil {
		return nil, fpath, err
	}
	return ino, fpath, nil
}
