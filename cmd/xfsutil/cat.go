package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vorteil/xfsread/pkg/xfs"
)

const catChunkSize = 1 << 20

var catCmd = &cobra.Command{
	Use:   "cat IMAGE PATH",
	Short: "Print a regular file's contents",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, closeFn, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		ino, fpath, err := resolvePath(v, args)
		if err != nil {
			return err
		}
		if !ino.IsRegular() {
			return fmt.Errorf("%s: not a regular file", fpath)
		}

		var offset int64
		for uint64(offset) < ino.Size {
			length := catChunkSize
			if remaining := ino.Size - uint64(offset); uint64(length) > remaining {
				length = int(remaining)
			}
			buf, err := xfs.ReadFileAt(v, ino, offset, length)
			if err != nil {
				return err
			}
			if _, err := os.Stdout.Write(buf); err != nil {
				return err
			}
			offset += int64(length)
		}
		return nil
	},
}
