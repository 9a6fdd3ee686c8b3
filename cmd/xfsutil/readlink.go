package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vorteil/xfsread/pkg/xfs"
)

var readlinkCmd = &cobra.Command{
	Use:   "readlink IMAGE PATH",
	Short: "Print a symlink's target",
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
		if !ino.IsSymlink() {
			return fmt.Errorf("%s: not a symlink", fpath)
		}

		target, err := xfs.ReadLink(v, ino)
		if err != nil {
			return err
		}
		log.Printf("%s", target)
		return nil
	},
}
