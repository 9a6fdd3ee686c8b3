package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vorteil/xfsread/pkg/xfs"
)

var flagLong bool

var lsCmd = &cobra.Command{
	Use:   "ls IMAGE [PATH]",
	Short: "List a directory's entries",
	Args:  cobra.RangeArgs(1, 2),
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
		if !ino.IsDir() {
			return fmt.Errorf("%s: not a directory", fpath)
		}

		entries, err := xfs.ReadDir(v, ino)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if !flagLong {
				log.Printf("%s", e.Name)
				continue
			}
			child, err := xfs.LoadInode(v, e.Ino)
			if err != nil {
				log.Warnf("%s: %v", e.Name, err)
				continue
			}
			log.Printf("%s\t%8s\t%d\t%s", modeString(child), PrintableSize(child.Size), child.Ino, e.Name)
		}
		return nil
	},
}

func init() {
	lsCmd.Flags().BoolVarP(&flagLong, "long", "l", false, "show size, mode and inode number")
}
