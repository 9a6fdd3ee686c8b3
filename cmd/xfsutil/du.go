package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vorteil/xfsread/pkg/xfs"
)

var duCmd = &cobra.Command{
	Use:   "du IMAGE [PATH]",
	Short: "Sum the apparent size of a directory tree",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, closeFn, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		root, fpath, err := resolvePath(v, args)
		if err != nil {
			return err
		}

		var total uint64
		var recurse func(ino *xfs.Inode, rpath string) error
		recurse = func(ino *xfs.Inode, rpath string) error {
			total += ino.Size

			if !ino.IsDir() {
				return nil
			}

			entries, err := xfs.ReadDir(v, ino)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if e.Name == "." || e.Name == ".." {
					continue
				}
				child, err := xfs.LoadInode(v, e.Ino)
				if err != nil {
					return err
				}
				if err := recurse(child, filepath.Join(rpath, e.Name)); err != nil {
					return err
				}
			}
			return nil
		}

		if err := recurse(root, fpath); err != nil {
			return err
		}
		log.Printf("%s\t%s", PrintableSize(total), fpath)
		return nil
	},
}
