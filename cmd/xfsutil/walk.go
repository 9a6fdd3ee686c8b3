package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vorteil/xfsread/pkg/xfs"
)

var walkCmd = &cobra.Command{
	Use:   "walk IMAGE [PATH]",
	Short: "Recursively enumerate every path under a directory",
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

		progress := log.NewProgress("walk", "", 0)
		defer progress.Finish(true)

		var recurse func(ino *xfs.Inode, rpath string) error
		recurse = func(ino *xfs.Inode, rpath string) error {
			log.Printf("%s", rpath)
			progress.Increment(1)

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

		return recurse(root, fpath)
	},
}
