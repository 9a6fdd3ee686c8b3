package main

import (
	"github.com/spf13/cobra"

	"github.com/vorteil/xfsread/pkg/xfs"
)

var getfattrCmd = &cobra.Command{
	Use:   "getfattr IMAGE PATH NAME",
	Short: "Print a single extended attribute's value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, closeFn, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		ino, err := xfs.LookupPath(v, args[1])
		if err != nil {
			return err
		}

		value, err := xfs.LookupAttr(v, ino, args[2])
		if err != nil {
			return err
		}
		log.Printf("%s", value)
		return nil
	},
}

var listxattrCmd = &cobra.Command{
	Use:   "listxattr IMAGE [PATH]",
	Short: "List an inode's extended attribute names",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, closeFn, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		ino, _, err := resolvePath(v, args)
		if err != nil {
			return err
		}

		entries, err := xfs.ReadAttrs(v, ino)
		if err != nil {
			return err
		}
		for _, e := range entries {
			log.Printf("%s", e.Name)
		}
		return nil
	},
}
