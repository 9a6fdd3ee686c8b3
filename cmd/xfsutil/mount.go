package main

import (
	"github.com/spf13/cobra"
)

var mountCmd = &cobra.Command{
	Use:   "info IMAGE",
	Short: "Print superblock geometry for an XFS image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, closeFn, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		sb := v.SB
		log.Printf("Version: %d", sb.Version)
		log.Printf("UUID: %s", sb.UUID)
		log.Printf("Block size: %s", PrintableSize(uint64(sb.BlockSize)))
		log.Printf("Sector size: %s", PrintableSize(uint64(sb.SectorSize)))
		log.Printf("Inode size: %d", sb.InodeSize)
		log.Printf("AG count: %d", sb.AGCount)
		log.Printf("AG blocks: %d", sb.AGBlockCount)
		log.Printf("Root inode: %d", sb.RootIno)
		log.Printf("ftype: %t", sb.HasFtype)
		return nil
	},
}
