package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vorteil/xfsread/pkg/xfs"
)

// modeString renders an inode's type as a single ls-style letter: the rest
// of the permission bits are POSIX mode bits this reader never interprets
// beyond reporting the raw octal value.
func modeString(ino *xfs.Inode) string {
	switch {
	case ino.IsDir():
		return "d"
	case ino.IsSymlink():
		return "l"
	default:
		return "-"
	}
}

var statCmd = &cobra.Command{
	Use:   "stat IMAGE [PATH]",
	Short: "Print an inode's metadata",
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

		log.Printf("File: %s", filepath.Base(fpath))
		log.Printf("Size: %s", PrintableSize(ino.Size))
		log.Printf("Blocks: %d", ino.NBlocks)
		log.Printf("Inode: %d", ino.Ino)
		log.Printf("Links: %d", ino.NLink)
		log.Printf("Mode: %#o (%s)", ino.Mode&0o7777, modeString(ino))
		log.Printf("Uid: %d", ino.UID)
		log.Printf("Gid: %d", ino.GID)
		log.Printf("Access: %s", time.Unix(int64(ino.Atime.Sec), int64(ino.Atime.Nsec)))
		log.Printf("Modify: %s", time.Unix(int64(ino.Mtime.Sec), int64(ino.Mtime.Nsec)))
		log.Printf("Change: %s", time.Unix(int64(ino.Ctime.Sec), int64(ino.Ctime.Nsec)))
		if ino.Version >= 3 {
			log.Printf("Create: %s", time.Unix(int64(ino.Crtime.Sec), int64(ino.Crtime.Nsec)))
		}
		return nil
	},
}
