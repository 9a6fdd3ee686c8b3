package xfs

// ReadLink returns a symlink inode's target path (spec.md §4.14). Grounded
// on Symlink.cpp: short-form symlinks keep the target inline in the data
// fork; extent-form symlinks keep it in a single filesystem block (a target
// is at most 1024 bytes, always within one block), prefixed on v5 by a
// SymlinkHeader this reader verifies before trusting the bytes.
func ReadLink(v *Volume, ino *Inode) (string, error) {
	if !ino.IsSymlink() {
		return "", notSupported("inode %d: not a symlink", ino.Ino)
	}

	switch ino.Format {
	case InodeFormatLocal:
		if uint64(len(ino.DataFork)) < ino.Size {
			return "", corrupt("inode %d: short-form symlink target truncated", ino.Ino)
		}
		return string(ino.DataFork[:ino.Size]), nil

	case InodeFormatExtents:
		extents, err := decodeExtentList(ino.DataFork[:ino.NExtents*16])
		if err != nil {
			return "", err
		}
		if len(extents) != 1 {
			return "", corrupt("inode %d: symlink target spans %d extents, want 1", ino.Ino, len(extents))
		}
		fsb := extents[0].StartBlock
		buf, err := v.ReadAt(v.FilesystemBlockToByte(fsb), v.DirBlockBytes())
		if err != nil {
			return "", err
		}

		payloadOff := 0
		if ino.Version >= 3 {
			hdr := v5Header{magicOffset: 0, magicSize: 4, crcOffset: 12, blockNoOffset: 40, uuidOffset: 16, ownerOffset: 32}
			if err := verifyHeader(buf, hdr, symlinkMagicV5, v.BlockNumberForVerify(fsb), v.SB.MetaUUID, ino.Ino, partSymlink); err != nil {
				return "", err
			}
			payloadOff = 56
		}

		if uint64(payloadOff)+ino.Size > uint64(len(buf)) {
			return "", corrupt("inode %d: extent-form symlink target truncated", ino.Ino)
		}
		return string(buf[payloadOff : uint64(payloadOff)+ino.Size]), nil

	default:
		return "", notSupported("inode %d: symlink format %d", ino.Ino, ino.Format)
	}
}
