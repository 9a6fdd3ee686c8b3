package xfs

// ReadFileAt reads up to length bytes of a regular file's data starting at
// offset, zero-filling holes and unwritten extents the way a sparse XFS
// file reads on Linux (spec.md §6 "read file data"). The read is clamped to
// the inode's recorded size; a read starting at or past EOF returns an
// empty slice, not an error.
func ReadFileAt(v *Volume, ino *Inode, offset int64, length int) ([]byte, error) {
	if !ino.IsRegular() {
		return nil, notSupported("inode %d: not a regular file", ino.Ino)
	}
	if offset < 0 || length < 0 {
		return nil, badArgument("negative offset or length")
	}
	if uint64(offset) >= ino.Size {
		return nil, nil
	}
	if uint64(offset)+uint64(length) > ino.Size {
		length = int(ino.Size - uint64(offset))
	}

	if ino.Format == InodeFormatLocal {
		if uint64(offset)+uint64(length) > uint64(len(ino.DataFork)) {
			return nil, corrupt("inode %d: inline file data shorter than recorded size", ino.Ino)
		}
		out := make([]byte, length)
		copy(out, ino.DataFork[offset:offset+int64(length)])
		return out, nil
	}

	blockSize := uint64(v.SB.BlockSize)
	out := make([]byte, length)
	pos := 0
	for pos < length {
		fileByte := uint64(offset) + uint64(pos)
		fileBlock := fileByte / blockSize
		blockOff := int(fileByte % blockSize)

		e, ok, err := mapFileBlock(v, ino, fileBlock)
		if err != nil {
			return nil, err
		}

		toCopy := int(blockSize) - blockOff
		if remaining := length - pos; toCopy > remaining {
			toCopy = remaining
		}

		if ok && !e.Unwritten {
			fsb := e.StartBlock + (fileBlock - e.StartOffset)
			buf, err := v.ReadAt(v.FilesystemBlockToByte(fsb)+int64(blockOff), toCopy)
			if err != nil {
				return nil, err
			}
			copy(out[pos:pos+toCopy], buf)
		}
		// a hole or an unwritten extent reads as zero, already the default

		pos += toCopy
	}
	return out, nil
}
