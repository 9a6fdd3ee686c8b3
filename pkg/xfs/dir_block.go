package xfs

// readBlockDirBuf reads and header-verifies the single combined
// data+leaf+tail block a block-format directory keeps everything in
// (spec.md §4.9).
func readBlockDirBuf(v *Volume, ino *Inode, extents []Extent) ([]byte, error) {
	fsb := extents[0].StartBlock
	buf, err := v.ReadAt(v.FilesystemBlockToByte(fsb), v.DirBlockBytes())
	if err != nil {
		return nil, err
	}
	if err := verifyHeader(buf, dataHeader(v), dataMagic(v, true), v.BlockNumberForVerify(fsb), v.SB.MetaUUID, ino.Ino, partBlock); err != nil {
		return nil, err
	}
	return buf, nil
}

// blockDirLeafBounds locates the xfs_dir2_block_tail_t leaf array: count(4)
// + stale(4) at the very end of the block, preceded by count 8-byte
// {hashval, address} entries (spec.md §4.9).
func blockDirLeafBounds(v *Volume, ino *Inode, buf []byte) (leafArrayOff, count int, err error) {
	const tailSize = 8 // count(4) + stale(4)
	tailOff := len(buf) - tailSize
	count = int(be32(buf[tailOff:]))
	leafArrayOff = tailOff - count*leafEntrySize
	if leafArrayOff < dataHeaderSize(v) || leafArrayOff > tailOff {
		return 0, 0, corrupt("inode %d: block directory leaf array offset %d out of range", ino.Ino, leafArrayOff)
	}
	return leafArrayOff, count, nil
}

// readBlockDir decodes the single combined data+leaf+tail block used when a
// directory's entries fit in one logical directory block but no longer fit
// inline (spec.md §4.9). "." and ".." are ordinary data entries here, not
// synthesized, unlike the short-form layout.
func readBlockDir(v *Volume, ino *Inode, extents []Extent) ([]DirEntry, error) {
	buf, err := readBlockDirBuf(v, ino, extents)
	if err != nil {
		return nil, err
	}
	leafArrayOff, _, err := blockDirLeafBounds(v, ino, buf)
	if err != nil {
		return nil, err
	}
	return scanDataRegion(v, buf, dataHeaderSize(v), leafArrayOff, 0)
}

// lookupBlockDir resolves name through the combined block's own leaf array,
// dereferencing straight back into the buffer already in hand rather than
// issuing a second device read: the one read services both the hash search
// and the data fetch (spec.md §8 scenario S4, "lookup(name2) performs
// exactly one data-block dereference").
func lookupBlockDir(v *Volume, ino *Inode, extents []Extent, name string) (DirEntry, bool, error) {
	buf, err := readBlockDirBuf(v, ino, extents)
	if err != nil {
		return DirEntry{}, false, err
	}
	leafArrayOff, count, err := blockDirLeafBounds(v, ino, buf)
	if err != nil {
		return DirEntry{}, false, err
	}
	leafEntries, err := decodeLeafEntries(buf, leafArrayOff, count)
	if err != nil {
		return DirEntry{}, false, err
	}

	target := hashname(name)
	for i := searchLeafEntries(leafEntries, target); i < len(leafEntries) && leafEntries[i].Hashval == target; i++ {
		addr := leafEntries[i].Address
		if addr == 0 {
			continue // a stale slot left behind by a deleted entry
		}
		pos := int(addr) * 8
		entry, _, err := decodeDataEntry(v, buf, pos, leafArrayOff, 0)
		if err != nil {
			return DirEntry{}, false, err
		}
		if entry.Name == name {
			return entry, true, nil
		}
	}
	return DirEntry{}, false, nil
}
