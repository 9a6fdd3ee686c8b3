package xfs

// ReadAttrs decodes every extended attribute on ino (spec.md §6). A short
// form inode has them inline in the attribute fork; an extents/btree form
// inode's attribute fork is itself a list of whole filesystem blocks, the
// first of which is a da-node index once there is more than one leaf block
// (NodeAttribute.cpp), so the walker here skips any node-magic block and
// decodes every leaf-magic one.
func ReadAttrs(v *Volume, ino *Inode) ([]AttrEntry, error) {
	if ino.AttrFork == nil {
		return nil, nil
	}

	if ino.AFormat == InodeFormatLocal {
		return readShortAttrs(ino)
	}

	extents, err := GetAttrExtents(v, ino)
	if err != nil {
		return nil, err
	}

	var entries []AttrEntry
	for _, e := range extents {
		for off := uint64(0); off < uint64(e.BlockCount); off++ {
			fsb := e.StartBlock + off
			buf, err := v.ReadAt(v.FilesystemBlockToByte(fsb), int(v.SB.BlockSize))
			if err != nil {
				return nil, err
			}
			magic := uint32(be16(buf[8:]))
			switch magic {
			case attrLeafMagicV4, attrLeafMagicV5:
				if err := verifyHeader(buf, daBlkinfoHeader(v), magic, v.BlockNumberForVerify(fsb), v.SB.MetaUUID, ino.Ino, partAttrLeaf); err != nil {
					return nil, err
				}
				decoded, err := decodeAttrLeafBlock(v, ino, buf)
				if err != nil {
					return nil, err
				}
				entries = append(entries, decoded...)
			case daNodeMagicV4, daNodeMagicV5:
				// index block over several leaf blocks; no entries of its own
				if err := verifyHeader(buf, daBlkinfoHeader(v), magic, v.BlockNumberForVerify(fsb), v.SB.MetaUUID, ino.Ino, partAttrNode); err != nil {
					return nil, err
				}
			default:
				return nil, corrupt("inode %d: unrecognized attribute block magic %#x", ino.Ino, magic)
			}
		}
	}
	return entries, nil
}

// LookupAttr resolves a single attribute by name (spec.md §6).
func LookupAttr(v *Volume, ino *Inode, name string) ([]byte, error) {
	entries, err := ReadAttrs(v, ino)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e.Value, nil
		}
	}
	return nil, notFound("attribute %q not found on inode %d", name, ino.Ino)
}
