package xfs

// Short-form directories pack every entry directly into the inode's data
// fork (di_format == InodeFormatLocal): a small header naming the parent,
// followed by one variable-length entry per child. No CRC, no magic — the
// inode core's own checks are this format's only integrity guard
// (spec.md §4.8). Grounded on the teacher's generateShortFormDirectoryData,
// generalized to the full on-disk encoding: an 8-byte parent inode number
// when i8count is set, and a trailing per-entry ftype byte on volumes that
// carry one.
func readShortDir(v *Volume, ino *Inode) ([]DirEntry, error) {
	buf := ino.DataFork
	if len(buf) < 2 {
		return nil, corrupt("inode %d: short-form directory header truncated", ino.Ino)
	}

	count := int(buf[0])
	i8count := buf[1] != 0
	pos := 2

	parentSize := 4
	if i8count {
		parentSize = 8
	}
	if pos+parentSize > len(buf) {
		return nil, corrupt("inode %d: short-form directory parent field truncated", ino.Ino)
	}
	var parentIno uint64
	if i8count {
		parentIno = be64(buf[pos:])
	} else {
		parentIno = uint64(be32(buf[pos:]))
	}
	pos += parentSize

	entries := make([]DirEntry, 0, count+2)
	entries = append(entries, DirEntry{Name: ".", Ino: ino.Ino, FType: ftypeDir, Cookie: 0})
	entries = append(entries, DirEntry{Name: "..", Ino: parentIno, FType: ftypeDir, Cookie: 1})

	for i := 0; i < count; i++ {
		if pos+3 > len(buf) {
			return nil, corrupt("inode %d: short-form entry %d truncated", ino.Ino, i)
		}
		namelen := int(buf[pos])
		pos++
		pos += 2 // xfs_dir2_sf_off_t: an NFS readdir-cookie hint, not needed to enumerate
		if namelen == 0 || namelen > 255 {
			return nil, corrupt("inode %d: short-form entry %d bad namelen %d", ino.Ino, i, namelen)
		}
		if pos+namelen > len(buf) {
			return nil, corrupt("inode %d: short-form entry %d name truncated", ino.Ino, i)
		}
		name := string(buf[pos : pos+namelen])
		pos += namelen

		var ftype uint8
		if v.SB.HasFtype {
			if pos+1 > len(buf) {
				return nil, corrupt("inode %d: short-form entry %d ftype truncated", ino.Ino, i)
			}
			ftype = buf[pos]
			pos++
		}

		if pos+parentSize > len(buf) {
			return nil, corrupt("inode %d: short-form entry %d inode number truncated", ino.Ino, i)
		}
		var entIno uint64
		if i8count {
			entIno = be64(buf[pos:])
		} else {
			entIno = uint64(be32(buf[pos:]))
		}
		pos += parentSize

		// short-form entries have no on-disk address of their own; Cookie is
		// simply this entry's position in scan order (the on-disk sf_off
		// hint skipped above is an NFS cookie convention, not this value).
		entries = append(entries, DirEntry{Name: name, Ino: entIno, FType: ftype, Cookie: uint64(len(entries))})
	}

	return entries, nil
}
