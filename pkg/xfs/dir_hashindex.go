package xfs

// leafEntry is one {hashval, address} record of a directory hash index
// (spec.md §4.9-§4.11). In a leaf/leafN block, address is a logical
// directory byte offset divided by 8, naming the data entry it hashes to
// (spec.md §3 "Logical directory offset"); in a da-node root block the same
// field instead names the logical block number of the child index block
// covering every hash up to and including Hashval. Both shapes are eight
// bytes (hashval u32, address/before u32), so one decoder serves both.
type leafEntry struct {
	Hashval uint32
	Address uint32
}

const leafEntrySize = 8

// leafHeaderEntryBase is the byte offset a leaf/leafN/da-node block's
// {hashval, address} array starts at: the da-blkinfo header, then a
// count(u16) and a second u16 (stale, for a leaf block; level, for a
// da-node) — the same four-byte shape in both cases.
func leafHeaderEntryBase(v *Volume) int {
	return daBlkinfoSize(v) + 4
}

// leafEntryCount reads the array's leading count field.
func leafEntryCount(buf []byte, v *Volume) int {
	return int(be16(buf[daBlkinfoSize(v):]))
}

// decodeLeafEntries decodes count consecutive entries starting at
// buf[start:], ascending by Hashval (spec.md §8 Testable Property 5).
func decodeLeafEntries(buf []byte, start, count int) ([]leafEntry, error) {
	entries := make([]leafEntry, count)
	for i := 0; i < count; i++ {
		off := start + i*leafEntrySize
		if off+leafEntrySize > len(buf) {
			return nil, corrupt("hash index: entry %d beyond block", i)
		}
		entries[i] = leafEntry{Hashval: be32(buf[off:]), Address: be32(buf[off+4:])}
	}
	return entries, nil
}

// searchLeafEntries returns the index of the first entry whose Hashval is
// >= target (a lower bound), or len(entries) if every entry sorts before it
// (spec.md §4.9 "binary-search the leaf's {hashval, address} array").
func searchLeafEntries(entries []leafEntry, target uint32) int {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if entries[mid].Hashval < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// dereferenceDirAddress reads the single data entry a leaf entry's address
// names: address*8 is a logical directory byte offset, resolved to a
// filesystem block through the directory's own extent list, the same way
// the bulk data scan does (spec.md §3 "Logical directory offset").
func dereferenceDirAddress(v *Volume, ino *Inode, extents []Extent, addr uint32) (DirEntry, error) {
	byteAddr := uint64(addr) * 8
	dirBlockBytes := uint64(v.DirBlockBytes())
	logicalBlock := byteAddr / dirBlockBytes
	inBlockOffset := int(byteAddr % dirBlockBytes)

	e, ok := findExtent(extents, logicalBlock)
	if !ok {
		return DirEntry{}, corrupt("inode %d: leaf entry address %d maps to unmapped directory block %d", ino.Ino, addr, logicalBlock)
	}
	fsb := e.StartBlock + (logicalBlock - e.StartOffset)
	buf, err := v.ReadAt(v.FilesystemBlockToByte(fsb), v.DirBlockBytes())
	if err != nil {
		return DirEntry{}, err
	}
	entry, _, err := decodeDataEntry(v, buf, inBlockOffset, len(buf), logicalBlock*dirBlockBytes)
	if err != nil {
		return DirEntry{}, err
	}
	return entry, nil
}

// scanHashRun binary-searches entries for target's hash run and dereferences
// each candidate address, returning on the first whose name matches. Shared
// by the leaf and node lookups; the block lookup runs the same loop against
// the block it already holds.
func scanHashRun(v *Volume, ino *Inode, extents []Extent, entries []leafEntry, target uint32, name string) (DirEntry, bool, error) {
	i := searchLeafEntries(entries, target)
	for ; i < len(entries) && entries[i].Hashval == target; i++ {
		if entries[i].Address == 0 {
			continue // a stale slot left behind by a deleted entry
		}
		entry, err := dereferenceDirAddress(v, ino, extents, entries[i].Address)
		if err != nil {
			return DirEntry{}, false, err
		}
		if entry.Name == name {
			return entry, true, nil
		}
	}
	return DirEntry{}, false, nil
}
