package xfs

import (
	"sort"
	"strings"
)

// DirEntry is one decoded directory entry, uniform across all five on-disk
// layouts (spec.md §4.8-§4.12).
type DirEntry struct {
	Name  string
	Ino   uint64
	FType uint8

	// Cookie is this entry's logical directory byte address divided by 8
	// (spec.md §3 "Logical directory offset"; the same unit a leaf entry's
	// "address" field stores) — short-form directories have no such address,
	// so their entries are numbered by on-disk position instead. It is the
	// resumable-scan token ReadDirCookie's cursor is built from.
	Cookie uint64
}

// dirImpl names which of four directory layouts an inode uses (spec.md
// §4.8, Haiku's DirectoryType enum plus the short-form case it leaves to the
// inode format byte). A B+Tree-backed fork has no member of its own:
// classifyDir resolves its extents first and then picks one of these four.
type dirImpl uint8

const (
	dirImplShort dirImpl = iota
	dirImplBlock
	dirImplLeaf
	dirImplNode
)

func align8(n int) int {
	return (n + 7) &^ 7
}

// dataHeaderSize is the size of the common data-block header (magic plus
// best-free table, with the v5 self-describing fields and padding folded
// in) that precedes every data region in block, leaf and node layouts.
func dataHeaderSize(v *Volume) int {
	if v.SB.Version == 5 {
		return 64
	}
	return 16
}

func dataMagic(v *Volume, isBlock bool) uint32 {
	if isBlock {
		if v.SB.Version == 5 {
			return dir2BlockMagicV5
		}
		return dir2BlockMagicV4
	}
	if v.SB.Version == 5 {
		return dir2DataMagicV5
	}
	return dir2DataMagicV4
}

func dataHeader(v *Volume) v5Header {
	if v.SB.Version != 5 {
		return v5Header{magicOffset: 0, magicSize: 4, crcOffset: -1, blockNoOffset: -1, uuidOffset: -1, ownerOffset: -1}
	}
	return v5Header{magicOffset: 0, magicSize: 4, crcOffset: 4, blockNoOffset: 8, uuidOffset: 16, ownerOffset: 32}
}

// decodeDataEntry decodes the single live entry at buf[pos:], returning it
// alongside the position of the next entry. blockByteBase is the logical
// directory byte address of buf[0], so the returned entry's Cookie is a
// true logical-offset/8 value usable as a leaf entry's "address" (spec.md
// §3 "Logical directory offset").
func decodeDataEntry(v *Volume, buf []byte, pos, end int, blockByteBase uint64) (DirEntry, int, error) {
	if pos+9 > end {
		return DirEntry{}, 0, corrupt("directory data region: truncated entry header at %d", pos)
	}
	ino := be64(buf[pos:])
	namelen := int(buf[pos+8])
	nameStart := pos + 9
	if nameStart+namelen > end {
		return DirEntry{}, 0, corrupt("directory data region: entry name truncated at %d", pos)
	}
	name := string(buf[nameStart : nameStart+namelen])

	p := nameStart + namelen
	var ftype uint8
	if v.SB.HasFtype {
		if p+1 > end {
			return DirEntry{}, 0, corrupt("directory data region: entry ftype truncated at %d", pos)
		}
		ftype = buf[p]
		p++
	}
	p += 2 // trailing tag: this entry's own byte offset, used only by the leaf hash index

	entry := DirEntry{Name: name, Ino: ino, FType: ftype, Cookie: (blockByteBase + uint64(pos)) / 8}
	return entry, pos + align8(p-pos), nil
}

// scanDataRegion walks the [start, end) byte range of a directory data
// block, yielding every live entry. An entry's leading 16-bit field is
// 0xffff exactly when it is free space rather than a real entry
// (spec.md §9 design note: probe before trusting any stated count).
func scanDataRegion(v *Volume, buf []byte, start, end int, blockByteBase uint64) ([]DirEntry, error) {
	var entries []DirEntry
	pos := start
	for pos < end {
		if pos+2 > end {
			return nil, corrupt("directory data region: truncated entry at %d", pos)
		}
		tag := be16(buf[pos:])
		if tag == dirFreeTag {
			if pos+4 > end {
				return nil, corrupt("directory data region: truncated unused entry at %d", pos)
			}
			length := int(be16(buf[pos+2:]))
			if length < 8 || pos+length > end {
				return nil, corrupt("directory data region: bad unused entry length %d at %d", length, pos)
			}
			pos += length
			continue
		}

		entry, next, err := decodeDataEntry(v, buf, pos, end, blockByteBase)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		pos = next
	}
	return entries, nil
}

// classifyDir determines an inode's directory layout and returns its
// extent list (already resolved through the B+Tree walker when the fork
// itself uses InodeFormatBTree, which is how that fifth on-disk variant
// folds transparently into the other four layouts once extents are in
// hand).
func classifyDir(v *Volume, ino *Inode) (dirImpl, []Extent, error) {
	if !ino.IsDir() {
		return 0, nil, notSupported("inode %d: not a directory", ino.Ino)
	}
	if ino.Format == InodeFormatLocal {
		return dirImplShort, nil, nil
	}

	extents, err := GetAllExtents(v, ino)
	if err != nil {
		return 0, nil, err
	}
	if len(extents) == 0 {
		return 0, nil, corrupt("inode %d: directory has no extents", ino.Ino)
	}

	if len(extents) == 1 && extents[0].StartOffset == 0 && uint64(extents[0].BlockCount) == v.DirBlockFSBlocks() {
		return dirImplBlock, extents, nil
	}

	leafFileBlock := uint64(1) << (leafOffsetBit - v.SB.BlockLog)
	leafExtent, ok := findExtent(extents, leafFileBlock)
	if !ok {
		// Directory data spans multiple blocks but none sits at the leaf
		// offset yet (can happen transiently mid-grow); treat as node so
		// ReadDir's walker scans every data extent directly. LookupName's
		// node lookup finds no index block here and reports ErrCorrupt.
		return dirImplNode, extents, nil
	}

	fsb := leafExtent.StartBlock + (leafFileBlock - leafExtent.StartOffset)
	buf, err := v.ReadAt(v.FilesystemBlockToByte(fsb), v.DirBlockBytes())
	if err != nil {
		return 0, nil, err
	}
	// xfs_da_blkinfo puts magic at byte 8 (after forw/back) in both v4 and
	// v5 forms; v5 simply appends more self-describing fields afterward.
	magic := uint32(be16(buf[8:]))

	switch magic {
	case dir2Leaf1MagicV4, dir2Leaf1MagicV5:
		if err := verifyHeader(buf, daBlkinfoHeader(v), magic, v.BlockNumberForVerify(fsb), v.SB.MetaUUID, ino.Ino, partLeaf); err != nil {
			return 0, nil, err
		}
		return dirImplLeaf, extents, nil
	case daNodeMagicV4, daNodeMagicV5:
		if err := verifyHeader(buf, daBlkinfoHeader(v), magic, v.BlockNumberForVerify(fsb), v.SB.MetaUUID, ino.Ino, partNode); err != nil {
			return 0, nil, err
		}
		return dirImplNode, extents, nil
	default:
		return 0, nil, corrupt("inode %d: unrecognized leaf block magic %#x", ino.Ino, magic)
	}
}

// daBlkinfoHeader is the xfs_da3_blkinfo layout shared by leaf, node and
// free-index blocks: forw(4) back(4) magic(2) pad(2), extended in v5 with
// crc(4) blkno(8) lsn(8) uuid(16) owner(8).
func daBlkinfoHeader(v *Volume) v5Header {
	if v.SB.Version != 5 {
		return v5Header{magicOffset: 8, magicSize: 2, crcOffset: -1, blockNoOffset: -1, uuidOffset: -1, ownerOffset: -1}
	}
	return v5Header{magicOffset: 8, magicSize: 2, crcOffset: 12, blockNoOffset: 16, uuidOffset: 32, ownerOffset: 48}
}

// daBlkinfoSize is the header size preceding the leaf/node/free payload.
func daBlkinfoSize(v *Volume) int {
	if v.SB.Version == 5 {
		return 56
	}
	return 12
}

// scanDataExtents decodes every entry across every whole directory data
// block among extents, stopping before the leaf-offset namespace. Shared by
// the leaf and node layouts, which differ only in how many hash-index
// blocks sit above the data region, not in how the data region itself is
// laid out.
func scanDataExtents(v *Volume, ino *Inode, extents []Extent) ([]DirEntry, error) {
	leafFileBlock := uint64(1) << (leafOffsetBit - v.SB.BlockLog)
	dirBlockFSBlocks := v.DirBlockFSBlocks()

	dirBlockBytes := uint64(v.DirBlockBytes())

	var entries []DirEntry
	for _, e := range extents {
		if e.StartOffset >= leafFileBlock {
			continue
		}
		for off := uint64(0); off < uint64(e.BlockCount); off += dirBlockFSBlocks {
			fsb := e.StartBlock + off
			logicalBlock := e.StartOffset + off
			buf, err := v.ReadAt(v.FilesystemBlockToByte(fsb), v.DirBlockBytes())
			if err != nil {
				return nil, err
			}
			if err := verifyHeader(buf, dataHeader(v), dataMagic(v, false), v.BlockNumberForVerify(fsb), v.SB.MetaUUID, ino.Ino, partBlock); err != nil {
				return nil, err
			}
			decoded, err := scanDataRegion(v, buf, dataHeaderSize(v), len(buf), logicalBlock*dirBlockBytes)
			if err != nil {
				return nil, err
			}
			entries = append(entries, decoded...)
		}
	}
	return entries, nil
}

// readDirScanOrder decodes every entry of a directory inode in its on-disk
// scan order. Short-form entries are already insertion-ordered; block/leaf/
// node entries come out extent-by-extent at increasing byte address, which
// is also strictly increasing Cookie order — the property ReadDirCookie's
// resumable scan depends on.
func readDirScanOrder(v *Volume, ino *Inode) (dirImpl, []Extent, []DirEntry, error) {
	impl, extents, err := classifyDir(v, ino)
	if err != nil {
		return 0, nil, nil, err
	}
	var entries []DirEntry
	switch impl {
	case dirImplShort:
		entries, err = readShortDir(v, ino)
	case dirImplBlock:
		entries, err = readBlockDir(v, ino, extents)
	case dirImplLeaf:
		entries, err = readLeafDir(v, ino, extents)
	case dirImplNode:
		entries, err = readNodeDir(v, ino, extents)
	default:
		return 0, nil, nil, notSupported("inode %d: unknown directory layout", ino.Ino)
	}
	if err != nil {
		return 0, nil, nil, err
	}
	return impl, extents, entries, nil
}

// ReadDir enumerates every entry of a directory inode (spec.md §6): in hash
// order for block, leaf and node layouts, and in on-disk order for
// short-form directories.
func ReadDir(v *Volume, ino *Inode) ([]DirEntry, error) {
	impl, _, entries, err := readDirScanOrder(v, ino)
	if err != nil {
		return nil, err
	}
	// short-form entries are already stored in on-disk (insertion) order,
	// not hash order; only the block/leaf/node data regions need resorting
	// into the hash order a leaf-index traversal would present.
	if impl != dirImplShort {
		sortedByHash(entries)
	}
	return entries, nil
}

// ReadDirCookie resolves one step of a resumable directory scan (spec.md §6
// "read_dir(volume, dir_ino, cookie) -> (name, ino, next_cookie)"): it
// returns the first entry in on-disk scan order whose Cookie is ≥ cookie,
// and the cookie a caller should pass to fetch the entry after it. Passing
// cookie 0 starts a scan from the beginning. An exhausted scan returns
// ErrNotFound (spec.md §9: an entry is visible in a scan resuming from a
// cookie iff its logical byte offset is ≥ the cookie's).
func ReadDirCookie(v *Volume, ino *Inode, cookie uint64) (name string, childIno uint64, nextCookie uint64, err error) {
	_, _, entries, err := readDirScanOrder(v, ino)
	if err != nil {
		return "", 0, 0, err
	}
	for _, e := range entries {
		if e.Cookie >= cookie {
			return e.Name, e.Ino, e.Cookie + 1, nil
		}
	}
	return "", 0, 0, notFound("directory inode %d: no entry at or after cookie %d", ino.Ino, cookie)
}

// LookupName resolves a single path component within a directory inode
// (spec.md §6 "lookup one name"). Block, leaf and node layouts dispatch to
// their on-disk hash-index binary search (spec.md §4.9-§4.11); short-form
// directories have no index to search and are small enough that a full
// decode plus linear scan is the simplest correct path.
func LookupName(v *Volume, dirIno *Inode, name string) (uint64, uint8, error) {
	impl, extents, err := classifyDir(v, dirIno)
	if err != nil {
		return 0, 0, err
	}

	var (
		entry DirEntry
		found bool
	)
	switch impl {
	case dirImplBlock:
		entry, found, err = lookupBlockDir(v, dirIno, extents, name)
	case dirImplLeaf:
		entry, found, err = lookupLeafDir(v, dirIno, extents, name)
	case dirImplNode:
		entry, found, err = lookupNodeDir(v, dirIno, extents, name)
	default: // dirImplShort
		var entries []DirEntry
		entries, err = readShortDir(v, dirIno)
		for _, e := range entries {
			if e.Name == name {
				entry, found = e, true
				break
			}
		}
	}
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, notFound("name %q not found in directory inode %d", name, dirIno.Ino)
	}
	return entry.Ino, entry.FType, nil
}

// LookupPath resolves a '/'-separated path from the volume root, following
// each component through LookupName (spec.md §6 "resolve path to inode").
func LookupPath(v *Volume, path string) (*Inode, error) {
	ino, err := LoadInode(v, v.SB.RootIno)
	if err != nil {
		return nil, err
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return ino, nil
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		if !ino.IsDir() {
			return nil, notSupported("path component %q: not a directory", part)
		}
		childIno, _, err := LookupName(v, ino, part)
		if err != nil {
			return nil, err
		}
		ino, err = LoadInode(v, childIno)
		if err != nil {
			return nil, err
		}
	}
	return ino, nil
}

// sortedByHash is used by ReadDir to present block/leaf/node entries in the
// same order a real hash-index traversal would (spec.md §8 invariant: dir
// enumeration order is stable and matches the on-disk hash order).
func sortedByHash(entries []DirEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return hashname(entries[i].Name) < hashname(entries[j].Name)
	})
}
