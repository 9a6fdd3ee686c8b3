package xfs

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appendBlockDirEntry appends one data-region entry (ino, namelen, name, tag)
// in the layout scanDataRegion expects, no ftype byte (HasFtype=false).
func appendBlockDirEntry(buf []byte, ino uint64, name string) []byte {
	entry := make([]byte, 9+len(name)+2)
	putBE64(entry[0:], ino)
	entry[8] = byte(len(name))
	copy(entry[9:], name)
	// trailing 2-byte tag left zero: unused by the reader
	padded := align8(len(entry))
	out := make([]byte, padded)
	copy(out, entry)
	return append(buf, out...)
}

func buildBlockDirBuf(v *Volume, ino uint64, entries []DirEntry) []byte {
	buf := make([]byte, v.DirBlockBytes())
	putBE32(buf[0:], dataMagic(v, true))

	region := make([]byte, 0, 64)
	for _, e := range entries {
		region = appendBlockDirEntry(region, e.Ino, e.Name)
	}
	copy(buf[dataHeaderSize(v):], region)

	freeStart := dataHeaderSize(v) + len(region)
	tailOff := len(buf) - 8
	freeLen := tailOff - freeStart
	putBE16(buf[freeStart:], dirFreeTag)
	putBE16(buf[freeStart+2:], uint16(freeLen))

	putBE32(buf[tailOff:], 0) // leaf entry count: none in this fixture
	return buf
}

func TestReadBlockDirRoundTrip(t *testing.T) {
	dev := newMemDevice(4096)
	v := &Volume{Device: dev, SB: &Superblock{Version: 4, BlockSize: 4096, BlockLog: 12, AGBlockLog: 16, AGBlockCount: 65536}}

	ino := &Inode{Ino: 128}
	want := []DirEntry{
		{Name: ".", Ino: 128},
		{Name: "..", Ino: 2},
		{Name: "foo", Ino: 200},
	}
	buf := buildBlockDirBuf(v, ino.Ino, want)
	dev.writeAt(0, buf)

	extents := []Extent{{StartOffset: 0, StartBlock: 0, BlockCount: 1}}
	got, err := readBlockDir(v, ino, extents)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, w := range want {
		assert.Equal(t, w.Name, got[i].Name)
		assert.Equal(t, w.Ino, got[i].Ino)
	}
}

// buildBlockDirBufWithLeafArray is buildBlockDirBuf plus a populated leaf
// array of {hashval, address} entries, ascending by hashval, so that
// lookupBlockDir's binary search has something real to search.
func buildBlockDirBufWithLeafArray(v *Volume, entries []DirEntry) []byte {
	buf := make([]byte, v.DirBlockBytes())
	putBE32(buf[0:], dataMagic(v, true))

	region := make([]byte, 0, 64)
	leafEntries := make([]leafEntry, 0, len(entries))
	for _, e := range entries {
		addr := dataHeaderSize(v) + len(region)
		region = appendBlockDirEntry(region, e.Ino, e.Name)
		leafEntries = append(leafEntries, leafEntry{Hashval: hashname(e.Name), Address: uint32(addr / 8)})
	}
	copy(buf[dataHeaderSize(v):], region)
	sort.Slice(leafEntries, func(i, j int) bool { return leafEntries[i].Hashval < leafEntries[j].Hashval })

	tailOff := len(buf) - 8
	leafArrayOff := tailOff - len(leafEntries)*leafEntrySize
	freeStart := dataHeaderSize(v) + len(region)
	putBE16(buf[freeStart:], dirFreeTag)
	putBE16(buf[freeStart+2:], uint16(leafArrayOff-freeStart))

	for i, le := range leafEntries {
		off := leafArrayOff + i*leafEntrySize
		putBE32(buf[off:], le.Hashval)
		putBE32(buf[off+4:], le.Address)
	}
	putBE32(buf[tailOff:], uint32(len(leafEntries)))
	return buf
}

func TestLookupBlockDirBinarySearchesLeafArray(t *testing.T) {
	dev := newMemDevice(4096)
	v := &Volume{Device: dev, SB: &Superblock{Version: 4, BlockSize: 4096, BlockLog: 12, AGBlockLog: 16, AGBlockCount: 65536}}

	ino := &Inode{Ino: 128}
	entries := []DirEntry{
		{Name: ".", Ino: 128},
		{Name: "..", Ino: 2},
		{Name: "foo", Ino: 200},
		{Name: "bar", Ino: 201},
	}
	buf := buildBlockDirBufWithLeafArray(v, entries)
	dev.writeAt(0, buf)

	extents := []Extent{{StartOffset: 0, StartBlock: 0, BlockCount: 1}}

	got, found, err := lookupBlockDir(v, ino, extents, "foo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(200), got.Ino)

	_, found, err = lookupBlockDir(v, ino, extents, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}
