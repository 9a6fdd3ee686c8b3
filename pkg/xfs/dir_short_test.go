package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildShortDirBuf encodes a short-form directory data fork with the given
// parent inode and (name, ino) children, 4-byte inode numbers, no ftype.
func buildShortDirBuf(parent uint64, children []DirEntry) []byte {
	buf := []byte{byte(len(children)), 0} // count, i8count=0
	four := make([]byte, 4)
	putBE32(four, uint32(parent))
	buf = append(buf, four...)

	for _, c := range children {
		buf = append(buf, byte(len(c.Name)))
		buf = append(buf, 0, 0) // offset hint, unused by the reader
		buf = append(buf, []byte(c.Name)...)
		entIno := make([]byte, 4)
		putBE32(entIno, uint32(c.Ino))
		buf = append(buf, entIno...)
	}
	return buf
}

func TestReadShortDirRoundTrip(t *testing.T) {
	v := &Volume{SB: &Superblock{HasFtype: false}}
	ino := &Inode{Ino: 128, DataFork: buildShortDirBuf(128, []DirEntry{
		{Name: "etc", Ino: 200},
		{Name: "bin", Ino: 201},
	})}

	entries, err := readShortDir(v, ino)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, DirEntry{Name: ".", Ino: 128, FType: ftypeDir, Cookie: 0}, entries[0])
	assert.Equal(t, DirEntry{Name: "..", Ino: 128, FType: ftypeDir, Cookie: 1}, entries[1])
	assert.Equal(t, DirEntry{Name: "etc", Ino: 200, FType: 0, Cookie: 2}, entries[2])
	assert.Equal(t, DirEntry{Name: "bin", Ino: 201, FType: 0, Cookie: 3}, entries[3])
}

func TestReadShortDirRejectsTruncatedHeader(t *testing.T) {
	v := &Volume{SB: &Superblock{}}
	ino := &Inode{DataFork: []byte{1}}

	_, err := readShortDir(v, ino)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReadShortDirRejectsBadNamelen(t *testing.T) {
	v := &Volume{SB: &Superblock{}}
	buf := []byte{1, 0} // count=1, i8count=0
	four := make([]byte, 4)
	putBE32(four, 128)
	buf = append(buf, four...)
	buf = append(buf, 0, 0, 0) // namelen=0, offset hint: invalid namelen

	_, err := readShortDir(v, &Inode{DataFork: buf})
	assert.ErrorIs(t, err, ErrCorrupt)
}
