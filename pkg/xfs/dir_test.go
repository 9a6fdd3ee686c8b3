package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDirCookieResumesScan(t *testing.T) {
	v := &Volume{SB: &Superblock{HasFtype: false}}
	ino := &Inode{Ino: 128, Mode: modeFmtDir, Format: InodeFormatLocal, DataFork: buildShortDirBuf(128, []DirEntry{
		{Name: "etc", Ino: 200},
		{Name: "bin", Ino: 201},
	})}

	name, childIno, next, err := ReadDirCookie(v, ino, 0)
	require.NoError(t, err)
	assert.Equal(t, ".", name)
	assert.Equal(t, uint64(128), childIno)

	name, childIno, next, err = ReadDirCookie(v, ino, next)
	require.NoError(t, err)
	assert.Equal(t, "..", name)

	name, childIno, next, err = ReadDirCookie(v, ino, next)
	require.NoError(t, err)
	assert.Equal(t, "etc", name)
	assert.Equal(t, uint64(200), childIno)

	name, _, next, err = ReadDirCookie(v, ino, next)
	require.NoError(t, err)
	assert.Equal(t, "bin", name)

	_, _, _, err = ReadDirCookie(v, ino, next)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupNameDispatchesToBlockLookup(t *testing.T) {
	dev := newMemDevice(4096)
	v := &Volume{Device: dev, SB: &Superblock{Version: 4, BlockSize: 4096, BlockLog: 12, AGBlockLog: 16, AGBlockCount: 65536}}

	buf := buildBlockDirBufWithLeafArray(v, []DirEntry{
		{Name: ".", Ino: 128},
		{Name: "..", Ino: 2},
		{Name: "foo", Ino: 200},
	})
	dev.writeAt(0, buf)

	ino := &Inode{
		Ino:      128,
		Mode:     modeFmtDir,
		Format:   InodeFormatExtents,
		NExtents: 1,
		DataFork: encodeExtentForTest(Extent{StartOffset: 0, StartBlock: 0, BlockCount: 1}),
	}

	gotIno, _, err := LookupName(v, ino, "foo")
	require.NoError(t, err)
	assert.Equal(t, uint64(200), gotIno)

	_, _, err = LookupName(v, ino, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
