package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildShortAttrBuf(entries []AttrEntry) []byte {
	buf := []byte{0, 0, byte(len(entries)), 0}
	for _, e := range entries {
		buf = append(buf, byte(len(e.Name)), byte(len(e.Value)), 0)
		buf = append(buf, []byte(e.Name)...)
		buf = append(buf, e.Value...)
	}
	return buf
}

func TestReadShortAttrsRoundTrip(t *testing.T) {
	want := []AttrEntry{
		{Name: "user.comment", Value: []byte("hi")},
		{Name: "security.selinux", Value: []byte("unconfined_u")},
	}
	ino := &Inode{AttrFork: buildShortAttrBuf(want)}

	got, err := readShortAttrs(ino)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].Name, got[0].Name)
	assert.Equal(t, want[0].Value, got[0].Value)
	assert.Equal(t, want[1].Name, got[1].Name)
	assert.Equal(t, want[1].Value, got[1].Value)
}

func TestReadShortAttrsRejectsTruncatedHeader(t *testing.T) {
	_, err := readShortAttrs(&Inode{AttrFork: []byte{1, 2}})
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReadShortAttrsRejectsTruncatedValue(t *testing.T) {
	buf := []byte{0, 0, 1, 0, 5, 2, 0, 'h', 'i'} // namelen 5 but only 2 bytes of name/value follow
	_, err := readShortAttrs(&Inode{AttrFork: buf})
	assert.ErrorIs(t, err, ErrCorrupt)
}
