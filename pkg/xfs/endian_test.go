package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigEndianSymmetry(t *testing.T) {
	buf16 := make([]byte, 2)
	putBE16(buf16, 0xabcd)
	assert.Equal(t, uint16(0xabcd), be16(buf16))

	buf32 := make([]byte, 4)
	putBE32(buf32, 0xdeadbeef)
	assert.Equal(t, uint32(0xdeadbeef), be32(buf32))

	buf64 := make([]byte, 8)
	putBE64(buf64, 0x0123456789abcdef)
	assert.Equal(t, uint64(0x0123456789abcdef), be64(buf64))
}

func TestCRCVerifyUpdateInverse(t *testing.T) {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i * 7)
	}
	const offset = 4

	UpdateCRC(buf, offset)
	require.True(t, VerifyCRC(buf, offset))

	buf[40] ^= 0xff
	assert.False(t, VerifyCRC(buf, offset))
}

func TestVerifyCRCBoundsChecked(t *testing.T) {
	buf := make([]byte, 8)
	assert.False(t, VerifyCRC(buf, -1))
	assert.False(t, VerifyCRC(buf, 6))
}
