package xfs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// buildV5Block constructs a minimal buffer carrying a v5 generic header at
// the given offsets, with a valid CRC over the whole block.
func buildV5Block(size int, h v5Header, magic uint32, blockNo uint64, volUUID uuid.UUID, owner uint64) []byte {
	buf := make([]byte, size)
	putBE32(buf[h.magicOffset:], magic)
	putBE64(buf[h.blockNoOffset:], blockNo)
	copy(buf[h.uuidOffset:h.uuidOffset+16], volUUID[:])
	putBE64(buf[h.ownerOffset:], owner)
	UpdateCRC(buf, h.crcOffset)
	return buf
}

func TestVerifyHeaderV5AllChecksPass(t *testing.T) {
	volUUID := uuid.New()
	h := v5Header{magicOffset: 0, magicSize: 4, crcOffset: 4, blockNoOffset: 8, uuidOffset: 16, ownerOffset: 32}
	buf := buildV5Block(64, h, 0xabcd1234, 77, volUUID, 99)

	err := verifyHeader(buf, h, 0xabcd1234, 77, volUUID, 99, partBlock)
	assert.NoError(t, err)
}

func TestVerifyHeaderBadMagicShortCircuits(t *testing.T) {
	volUUID := uuid.New()
	h := v5Header{magicOffset: 0, magicSize: 4, crcOffset: 4, blockNoOffset: 8, uuidOffset: 16, ownerOffset: 32}
	buf := buildV5Block(64, h, 0xabcd1234, 77, volUUID, 99)

	err := verifyHeader(buf, h, 0xffffffff, 77, volUUID, 99, partBlock)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestVerifyHeaderBadBlockNo(t *testing.T) {
	volUUID := uuid.New()
	h := v5Header{magicOffset: 0, magicSize: 4, crcOffset: 4, blockNoOffset: 8, uuidOffset: 16, ownerOffset: 32}
	buf := buildV5Block(64, h, 0xabcd1234, 77, volUUID, 99)

	err := verifyHeader(buf, h, 0xabcd1234, 78, volUUID, 99, partBlock)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestVerifyHeaderBadUUID(t *testing.T) {
	volUUID := uuid.New()
	h := v5Header{magicOffset: 0, magicSize: 4, crcOffset: 4, blockNoOffset: 8, uuidOffset: 16, ownerOffset: 32}
	buf := buildV5Block(64, h, 0xabcd1234, 77, volUUID, 99)

	err := verifyHeader(buf, h, 0xabcd1234, 77, uuid.New(), 99, partBlock)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestVerifyHeaderBadOwner(t *testing.T) {
	volUUID := uuid.New()
	h := v5Header{magicOffset: 0, magicSize: 4, crcOffset: 4, blockNoOffset: 8, uuidOffset: 16, ownerOffset: 32}
	buf := buildV5Block(64, h, 0xabcd1234, 77, volUUID, 99)

	err := verifyHeader(buf, h, 0xabcd1234, 77, volUUID, 100, partBlock)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestVerifyHeaderV4SkipsCRCAndSelfFields(t *testing.T) {
	h := v5Header{magicOffset: 0, magicSize: 2, crcOffset: -1, blockNoOffset: -1, uuidOffset: -1, ownerOffset: -1}
	buf := make([]byte, 16)
	putBE16(buf[0:], 0x4449)

	err := verifyHeader(buf, h, 0x4449, 0, uuid.UUID{}, 0, partBlock)
	assert.NoError(t, err)
}
