package xfs

import (
	"hash/crc32"
)

// crc32cTable is the Castagnoli CRC-32 table. The standard library already
// dispatches to hardware CRC32 instructions (SSE4.2 on amd64, the CRC
// extension on arm64) for this polynomial, which is why the core reaches for
// hash/crc32 instead of a third-party reimplementation — see DESIGN.md.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// crcSeed is XFS_CRC_SEED: the ones'-complement of zero.
const crcSeed = ^uint32(0)

// startChecksumSafe computes the intermediate CRC32C of buf, treating the
// 4-byte field at offset as zero, without mutating buf. Ported directly from
// the Haiku driver's xfs_start_cksum_safe (original_source Checksum.h): CRC
// up to the field, CRC of four zero bytes standing in for the field, then
// CRC of the remainder.
func startChecksumSafe(buf []byte, offset int) uint32 {
	crc := crc32.Update(crcSeed, crc32cTable, buf[:offset])
	var zero [4]byte
	crc = crc32.Update(crc, crc32cTable, zero[:])
	crc = crc32.Update(crc, crc32cTable, buf[offset+4:])
	return crc
}

// VerifyCRC reports whether the CRC32C stored (big-endian) at buf[offset:offset+4]
// matches the checksum of the rest of the block. This is the "safe" form of
// spec.md §4.1: it never mutates buf.
func VerifyCRC(buf []byte, offset int) bool {
	if offset < 0 || offset+4 > len(buf) {
		return false
	}
	crc := startChecksumSafe(buf, offset)
	stored := be32(buf[offset:])
	return stored == ^crc
}

// UpdateCRC computes and writes the CRC32C for buf at offset, mutating buf.
// This is the "update" form spec.md §4.1 specifies only for symmetry with a
// writer; the read-only core never calls it, but its presence keeps
// VerifyCRC and UpdateCRC provably inverse (spec.md §8 invariant 2).
func UpdateCRC(buf []byte, offset int) {
	var zero [4]byte
	copy(buf[offset:offset+4], zero[:])
	crc := crc32.Update(crcSeed, crc32cTable, buf)
	putBE32(buf[offset:], ^crc)
}

// be16/be32/be64 decode big-endian unsigned integers, the wire order of every
// multi-byte XFS on-disk field (spec.md §4.1).
func be16(b []byte) uint16 {
	_ = b[1]
	return uint16(b[0])<<8 | uint16(b[1])
}

func be32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be64(b []byte) uint64 {
	_ = b[7]
	return uint64(be32(b))<<32 | uint64(be32(b[4:]))
}

func putBE16(b []byte, v uint16) {
	_ = b[1]
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func putBE32(b []byte, v uint32) {
	_ = b[3]
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func putBE64(b []byte, v uint64) {
	_ = b[7]
	putBE32(b, uint32(v>>32))
	putBE32(b[4:], uint32(v))
}
