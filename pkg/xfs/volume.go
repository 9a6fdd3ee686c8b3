package xfs

import (
	"io"
	"os"

	"github.com/google/uuid"
)

// BlockDevice is the external collaborator spec.md §1/§6 names: a function
// reading exactly length bytes from a byte offset. The core performs no
// write; implementations only need to support reads.
type BlockDevice interface {
	ReadAt(offset int64, length int) ([]byte, error)
}

// FileDevice adapts an *os.File (or any io.ReaderAt) to BlockDevice, the way
// the teacher's vdecompiler.IO wrapped a disk image file for its read
// operations.
type FileDevice struct {
	r io.ReaderAt
}

// NewFileDevice wraps r as a BlockDevice.
func NewFileDevice(r io.ReaderAt) *FileDevice {
	return &FileDevice{r: r}
}

// OpenFileDevice opens path read-only and wraps it as a BlockDevice.
func OpenFileDevice(path string) (*FileDevice, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, ioError("opening %s: %v", path, err)
	}
	return NewFileDevice(f), f, nil
}

// ReadAt reads exactly length bytes at offset, surfacing any short read as
// ErrIO (spec.md §6: "partial-read failure returning IO_ERROR").
func (d *FileDevice) ReadAt(offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	n, err := d.r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, ioError("reading %d bytes at %d: %v", length, offset, err)
	}
	if n != length {
		return nil, ioError("short read at %d: wanted %d, got %d", offset, length, n)
	}
	return buf, nil
}

// Volume is a handle on a device plus its validated Superblock. It is
// immutable after Mount and safe to share across concurrent requests,
// provided each request keeps its own walker state (spec.md §5).
type Volume struct {
	Device BlockDevice
	SB     *Superblock
}

// Mount loads and validates the superblock at byte 0 of dev and returns the
// resulting Volume (spec.md §4.2 "load(device) -> Superblock").
func Mount(dev BlockDevice) (*Volume, error) {
	sb, err := loadSuperblock(dev)
	if err != nil {
		return nil, err
	}
	return &Volume{Device: dev, SB: sb}, nil
}

// mask returns a bitmask of the low n bits, used throughout the inode
// number and block address arithmetic of spec.md §3.
func mask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// AGNumber decodes the allocation-group component of a packed inode number.
func (v *Volume) AGNumber(ino uint64) uint64 {
	return ino >> v.SB.AGInodeBits()
}

// AGRelativeInode decodes the allocation-group-relative component.
func (v *Volume) AGRelativeInode(ino uint64) uint64 {
	return ino & mask(v.SB.AGInodeBits())
}

// AGBlock returns the allocation-group-relative block number containing ino.
func (v *Volume) AGBlock(ino uint64) uint64 {
	rel := v.AGRelativeInode(ino)
	return (rel >> v.SB.InodesPerBlockLog) & mask(uint(v.SB.AGBlockLog))
}

// OffsetInBlock returns ino's slot index within its inode block (multiply by
// the inode size for a byte offset).
func (v *Volume) OffsetInBlock(ino uint64) uint64 {
	return v.AGRelativeInode(ino) & mask(uint(v.SB.InodesPerBlockLog))
}

// FilesystemBlockToByte converts an absolute filesystem block number to an
// absolute byte offset on the device (spec.md §4.3).
func (v *Volume) FilesystemBlockToByte(fsb uint64) int64 {
	agBlockLog := uint(v.SB.AGBlockLog)
	ag := fsb >> agBlockLog
	rel := fsb & mask(agBlockLog)
	block := ag*uint64(v.SB.AGBlockCount) + rel
	return int64(block) << v.SB.BlockLog
}

// InodeToByte converts a packed inode number to an absolute byte offset of
// its on-disk inode core (spec.md §4.3).
func (v *Volume) InodeToByte(ino uint64) int64 {
	fsBlock := v.AGNumber(ino)*uint64(v.SB.AGBlockCount) + v.AGBlock(ino)
	return v.FilesystemBlockToByte(fsBlock) + int64(v.OffsetInBlock(ino))*int64(v.SB.InodeSize)
}

// DirBlockBytes is the size of one logical directory block, which may span
// several filesystem blocks when dir_block_log > 0 (spec.md §3).
func (v *Volume) DirBlockBytes() int {
	return int(v.SB.BlockSize) << v.SB.DirBlockLog
}

// DirBlockFSBlocks is the number of filesystem blocks spanned by one
// logical directory block.
func (v *Volume) DirBlockFSBlocks() uint64 {
	return uint64(1) << v.SB.DirBlockLog
}

// BlockNumberForVerify converts a filesystem block number to the unit a
// v5 block's self-describing "blkno" field is stored in: its byte address
// divided by the fixed 512-byte basic block size, independent of the
// volume's actual sector size (spec.md §4.4, matching the original driver's
// FileSystemBlockToAddr(...)/XFS_MIN_BLOCKSIZE).
func (v *Volume) BlockNumberForVerify(fsb uint64) uint64 {
	return uint64(v.FilesystemBlockToByte(fsb)) / 512
}

// UUIDEquals reports whether u matches the volume's owning UUID (meta_uuid
// when INCOMPAT_META_UUID is set, else the volume uuid itself).
func (v *Volume) UUIDEquals(u uuid.UUID) bool {
	return u == v.SB.MetaUUID
}

// ReadAt is a convenience wrapper around the device, used by every walker.
func (v *Volume) ReadAt(offset int64, length int) ([]byte, error) {
	return v.Device.ReadAt(offset, length)
}
