// Package xfs is a read-only parser for the XFS filesystem on-disk format
// (protocol versions 4 and 5). It mounts a volume, looks up paths, enumerates
// directories, reads file data and extended attributes, and resolves
// symbolic links. There is no write path: repair, defragmentation, the
// journal, quota, the realtime subvolume and the reverse-mapping B+Tree are
// out of scope and are tolerated on disk, never interpreted.
package xfs
