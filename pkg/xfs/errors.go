package xfs

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Error taxonomy (spec.md §7). Every error the core returns satisfies
// errors.Is against exactly one of these sentinels; callers should never
// need to inspect anything besides these plus the wrapped message for
// diagnostics.
var (
	ErrIO                = errors.New("xfs: i/o error")
	ErrBadSuperblock     = errors.New("xfs: bad superblock")
	ErrUnsupportedVersion = errors.New("xfs: unsupported feature version")
	ErrCorrupt           = errors.New("xfs: corrupt filesystem structure")
	ErrNotFound          = errors.New("xfs: not found")
	ErrNotSupported      = errors.New("xfs: operation not supported for this inode format")
	ErrNameTooLong       = errors.New("xfs: name too long")
	ErrBufferTooSmall    = errors.New("xfs: buffer too small")
	ErrBadArgument       = errors.New("xfs: bad argument")
)

// corrupt wraps ErrCorrupt with inode/block/offset context, the single
// choke point spec.md §7 asks for ("CORRUPT is logged with context").
func corrupt(format string, args ...interface{}) error {
	err := pkgerrors.Wrap(ErrCorrupt, fmt.Sprintf(format, args...))
	logrus.Errorf("%v", err)
	return err
}

func ioError(format string, args ...interface{}) error {
	return pkgerrors.Wrap(ErrIO, fmt.Sprintf(format, args...))
}

func badSuperblock(format string, args ...interface{}) error {
	return pkgerrors.Wrap(ErrBadSuperblock, fmt.Sprintf(format, args...))
}

func unsupportedVersion(format string, args ...interface{}) error {
	return pkgerrors.Wrap(ErrUnsupportedVersion, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...interface{}) error {
	return pkgerrors.Wrap(ErrNotFound, fmt.Sprintf(format, args...))
}

func notSupported(format string, args ...interface{}) error {
	return pkgerrors.Wrap(ErrNotSupported, fmt.Sprintf(format, args...))
}

func badArgument(format string, args ...interface{}) error {
	return pkgerrors.Wrap(ErrBadArgument, fmt.Sprintf(format, args...))
}
