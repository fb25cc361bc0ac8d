// Package fsutil wraps the atomic POSIX rename primitive (spec §4.1,
// C1) and the claimed-file receipt built on top of it (spec §4.2, C2).
package fsutil

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// RenameOutcome classifies the result of Rename, per spec §4.1.
type RenameOutcome int

const (
	RenameOK RenameOutcome = iota
	RenameNotFound
	RenamePermissionDenied
	RenameOther
)

func (o RenameOutcome) String() string {
	switch o {
	case RenameOK:
		return "ok"
	case RenameNotFound:
		return "not-found"
	case RenamePermissionDenied:
		return "permission-denied"
	default:
		return "other"
	}
}

// Rename invokes the platform's atomic rename primitive so that any
// observer sees either source or destination, never both. This
// atomicity is the sole invariant the FS-claim protocol (collector
// package) rests on (spec §5, "FS claim protocol").
func Rename(source, destination string) (RenameOutcome, error) {
	err := os.Rename(source, destination)
	if err == nil {
		return RenameOK, nil
	}

	var errno unix.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.ENOENT:
			return RenameNotFound, err
		case unix.EACCES, unix.EPERM:
			return RenamePermissionDenied, err
		}
	}
	if os.IsNotExist(err) {
		return RenameNotFound, err
	}
	if os.IsPermission(err) {
		return RenamePermissionDenied, err
	}
	return RenameOther, err
}
