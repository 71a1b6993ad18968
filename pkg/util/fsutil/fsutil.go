package fsutil

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/slimtoolkit/imgpkg/pkg/util/errutil"
)

const imageArchiveExt = ".tar"

// Directory and file related errors
var (
	ErrNoDstDir = errors.New("no destination directory path")
	ErrNotDir   = errors.New("destination is not a directory")
)

// Remove removes the artifacts generated during the current application execution
func Remove(artifactLocation string) error {
	return os.RemoveAll(artifactLocation)
}

// Exists returns true if the target file system object exists
func Exists(target string) bool {
	if _, err := os.Stat(target); err != nil {
		return false
	}

	return true
}

// DirExists returns true if the target exists and it's a directory
func DirExists(target string) bool {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return true
	}

	return false
}

// IsRegularFile returns true if the target file system object is a regular file
func IsRegularFile(target string) bool {
	info, err := os.Lstat(target)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

// FileSize returns the size of the target file (-1 if it can't be checked)
func FileSize(target string) int64 {
	info, err := os.Stat(target)
	if err != nil {
		log.Debugf("fsutil.FileSize(%s): error - %v", target, err)
		return -1
	}

	return info.Size()
}

func HasReadAccess(dst string) (bool, error) {
	err := unix.Access(dst, unix.R_OK)
	if err == nil {
		return true, nil
	}

	if err == unix.EACCES {
		return false, nil
	}

	return false, err
}

func HasWriteAccess(dst string) (bool, error) {
	err := unix.Access(dst, unix.W_OK)
	if err == nil {
		return true, nil
	}

	if err == unix.EACCES {
		return false, nil
	}

	return false, err
}

// FileDir returns the directory information for the given file
func FileDir(fileName string) string {
	abs, err := filepath.Abs(fileName)
	errutil.FailOn(err)
	return filepath.Dir(abs)
}

// ExeDir returns the directory information for the application
func ExeDir() string {
	exePath, err := os.Executable()
	errutil.FailOn(err)
	return filepath.Dir(exePath)
}

// TempArchivePath returns a unique, not yet existing, image archive path in dir
// (the system temp directory if dir is empty). The directory must be writable.
func TempArchivePath(dir, prefix string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	if !DirExists(dir) {
		if Exists(dir) {
			return "", ErrNotDir
		}

		return "", ErrNoDstDir
	}

	canWrite, err := HasWriteAccess(dir)
	if err != nil {
		return "", err
	}

	if !canWrite {
		return "", os.ErrPermission
	}

	return filepath.Join(dir, prefix+uuid.New().String()+imageArchiveExt), nil
}
