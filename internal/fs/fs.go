package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
)

// File is an open file.
type File interface {
	Name() string
	Read(p []byte) (int, error)
	ReadAt(p []byte, off int64) (int, error)
	Write(p []byte) (int, error)
	Sync() error
	Stat() (os.FileInfo, error)
	Close() error
}

// FileSystem abstracts the file operations of the local blob store.
type FileSystem interface {
	Open(name string) (File, error)
	CreateTemp(dir, pattern string) (File, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
	MkdirAll(path string, perm os.FileMode) error
	WalkDir(root string, fn iofs.WalkDirFunc) error
}

// LocalFS implements FileSystem using the os package.
type LocalFS struct{}

func (LocalFS) Open(name string) (File, error) { return os.Open(name) }

func (LocalFS) CreateTemp(dir, pattern string) (File, error) {
	return os.CreateTemp(dir, pattern)
}

func (LocalFS) Remove(name string) error             { return os.Remove(name) }
func (LocalFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (LocalFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
func (LocalFS) WalkDir(root string, fn iofs.WalkDirFunc) error { return filepath.WalkDir(root, fn) }

// Default is the local file system.
var Default FileSystem = LocalFS{}
