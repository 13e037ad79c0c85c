// Package syncfs serializes access to a billy filesystem. Some billy
// implementations, memfs among them, keep their tree in unsynchronized maps
// and must not be used from several goroutines directly.
package syncfs

import (
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
)

// FS guards every call on the wrapped filesystem, and on files opened
// through it, with one mutex.
type FS struct {
	mu *sync.Mutex
	fs billy.Filesystem
}

// New wraps fs. Wrapping an *FS returns it unchanged.
func New(fs billy.Filesystem) billy.Filesystem {
	if s, ok := fs.(*FS); ok {
		return s
	}
	return &FS{mu: &sync.Mutex{}, fs: fs}
}

// Unwrap returns the guarded filesystem.
func (s *FS) Unwrap() billy.Filesystem { return s.fs }

func (s *FS) file(f billy.File, err error) (billy.File, error) {
	if err != nil {
		return nil, err
	}
	return &file{File: f, mu: s.mu}, nil
}

func (s *FS) Create(filename string) (billy.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file(s.fs.Create(filename))
}

func (s *FS) Open(filename string) (billy.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file(s.fs.Open(filename))
}

func (s *FS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file(s.fs.OpenFile(filename, flag, perm))
}

func (s *FS) Stat(filename string) (os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Stat(filename)
}

func (s *FS) Rename(oldpath, newpath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Rename(oldpath, newpath)
}

func (s *FS) Remove(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Remove(filename)
}

func (s *FS) Join(elem ...string) string {
	return s.fs.Join(elem...)
}

func (s *FS) TempFile(dir, prefix string) (billy.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file(s.fs.TempFile(dir, prefix))
}

func (s *FS) ReadDir(path string) ([]os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.ReadDir(path)
}

func (s *FS) MkdirAll(filename string, perm os.FileMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.MkdirAll(filename, perm)
}

func (s *FS) Lstat(filename string) (os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Lstat(filename)
}

func (s *FS) Symlink(target, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Symlink(target, link)
}

func (s *FS) Readlink(link string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Readlink(link)
}

// Chroot returns a view of path that shares this filesystem's lock.
func (s *FS) Chroot(path string) (billy.Filesystem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, err := s.fs.Chroot(path)
	if err != nil {
		return nil, err
	}
	return &FS{mu: s.mu, fs: sub}, nil
}

func (s *FS) Root() string {
	return s.fs.Root()
}

func (s *FS) Capabilities() billy.Capability {
	return billy.Capabilities(s.fs)
}

// file takes the filesystem lock for each operation on an open file.
type file struct {
	billy.File
	mu *sync.Mutex
}

func (f *file) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Read(p)
}

func (f *file) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.ReadAt(p, off)
}

func (f *file) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Write(p)
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Seek(offset, whence)
}

func (f *file) Truncate(size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Truncate(size)
}

func (f *file) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Close()
}
