package fakevalues

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
)

// Locator is an explicit handle to one resource. Descriptors compare locators
// by String, which must identify the resource, unless the locator also
// implements IdentifiedLocator.
type Locator interface {
	Open() (io.ReadCloser, error)
	String() string
}

// IdentifiedLocator is implemented by locators whose display name does not
// identify the resource on its own. Descriptors compare Identity instead of
// String.
type IdentifiedLocator interface {
	Locator
	Identity() string
}

// FileLocator returns a Locator for a file on the local filesystem.
func FileLocator(path string) Locator {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fileLocator{path: path}
}

type fileLocator struct {
	path string
}

func (l fileLocator) Open() (io.ReadCloser, error) {
	return os.Open(l.path)
}

func (l fileLocator) String() string {
	return "file://" + filepath.ToSlash(l.path)
}

// FSLocator returns a Locator for name inside fsys.
func FSLocator(fsys fs.FS, name string) Locator {
	return fsLocator{fsys: fsys, name: name}
}

type fsLocator struct {
	fsys fs.FS
	name string
}

func (l fsLocator) Open() (io.ReadCloser, error) {
	return l.fsys.Open(l.name)
}

func (l fsLocator) String() string {
	return "fs:" + l.name
}

// Identity qualifies the name with the filesystem it is read from, so the
// same name in two filesystems stays two resources.
func (l fsLocator) Identity() string {
	return fsIdentity(l.fsys) + "/" + l.name
}

func fsIdentity(fsys fs.FS) string {
	rv := reflect.ValueOf(fsys)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("fs:%T@%#x", fsys, rv.Pointer())
	default:
		return fmt.Sprintf("fs:%T(%v)", fsys, fsys)
	}
}
