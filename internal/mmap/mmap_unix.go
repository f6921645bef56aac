//go:build unix

// Package mmap provides read-only memory mapping of files.
//
// Serialized automata are designed to be used without copying: the
// deserializer builds a view directly over the mapped bytes. Mapping the
// file keeps deserialization constant-time and lets several processes share
// one copy of a large transition table.
package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only view of a file's contents.
type File struct {
	data   []byte
	mapped bool
}

// Open maps the file at path into memory read-only.
//
// Empty files are handled without mapping (mmap of length zero is an error
// on most systems).
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &File{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	return &File{data: data, mapped: true}, nil
}

// Bytes returns the mapped contents. The slice is valid until Close.
func (f *File) Bytes() []byte {
	return f.data
}

// Close unmaps the file. The slice returned by Bytes must not be used
// afterwards.
func (f *File) Close() error {
	if !f.mapped {
		return nil
	}
	data := f.data
	f.data = nil
	f.mapped = false
	return unix.Munmap(data)
}
