//go:build !unix

package mmap

import "os"

// File is a read-only view of a file's contents.
//
// On platforms without unix mmap support the file is simply read into
// memory. The deserializer still avoids any further copies.
type File struct {
	data []byte
}

// Open reads the file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Bytes returns the file contents. The slice is valid until Close.
func (f *File) Bytes() []byte {
	return f.data
}

// Close releases the contents.
func (f *File) Close() error {
	f.data = nil
	return nil
}
