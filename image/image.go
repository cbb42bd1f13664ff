package image

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/ezrec/rrmachine/machine"
)

// load reads a full image, replacing memory only on success.
func load(m *machine.Machine, r io.Reader, name string) (err error) {
	var data [machine.MEMORY_SIZE]uint8

	_, err = io.ReadFull(r, data[:])
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ErrImage{Name: name, Kind: ErrShortInput, Err: err}
	}
	if err != nil {
		return &ErrImage{Name: name, Kind: ErrUnreadable, Err: err}
	}

	m.Memory = data

	return
}

// save writes all of memory.
func save(m *machine.Machine, w io.Writer, name string) (err error) {
	n, err := w.Write(m.Memory[:])
	if err == nil && n != len(m.Memory) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &ErrImage{Name: name, Kind: ErrUnwritable, Err: err}
	}

	return
}

// Load replaces memory with exactly MEMORY_SIZE bytes from a reader.
func Load(m *machine.Machine, r io.Reader) (err error) {
	return load(m, r, "")
}

// Save writes exactly MEMORY_SIZE bytes of memory to a writer.
func Save(m *machine.Machine, w io.Writer) (err error) {
	return save(m, w, "")
}

// LoadFS loads an image from a file system.
func LoadFS(m *machine.Machine, fsys fs.FS, name string) (err error) {
	file, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return &ErrImage{Name: name, Kind: ErrNotFound, Err: err}
	}
	if err != nil {
		return &ErrImage{Name: name, Kind: ErrUnreadable, Err: err}
	}
	defer file.Close()

	return load(m, file, name)
}

// SaveFS saves an image to a file system.
func SaveFS(m *machine.Machine, fsys CreateFS, name string) (err error) {
	file, err := fsys.Create(name)
	if err != nil {
		return &ErrImage{Name: name, Kind: ErrUnwritable, Err: err}
	}

	err = save(m, file, name)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()
	if err != nil {
		return &ErrImage{Name: name, Kind: ErrUnwritable, Err: err}
	}

	return
}

// ReadFile loads an image from a host file path.
func ReadFile(m *machine.Machine, path string) (err error) {
	return LoadFS(m, Dir(filepath.Dir(path)), filepath.Base(path))
}

// WriteFile saves an image to a host file path.
func WriteFile(m *machine.Machine, path string) (err error) {
	return SaveFS(m, Dir(filepath.Dir(path)), filepath.Base(path))
}
