package savefile

// File is a read-only view of a save on disk. On unix the contents
// are memory-mapped, so multi-hundred-megabyte saves open without a
// copy; elsewhere, and wherever mapping fails, the file is read whole.
type File struct {
	data   []byte
	mapped bool
}

// Open opens the save at path for reading. The returned File must be
// closed; its bytes are invalid after Close and must never be written.
func Open(path string) (*File, error) {
	return openMapped(path)
}

// Bytes returns the file contents. The slice is only valid until
// Close and is read-only when mapped.
func (f *File) Bytes() []byte {
	return f.data
}

// Len returns the file size in bytes.
func (f *File) Len() int {
	return len(f.data)
}

// Close releases the view. Closing a nil or already-closed File is a
// no-op.
func (f *File) Close() error {
	if f == nil || f.data == nil {
		return nil
	}
	data, mapped := f.data, f.mapped
	f.data, f.mapped = nil, false
	if !mapped {
		return nil
	}
	return munmap(data)
}
