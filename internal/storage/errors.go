package storage

import "fmt"

// StorageMissingError means the backing file does not exist. Stores are
// expected to be pre-created with an empty default at startup.
type StorageMissingError struct {
	Path string
	Err  error
}

func (e *StorageMissingError) Error() string {
	return fmt.Sprintf("store %s is missing: %v", e.Path, e.Err)
}

func (e *StorageMissingError) Unwrap() error {
	return e.Err
}

// StorageCorruptError means the file exists but does not decode into the
// expected shape.
type StorageCorruptError struct {
	Path string
	Err  error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("store %s is corrupt: %v", e.Path, e.Err)
}

func (e *StorageCorruptError) Unwrap() error {
	return e.Err
}
