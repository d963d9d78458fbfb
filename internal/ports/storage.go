package ports

// StoragePort is byte level access to named manifest files. Implementations
// never create files: Write fails with errbuilder.CodeNotFound when the
// target does not exist yet.
type StoragePort interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error

	// IsDir reports whether path names an existing directory.
	IsDir(path string) bool

	// Glob returns the paths matching pattern, sorted.
	Glob(pattern string) ([]string, error)
}
