package scan

// FileEntry is a regular file discovered under a root directory.
type FileEntry struct {
	// RelativePath is slash separated and relative to the walked root.
	RelativePath string
	Size         int64
}

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path, stats it, and validates
	// it's a regular file or directory (not a device, pipe, etc.).
	// A missing path yields an error matching fs.ErrNotExist.
	Resolve(rawPath string) (*Path, error)

	// FindFiles recursively lists regular files under root in lexical order.
	// Symlinks are not followed.
	FindFiles(root *Path) ([]FileEntry, error)

	// ListDirs returns the names of the immediate subdirectories of root,
	// in lexical order.
	ListDirs(root *Path) ([]string, error)

	// Mkdir creates a single directory. The parent must already exist.
	Mkdir(path string) error

	// CopyFile copies src to dst, creating dst's parent directories.
	// dst only appears once its content is complete.
	// Returns the number of bytes copied.
	CopyFile(src, dst string) (int64, error)
}
