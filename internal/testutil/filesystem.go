package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"scanrecon/internal/scan"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Paths are absolute and slash separated. Failures can be injected per path.
type MockFilesystemManager struct {
	files     map[string]*MockFile
	copyFails map[string]error
	mkdirFail map[string]error
}

// NewMockFilesystemManager creates a new mock filesystem containing only "/".
func NewMockFilesystemManager() *MockFilesystemManager {
	m := &MockFilesystemManager{
		files:     make(map[string]*MockFile),
		copyFails: make(map[string]error),
		mkdirFail: make(map[string]error),
	}
	m.files["/"] = &MockFile{Permissions: 0755, IsDirectory: true}
	return m
}

// AddFile adds a file to the mock filesystem, creating missing parents.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	path = filepath.Clean(path)
	m.AddDirectory(filepath.Dir(path))
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     time.Now(),
	}
}

// AddDirectory adds a directory and its missing parents.
func (m *MockFilesystemManager) AddDirectory(path string) {
	path = filepath.Clean(path)
	for p := path; ; p = filepath.Dir(p) {
		if _, ok := m.files[p]; !ok {
			m.files[p] = &MockFile{Permissions: 0755, ModTime: time.Now(), IsDirectory: true}
		}
		if p == "/" || p == "." {
			return
		}
	}
}

// FailCopy makes CopyFile fail with err whenever src is copied.
func (m *MockFilesystemManager) FailCopy(src string, err error) {
	m.copyFails[filepath.Clean(src)] = err
}

// FailMkdir makes Mkdir fail with err for path.
func (m *MockFilesystemManager) FailMkdir(path string, err error) {
	m.mkdirFail[filepath.Clean(path)] = err
}

// Exists reports whether path is present.
func (m *MockFilesystemManager) Exists(path string) bool {
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// ReadFile returns a file's content.
func (m *MockFilesystemManager) ReadFile(path string) ([]byte, bool) {
	f, ok := m.files[filepath.Clean(path)]
	if !ok || f.IsDirectory {
		return nil, false
	}
	return f.Content, true
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*scan.Path, error) {
	absPath := filepath.Clean(rawPath)
	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("stat %s: %w", absPath, fs.ErrNotExist)
	}
	return scan.NewPath(absPath, file.IsDirectory, m.info(absPath, file)), nil
}

func (m *MockFilesystemManager) FindFiles(root *scan.Path) ([]scan.FileEntry, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}
	var entries []scan.FileEntry
	for _, p := range m.sortedPaths() {
		f := m.files[p]
		rel, ok := relativeTo(root.String(), p)
		if !ok || f.IsDirectory {
			continue
		}
		entries = append(entries, scan.FileEntry{RelativePath: rel, Size: int64(len(f.Content))})
	}
	return entries, nil
}

func (m *MockFilesystemManager) ListDirs(root *scan.Path) ([]string, error) {
	var names []string
	for _, p := range m.sortedPaths() {
		rel, ok := relativeTo(root.String(), p)
		if !ok || strings.Contains(rel, "/") || !m.files[p].IsDirectory {
			continue
		}
		names = append(names, rel)
	}
	return names, nil
}

func (m *MockFilesystemManager) Mkdir(path string) error {
	path = filepath.Clean(path)
	if err, ok := m.mkdirFail[path]; ok {
		return err
	}
	if _, ok := m.files[path]; ok {
		return fmt.Errorf("mkdir %s: %w", path, fs.ErrExist)
	}
	parent, ok := m.files[filepath.Dir(path)]
	if !ok || !parent.IsDirectory {
		return fmt.Errorf("mkdir %s: %w", path, fs.ErrNotExist)
	}
	m.files[path] = &MockFile{Permissions: 0755, ModTime: time.Now(), IsDirectory: true}
	return nil
}

func (m *MockFilesystemManager) CopyFile(src, dst string) (int64, error) {
	src = filepath.Clean(src)
	if err, ok := m.copyFails[src]; ok {
		return 0, err
	}
	f, ok := m.files[src]
	if !ok || f.IsDirectory {
		return 0, fmt.Errorf("opening source: %w", fs.ErrNotExist)
	}
	content := append([]byte(nil), f.Content...)
	m.AddFile(dst, content)
	return int64(len(content)), nil
}

func (m *MockFilesystemManager) sortedPaths() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MockFilesystemManager) info(path string, file *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(file.Content)),
		mode:    file.Permissions,
		modTime: file.ModTime,
		isDir:   file.IsDirectory,
	}
}

// relativeTo returns p relative to root when p lies strictly inside root.
func relativeTo(root, p string) (string, bool) {
	prefix := root
	if prefix != "/" {
		prefix += "/"
	}
	if !strings.HasPrefix(p, prefix) || p == root {
		return "", false
	}
	return p[len(prefix):], true
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// Compile-time check
var _ scan.FilesystemManager = (*MockFilesystemManager)(nil)
