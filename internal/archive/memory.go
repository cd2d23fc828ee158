package archive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"scanrecon/internal/scan"
)

// MemoryArchive keeps reports in memory. Safe for concurrent use.
type MemoryArchive struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{reports: make(map[string][]byte)}
}

func (m *MemoryArchive) Put(_ context.Context, name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[name] = data
	return nil
}

func (m *MemoryArchive) Location(name string) string {
	return "memory:" + name
}

// Get returns a stored report.
func (m *MemoryArchive) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.reports[name]
	return data, ok
}

// Names returns the stored report names, sorted.
func (m *MemoryArchive) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.reports))
	for name := range m.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ scan.ReportArchive = (*MemoryArchive)(nil)
