package fs

import (
	"bufio"
	"fmt"
	"os"
)

// ParseJunkFile reads a list of junk file names, one per line.
// Blank lines and '#' comments are returned as-is; scan.NewJunkSet drops them.
// Returns nil and no error if the file does not exist.
func ParseJunkFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening junk file: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		names = append(names, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading junk file: %w", err)
	}
	return names, nil
}
