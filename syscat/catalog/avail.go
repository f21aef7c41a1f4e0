package catalog

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ApplyAvailable marks entries named in the override list as available and
// every other entry as unavailable. The resource is a plain identifier
// list: blank lines and '#' comments are ignored, a '[' section heading
// terminates the listing. Blocks until the sorted list is published.
// Returns the number of entries marked available.
func (s *Service) ApplyAvailable(r io.Reader) int {
	available := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			break
		}
		available[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("Error reading availability override list", "error", err)
	}

	marked := 0
	entries := s.SortedEntries()
	for i := range entries {
		_, found := available[entries[i].Record.Name]
		entries[i].Available = found
		if found {
			marked++
		}
	}
	return marked
}

// LoadAvailable applies the override list at the given path. A missing or
// unreadable file silently degrades: no availability flags change and the
// return is false.
func (s *Service) LoadAvailable(path string) bool {
	if path == "" {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		slog.Debug("Availability override list unavailable", "path", path, "error", err)
		return false
	}
	defer f.Close()
	s.ApplyAvailable(f)
	return true
}
