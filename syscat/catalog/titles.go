package catalog

import (
	"bufio"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// loadTitles reads the line-oriented localized titles resource:
// identifier<TAB>description[<TAB>reading]. The entry list must still be in
// identifier order. Unknown identifiers are ignored; the registry is
// authoritative. The first non-empty description for an identifier wins.
func (s *Service) loadTitles(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		name, rest, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}

		// still sorted by identifier at this point
		i := sort.Search(len(s.entries), func(i int) bool {
			return s.entries[i].Record.Name >= name
		})
		if i == len(s.entries) || s.entries[i].Record.Name != name {
			continue
		}
		entry := &s.entries[i]

		desc, rest, hasReading := strings.Cut(rest, "\t")
		desc = strings.TrimSpace(desc)
		switch {
		case desc == "":
			slog.Warn("Empty translated description for system", "system", name)
		case entry.Description != "":
			slog.Warn("Multiple translated descriptions for system",
				"system", name,
				"kept", entry.Description,
				"ignored", desc)
		default:
			entry.Description = desc
		}

		if !hasReading {
			continue
		}
		reading, _, _ := strings.Cut(rest, "\t")
		reading = strings.TrimSpace(reading)
		if reading == "" {
			slog.Warn("Empty translated description reading for system", "system", name)
			continue
		}
		entry.Reading = reading
		entry.KeyReading = NormalizeKey(reading)
		entry.KeyManufReading = NormalizeKey(entry.Record.Manufacturer + " " + reading)
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("Error reading localized titles", "error", err)
	}

	// fill in untranslated descriptions
	for i := range s.entries {
		if s.entries[i].Description == "" {
			s.entries[i].Description = s.entries[i].Record.Description
		}
	}
}

// populateParents resolves clone parent titles while the entry list is
// still in identifier order.
func (s *Service) populateParents() {
	for i := range s.entries {
		entry := &s.entries[i]
		if !entry.Record.HasParent() {
			continue
		}
		parent := entry.Record.Parent
		j := sort.Search(len(s.entries), func(j int) bool {
			return s.entries[j].Record.Name >= parent
		})
		if j < len(s.entries) && s.entries[j].Record.Name == parent {
			entry.Parent = s.entries[j].Description
			entry.ReadingParent = s.entries[j].Reading
		} else {
			entry.Parent = parent
		}
	}
}
