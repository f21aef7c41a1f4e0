package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/arcadeforge/system-catalog/syscat/registry"
)

// Entry is the derived, display-ready view over one registry record. The
// build worker is the only writer; once the relevant phase is published an
// Entry field is immutable, except Available which the display layer sets
// from the override list.
type Entry struct {
	Record *registry.Record
	Index  int // stable registry index

	IsClone     bool
	Description string // resolved display title (localized or default)
	Parent      string // parent's resolved title, or raw parent identifier

	// Phonetic reading variants from the localized titles file. Preferred
	// over the description for collation when present.
	Reading       string
	ReadingParent string

	// Normalized search keys, computed phase by phase over the sorted list.
	KeyShortName        string
	KeyDescription      string
	KeyManufDesc        string
	KeyDefaultDesc      string // empty when the default title equals Description
	KeyManufDefaultDesc string
	KeyReading          string
	KeyManufReading     string

	// Available is set by the display layer from the override list.
	Available bool
}

// sortName is the collation key source: reading preferred over description.
func (e *Entry) sortName() string {
	if e.Reading != "" {
		return e.Reading
	}
	return e.Description
}

// sortParent is the collation key source for the parent title.
func (e *Entry) sortParent() string {
	if e.ReadingParent != "" {
		return e.ReadingParent
	}
	return e.Parent
}

// NormalizeKey converts a string to the decomposed, case-insensitive form
// shared by all search keys and queries.
func NormalizeKey(s string) string {
	return norm.NFD.String(cases.Fold().String(s))
}
