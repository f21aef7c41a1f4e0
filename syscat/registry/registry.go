package registry

import (
	"fmt"

	"github.com/armon/go-radix"
)

// Flags describe fixed properties of a registry record.
type Flags uint32

const (
	// FlagRootSystem marks a base platform record. Root systems are counted
	// separately and never make their children display as clones.
	FlagRootSystem Flags = 1 << iota
	// FlagSentinel marks the placeholder record. It keeps registry indices
	// stable but must never appear in derived output.
	FlagSentinel
)

// Record is an immutable source-of-truth entry describing one supported
// system. Index is stable for the process lifetime.
type Record struct {
	Index        int
	Name         string // short identifier, unique within the registry
	Parent       string // short identifier of the parent record, empty for none
	Description  string // default untranslated display title
	Manufacturer string
	Year         string
	Flags        Flags
}

// IsRoot reports whether the record is a base platform.
func (r *Record) IsRoot() bool { return r.Flags&FlagRootSystem != 0 }

// IsSentinel reports whether the record is the placeholder entry.
func (r *Record) IsSentinel() bool { return r.Flags&FlagSentinel != 0 }

// HasParent reports whether the record names a parent identifier.
func (r *Record) HasParent() bool { return r.Parent != "" }

// List is a read-only ordered registry with O(k) identifier lookups backed
// by a compressed trie (patricia tree), where k is the identifier length.
// Records must be supplied in ascending identifier order; downstream
// consumers rely on that ordering for binary searches.
type List struct {
	records []Record
	tree    *radix.Tree
}

// NewList validates and indexes the supplied records. Indices are assigned
// from position. Exactly one sentinel record is required.
func NewList(records []Record) (*List, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("registry must contain at least the sentinel record")
	}

	l := &List{
		records: make([]Record, len(records)),
		tree:    radix.New(),
	}

	sentinels := 0
	for i, rec := range records {
		if i > 0 && records[i-1].Name >= rec.Name {
			return nil, fmt.Errorf("registry records out of order at %q (after %q)", rec.Name, records[i-1].Name)
		}
		rec.Index = i
		l.records[i] = rec
		l.tree.Insert(rec.Name, i)
		if rec.IsSentinel() {
			sentinels++
		}
	}

	if sentinels != 1 {
		return nil, fmt.Errorf("registry must contain exactly one sentinel record, found %d", sentinels)
	}

	return l, nil
}

// Count returns the number of records, including the sentinel.
func (l *List) Count() int { return len(l.records) }

// At returns the record at the given stable index.
func (l *List) At(i int) *Record { return &l.records[i] }

// Find returns the index of the record with the given short identifier.
func (l *List) Find(name string) (int, bool) {
	v, ok := l.tree.Get(name)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// NamesWithPrefix returns the identifiers sharing the given prefix in
// ascending order. Used for identifier completion in the display layer.
func (l *List) NamesWithPrefix(prefix string) []string {
	var names []string
	l.tree.WalkPrefix(prefix, func(s string, _ interface{}) bool {
		names = append(names, s)
		return false
	})
	return names
}

// Sentinel returns the index of the placeholder record.
func (l *List) Sentinel() int {
	for i := range l.records {
		if l.records[i].IsSentinel() {
			return i
		}
	}
	// NewList guarantees a sentinel exists
	return -1
}
