package catalog

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator wraps a locale-aware string comparison for the sort pass. Not
// safe for concurrent use; only the build worker sorts.
type collator struct {
	coll *collate.Collator
}

func newCollator(tag language.Tag) *collator {
	return &collator{coll: collate.New(tag)}
}

func (c *collator) compare(x, y string) int {
	return c.coll.CompareString(x, y)
}

// less implements the display total order over catalog entries. Parent
// entries are immediately followed by their clones; unrelated families sort
// alphabetically by collated title, reading preferred when present.
func (c *collator) less(lhs, rhs *Entry) bool {
	switch {
	case !lhs.IsClone && !rhs.IsClone:
		return c.compare(lhs.sortName(), rhs.sortName()) < 0

	case lhs.IsClone && rhs.IsClone:
		if lhs.Record.Parent == rhs.Record.Parent {
			return c.compare(lhs.sortName(), rhs.sortName()) < 0
		}
		return c.compare(lhs.sortParent(), rhs.sortParent()) < 0

	case !lhs.IsClone && rhs.IsClone:
		if lhs.Record.Name == rhs.Record.Parent {
			return true
		}
		return c.compare(lhs.sortName(), rhs.sortParent()) < 0

	default: // lhs clone, rhs non-clone
		if rhs.Record.Name == lhs.Record.Parent {
			return false
		}
		return c.compare(lhs.sortParent(), rhs.sortName()) < 0
	}
}
