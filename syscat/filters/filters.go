package filters

import (
	"sort"
	"sync"

	roaring "github.com/RoaringBitmap/roaring"
)

// Selection is the current filter choice. Empty fields match everything.
type Selection struct {
	Manufacturer string
	Year         string
}

// Data accumulates the distinct manufacturer and year values seen while the
// catalog is populated, then indexes sorted-list positions under each value
// as roaring bitmaps so the display layer can intersect filters cheaply.
//
// Add and Index are called only by the build worker; the display layer reads
// the finalized sets and mutates the selection.
type Data struct {
	manufacturerSet map[string]struct{}
	yearSet         map[string]struct{}

	manufacturers []string
	years         []string

	byManufacturer map[string]*roaring.Bitmap
	byYear         map[string]*roaring.Bitmap
	universe       *roaring.Bitmap

	mu      sync.RWMutex
	current Selection
}

func New() *Data {
	return &Data{
		manufacturerSet: make(map[string]struct{}),
		yearSet:         make(map[string]struct{}),
		byManufacturer:  make(map[string]*roaring.Bitmap),
		byYear:          make(map[string]*roaring.Bitmap),
		universe:        roaring.New(),
	}
}

// AddManufacturer records a manufacturer value, deduplicating repeats.
func (d *Data) AddManufacturer(manufacturer string) {
	d.manufacturerSet[manufacturer] = struct{}{}
}

// AddYear records a year value, deduplicating repeats.
func (d *Data) AddYear(year string) {
	d.yearSet[year] = struct{}{}
}

// Index registers the sorted-list position of an entry under its
// manufacturer and year posting lists.
func (d *Data) Index(pos uint32, manufacturer, year string) {
	bm, ok := d.byManufacturer[manufacturer]
	if !ok {
		bm = roaring.New()
		d.byManufacturer[manufacturer] = bm
	}
	bm.Add(pos)

	bm, ok = d.byYear[year]
	if !ok {
		bm = roaring.New()
		d.byYear[year] = bm
	}
	bm.Add(pos)

	d.universe.Add(pos)
}

// Finalize sorts the deduplicated value sets. Called once by the build
// worker after every entry has been indexed.
func (d *Data) Finalize() {
	d.manufacturers = make([]string, 0, len(d.manufacturerSet))
	for m := range d.manufacturerSet {
		d.manufacturers = append(d.manufacturers, m)
	}
	sort.Strings(d.manufacturers)

	d.years = make([]string, 0, len(d.yearSet))
	for y := range d.yearSet {
		d.years = append(d.years, y)
	}
	sort.Strings(d.years)
}

// Manufacturers returns the distinct manufacturer values in ascending order.
func (d *Data) Manufacturers() []string { return d.manufacturers }

// Years returns the distinct year values in ascending order.
func (d *Data) Years() []string { return d.years }

// Apply returns the sorted-list positions matching the selection as the
// intersection of the value posting lists.
func (d *Data) Apply(sel Selection) *roaring.Bitmap {
	res := d.clone(d.universe)
	if sel.Manufacturer != "" {
		res.And(d.orEmpty(d.byManufacturer[sel.Manufacturer]))
	}
	if sel.Year != "" {
		res.And(d.orEmpty(d.byYear[sel.Year]))
	}
	return res
}

// Selection returns the current filter choice.
func (d *Data) Selection() Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// SetSelection replaces the current filter choice.
func (d *Data) SetSelection(sel Selection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = sel
}

func (d *Data) clone(b *roaring.Bitmap) *roaring.Bitmap {
	c := roaring.New()
	c.Or(b) // copy
	return c
}

func (d *Data) orEmpty(b *roaring.Bitmap) *roaring.Bitmap {
	if b == nil {
		return roaring.New()
	}
	return b
}
