package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func builtData() *Data {
	d := New()

	// duplicates on purpose
	d.AddManufacturer("Foologic")
	d.AddManufacturer("Barco")
	d.AddManufacturer("Foologic")
	d.AddYear("1985")
	d.AddYear("1984")
	d.AddYear("1985")

	d.Index(0, "Barco", "1984")
	d.Index(1, "Foologic", "1985")
	d.Index(2, "Foologic", "1985")
	d.Index(3, "Foologic", "1984")

	d.Finalize()
	return d
}

func TestFinalizeSortsAndDedupes(t *testing.T) {
	d := builtData()

	assert.Equal(t, []string{"Barco", "Foologic"}, d.Manufacturers())
	assert.Equal(t, []string{"1984", "1985"}, d.Years())
}

func TestApplyEmptySelectionMatchesEverything(t *testing.T) {
	d := builtData()

	got := d.Apply(Selection{})
	assert.Equal(t, []uint32{0, 1, 2, 3}, got.ToArray())
}

func TestApplySingleField(t *testing.T) {
	d := builtData()

	got := d.Apply(Selection{Manufacturer: "Foologic"})
	assert.Equal(t, []uint32{1, 2, 3}, got.ToArray())

	got = d.Apply(Selection{Year: "1984"})
	assert.Equal(t, []uint32{0, 3}, got.ToArray())
}

func TestApplyIntersectsFields(t *testing.T) {
	d := builtData()

	got := d.Apply(Selection{Manufacturer: "Foologic", Year: "1984"})
	assert.Equal(t, []uint32{3}, got.ToArray())
}

func TestApplyUnknownValueMatchesNothing(t *testing.T) {
	d := builtData()

	got := d.Apply(Selection{Manufacturer: "Nobody"})
	assert.True(t, got.IsEmpty())
}

func TestSelectionRoundTrip(t *testing.T) {
	d := builtData()

	assert.Equal(t, Selection{}, d.Selection())

	sel := Selection{Manufacturer: "Barco", Year: "1984"}
	d.SetSelection(sel)
	assert.Equal(t, sel, d.Selection())
}

func TestApplyDoesNotMutatePostingLists(t *testing.T) {
	d := builtData()

	_ = d.Apply(Selection{Manufacturer: "Foologic", Year: "1984"})
	// a second unfiltered query still sees the full universe
	assert.Equal(t, []uint32{0, 1, 2, 3}, d.Apply(Selection{}).ToArray())
}
