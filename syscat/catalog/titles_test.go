package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadeforge/system-catalog/syscat/registry"
)

func titlesService(t *testing.T) *Service {
	t.Helper()
	reg, err := registry.NewList([]registry.Record{
		{Name: "___empty", Flags: registry.FlagSentinel},
		{Name: "bar", Description: "Bar Arcade", Manufacturer: "Barco", Year: "1984"},
		{Name: "foo", Description: "Foo Game", Manufacturer: "Foologic", Year: "1985"},
		{Name: "foo2", Parent: "foo", Description: "Foo Game (bootleg)", Manufacturer: "bootleg", Year: "1986"},
	})
	require.NoError(t, err)

	s := NewService(reg, Options{})
	s.populate(false) // titles pass resolves descriptions
	return s
}

func entryByName(t *testing.T, s *Service, name string) *Entry {
	t.Helper()
	for i := range s.entries {
		if s.entries[i].Record.Name == name {
			return &s.entries[i]
		}
	}
	t.Fatalf("entry %q not found", name)
	return nil
}

func TestLoadTitlesResolvesDescriptions(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("bar\tBarre Arcade\n"))

	assert.Equal(t, "Barre Arcade", entryByName(t, s, "bar").Description)
	// untranslated entries fall back to the registry description
	assert.Equal(t, "Foo Game", entryByName(t, s, "foo").Description)
}

func TestLoadTitlesFirstNonEmptyWins(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("bar\tBarre Arcade\nbar\tOther\n"))

	assert.Equal(t, "Barre Arcade", entryByName(t, s, "bar").Description)
}

func TestLoadTitlesEmptyDescriptionRetainsRaw(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("bar\t   \n"))

	assert.Equal(t, "Bar Arcade", entryByName(t, s, "bar").Description)
}

func TestLoadTitlesUnknownIdentifierIgnored(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("quux\tQuux Game\nbar\tBarre Arcade\n"))

	assert.Equal(t, "Barre Arcade", entryByName(t, s, "bar").Description)
}

func TestLoadTitlesLinesWithoutTabSkipped(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("malformed line\nbar\tBarre Arcade\n"))

	assert.Equal(t, "Barre Arcade", entryByName(t, s, "bar").Description)
}

func TestLoadTitlesReadingSeedsPhoneticKeys(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("foo\tフーゲーム\tfu-ge-mu\n"))

	foo := entryByName(t, s, "foo")
	assert.Equal(t, "fu-ge-mu", foo.Reading)
	assert.Equal(t, NormalizeKey("fu-ge-mu"), foo.KeyReading)
	assert.Equal(t, NormalizeKey("Foologic fu-ge-mu"), foo.KeyManufReading)
}

func TestLoadTitlesEmptyReadingIgnored(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("foo\tFoo Localized\t  \n"))

	foo := entryByName(t, s, "foo")
	assert.Equal(t, "Foo Localized", foo.Description)
	assert.Empty(t, foo.Reading)
	assert.Empty(t, foo.KeyReading)
}

func TestLoadTitlesHandlesCarriageReturns(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("bar\tBarre Arcade\r\n"))

	assert.Equal(t, "Barre Arcade", entryByName(t, s, "bar").Description)
}

func TestPopulateParentsUsesResolvedTitles(t *testing.T) {
	s := titlesService(t)
	s.loadTitles(strings.NewReader("foo\tFoo Localized\tfoo reading\n"))
	s.populateParents()

	clone := entryByName(t, s, "foo2")
	assert.Equal(t, "Foo Localized", clone.Parent)
	assert.Equal(t, "foo reading", clone.ReadingParent)
}

func TestPopulateParentsMissingParentKeepsIdentifier(t *testing.T) {
	reg, err := registry.NewList([]registry.Record{
		{Name: "___empty", Flags: registry.FlagSentinel},
		{Name: "orphan", Parent: "ghost", Description: "Orphan Game"},
	})
	require.NoError(t, err)

	s := NewService(reg, Options{})
	s.populate(false)
	s.loadTitles(strings.NewReader(""))
	s.populateParents()

	assert.Equal(t, "ghost", entryByName(t, s, "orphan").Parent)
}
