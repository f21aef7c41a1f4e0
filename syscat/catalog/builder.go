package catalog

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"golang.org/x/text/language"

	"github.com/arcadeforge/system-catalog/syscat/filters"
	"github.com/arcadeforge/system-catalog/syscat/registry"
)

// Options configure a catalog service.
type Options struct {
	// Locale is the BCP 47 tag used for collation of the sorted list.
	Locale string
	// TitlesPath is the optional localized titles resource. Empty or
	// unreadable paths fall back to the registry's raw descriptions.
	TitlesPath string
}

// Service owns the derived catalog over a registry: the sorted entry list,
// the filter metadata, and the normalized search keys, all computed by a
// single background worker and published phase by phase.
//
// One Service per process: the registry is static per process
// configuration, so a second instance would only duplicate the work.
// Construct it explicitly and pass it to consumers.
type Service struct {
	reg        *registry.List
	locale     language.Tag
	titlesPath string
	assert     *assert.AssertHandler
	gate       *Gate

	mu      sync.Mutex
	started bool
	wg      conc.WaitGroup
	builds  atomic.Uint32 // completed-or-running pipeline passes

	// written only by the build worker, cleared only by Reset after join
	entries    []Entry
	filterData *filters.Data
	rootCount  int
}

// NewService creates the catalog service for a registry. No work happens
// until StartBuild.
func NewService(reg *registry.List, opts Options) *Service {
	return &Service{
		reg:        reg,
		locale:     language.Make(opts.Locale),
		titlesPath: opts.TitlesPath,
		assert:     assert.NewAssertHandler(),
		gate:       NewGate(),
		filterData: filters.New(),
	}
}

// StartBuild launches the background build pass. Idempotent: a second call
// while a build is active or complete is a no-op.
func (s *Service) StartBuild() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	titles := s.titlesPath
	s.wg.Go(func() {
		s.build(titles)
	})
}

// Reset joins any in-flight build, then clears all entries, phase bits and
// filter metadata, permitting a subsequent StartBuild. No torn state is
// ever observable: nothing is cleared until the worker has finished.
func (s *Service) Reset() {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	s.gate.clear()
	s.entries = nil
	s.filterData = filters.New()
	s.rootCount = 0
}

// IsReady reports whether every requested phase has been published.
func (s *Service) IsReady(p Phase) bool {
	return s.gate.Ready(p)
}

// WaitAvailable blocks until the requested phases are published. Calling
// before StartBuild is a contract violation.
func (s *Service) WaitAvailable(p Phase) {
	if s.gate.Ready(p) {
		return
	}
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	s.assert.Assert(context.Background(), started, "catalog phase waited on before StartBuild")
	s.gate.Wait(p)
}

// SortedEntries returns the sorted entry list, blocking until it has been
// published. The returned slice is the catalog arena: positions in it are
// stable for the rest of the build lifetime.
func (s *Service) SortedEntries() []Entry {
	s.WaitAvailable(PhaseSortedList)
	return s.entries
}

// RootCount returns the number of root system records, blocking until the
// count metadata has been published.
func (s *Service) RootCount() int {
	s.WaitAvailable(PhaseRootCount)
	return s.rootCount
}

// FilterData returns the finalized filter metadata, blocking until it has
// been published.
func (s *Service) FilterData() *filters.Data {
	s.WaitAvailable(PhaseFilterData)
	return s.filterData
}

// HasUnavailable reports whether any sorted entry is not marked available.
// Reads only the Available field: the search keys may still be under
// construction by the build worker.
func (s *Service) HasUnavailable() bool {
	entries := s.SortedEntries()
	for i := range entries {
		if !entries[i].Available {
			return true
		}
	}
	return false
}

// build runs the whole derivation pipeline on the background worker. Steps
// are strictly ordered; each publishes at most one phase on completion.
func (s *Service) build(titlesPath string) {
	s.builds.Add(1)
	buildID := uuid.New()
	slog.Info("Catalog build started", "build", buildID, "records", s.reg.Count())

	// whether the titles file opens decides if the localized-title pass runs
	var titlesFile *os.File
	if titlesPath != "" {
		f, err := os.Open(titlesPath)
		if err != nil {
			slog.Debug("Localized titles unavailable, using raw descriptions",
				"path", titlesPath, "error", err)
		} else {
			titlesFile = f
			defer titlesFile.Close()
		}
	}
	tryTitles := titlesFile != nil

	// generate full list - initially ordered by identifier
	s.populate(!tryTitles)
	s.gate.Publish(PhaseRootCount)

	if tryTitles {
		s.loadTitles(titlesFile)

		// populate parent descriptions while still ordered by identifier;
		// already done on the first pass when raw descriptions are used
		s.populateParents()
	}

	// get rid of the sentinel entry - positions no longer need to line up
	sentinel := s.reg.Sentinel()
	s.entries = append(s.entries[:sentinel], s.entries[sentinel+1:]...)

	coll := newCollator(s.locale)
	sort.SliceStable(s.entries, func(i, j int) bool {
		return coll.less(&s.entries[i], &s.entries[j])
	})
	s.gate.Publish(PhaseSortedList)

	// sort manufacturers and years, index posting lists by sorted position
	for pos := range s.entries {
		rec := s.entries[pos].Record
		s.filterData.Index(uint32(pos), rec.Manufacturer, rec.Year)
	}
	s.filterData.Finalize()
	s.gate.Publish(PhaseFilterData)

	for i := range s.entries {
		e := &s.entries[i]
		e.KeyShortName = NormalizeKey(e.Record.Name)
	}
	s.gate.Publish(PhaseKeyShortName)

	for i := range s.entries {
		e := &s.entries[i]
		e.KeyDescription = NormalizeKey(e.Description)
	}
	s.gate.Publish(PhaseKeyDescription)

	for i := range s.entries {
		e := &s.entries[i]
		e.KeyManufDesc = NormalizeKey(e.Record.Manufacturer + " " + e.Description)
	}
	s.gate.Publish(PhaseKeyManufDesc)

	// default-title keys only differ when a translation replaced the title
	if tryTitles {
		for i := range s.entries {
			e := &s.entries[i]
			if e.Description != e.Record.Description {
				e.KeyDefaultDesc = NormalizeKey(e.Record.Description)
			}
		}
	}
	s.gate.Publish(PhaseKeyDefaultDesc)

	if tryTitles {
		for i := range s.entries {
			e := &s.entries[i]
			if e.Description != e.Record.Description {
				e.KeyManufDefaultDesc = NormalizeKey(e.Record.Manufacturer + " " + e.Record.Description)
			}
		}
	}
	s.gate.Publish(PhaseKeyManufDefaultDesc)

	slog.Info("Catalog build complete", "build", buildID, "entries", len(s.entries))
}

// populate builds the raw entry list in registry order, resolving clone
// status and accumulating the root count and filter value sets.
func (s *Service) populate(copyDesc bool) {
	s.entries = make([]Entry, 0, s.reg.Count())
	for i := 0; i < s.reg.Count(); i++ {
		rec := s.reg.At(i)
		s.entries = append(s.entries, Entry{Record: rec, Index: i})
		if rec.IsSentinel() {
			continue
		}
		entry := &s.entries[len(s.entries)-1]

		if rec.IsRoot() {
			s.rootCount++
		}

		if rec.HasParent() {
			parentIdx, found := s.reg.Find(rec.Parent)
			if copyDesc {
				if found {
					parent := s.reg.At(parentIdx)
					entry.IsClone = !parent.IsRoot()
					entry.Parent = parent.Description
				} else {
					entry.IsClone = false
					entry.Parent = rec.Parent
				}
			} else {
				entry.IsClone = found && !s.reg.At(parentIdx).IsRoot()
			}
		}

		if copyDesc {
			entry.Description = rec.Description
		}

		s.filterData.AddManufacturer(rec.Manufacturer)
		s.filterData.AddYear(rec.Year)
	}
}
