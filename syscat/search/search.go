// Package search implements the fuzzy matcher over the catalog: unit-cost
// edit distance against the normalized per-entry keys, with graceful
// degradation while key phases are still being computed.
package search

import (
	"math"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/arcadeforge/system-catalog/syscat/catalog"
)

// Candidate pairs a score with a stable position in the sorted catalog
// arena. Positions, not pointers: reordering results never invalidates an
// outstanding candidate.
type Candidate struct {
	Pos   int
	Score int
}

// unscored orders candidates with no scorable field after every real match.
const unscored = math.MaxInt

// Index performs fuzzy queries against a catalog service. Load is one
// interactive user issuing one query at a time; Index is not safe for
// concurrent use.
type Index struct {
	svc   *catalog.Service
	cands []Candidate
}

func New(svc *catalog.Service) *Index {
	return &Index{svc: svc}
}

// Search returns the catalog entries ordered most relevant first. Fields
// whose phase is not yet published are skipped, never waited on; an
// unmatched query still yields the full list, worst scores last. Blocks
// only until the sorted list itself is available.
func (ix *Index) Search(query string) []*catalog.Entry {
	entries := ix.svc.SortedEntries()

	// one candidate per sorted entry, built lazily
	if ix.cands == nil {
		ix.cands = make([]Candidate, len(entries))
		for i := range ix.cands {
			ix.cands[i].Pos = i
		}
	}

	q := catalog.NormalizeKey(query)

	// snapshot phase availability once per query
	avail := catalog.PhaseNone
	for _, p := range []catalog.Phase{
		catalog.PhaseKeyShortName,
		catalog.PhaseKeyDescription,
		catalog.PhaseKeyManufDesc,
		catalog.PhaseKeyDefaultDesc,
		catalog.PhaseKeyManufDefaultDesc,
	} {
		if ix.svc.IsReady(p) {
			avail |= p
		}
	}

	for i := range ix.cands {
		ix.cands[i].Score = score(q, &entries[ix.cands[i].Pos], avail)
	}

	// ascending by score; equal scores retain catalog order
	result := make([]Candidate, len(ix.cands))
	copy(result, ix.cands)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score < result[j].Score
	})

	out := make([]*catalog.Entry, len(result))
	for i, c := range result {
		out[i] = &entries[c.Pos]
	}
	return out
}

// score computes the edit distance of the query to every published key of
// the entry, keeping the minimum and stopping early on an exact match.
func score(q string, e *catalog.Entry, avail catalog.Phase) int {
	s := unscored

	if avail&catalog.PhaseKeyShortName != 0 {
		s = levenshtein.ComputeDistance(q, e.KeyShortName)
	}

	if s != 0 && e.KeyReading != "" {
		s = min(s, levenshtein.ComputeDistance(q, e.KeyReading))
		if s != 0 {
			s = min(s, levenshtein.ComputeDistance(q, e.KeyManufReading))
		}
	}

	if s != 0 && avail&catalog.PhaseKeyDescription != 0 {
		s = min(s, levenshtein.ComputeDistance(q, e.KeyDescription))
	}

	if s != 0 && avail&catalog.PhaseKeyManufDesc != 0 {
		s = min(s, levenshtein.ComputeDistance(q, e.KeyManufDesc))
	}

	if s != 0 && avail&catalog.PhaseKeyDefaultDesc != 0 && e.KeyDefaultDesc != "" {
		s = min(s, levenshtein.ComputeDistance(q, e.KeyDefaultDesc))
		if s != 0 && avail&catalog.PhaseKeyManufDefaultDesc != 0 {
			s = min(s, levenshtein.ComputeDistance(q, e.KeyManufDefaultDesc))
		}
	}

	return s
}
