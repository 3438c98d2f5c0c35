// Package crossref joins nearby systems against the materialized index.
package crossref

import (
	"cmp"
	"slices"

	"github.com/greeddj/go-hge/internal/hge/mmdb"
	"github.com/greeddj/go-hge/internal/hge/states"
)

// Nearby is a system reported around the commander.
type Nearby struct {
	ID         int64
	Name       string
	Distance   float64
	Population int64
}

// Result is a nearby system enriched with its state counts.
type Result struct {
	SystemID       int64
	Name           string
	Distance       float64
	Population     int64
	MaterialStates states.Counts
}

// Lookup resolves index records by EDSM system id.
type Lookup interface {
	Get(id int64) (mmdb.Record, bool)
}

// Crossref returns the nearby systems present in lookup, in input order.
// Systems missing from the index are dropped.
func Crossref(lookup Lookup, nearby []Nearby) []Result {
	out := make([]Result, 0, len(nearby))
	for _, n := range nearby {
		record, ok := lookup.Get(n.ID)
		if !ok {
			continue
		}
		population := record.Population
		if population == 0 {
			population = n.Population
		}
		out = append(out, Result{
			SystemID:       n.ID,
			Name:           record.Name,
			Distance:       n.Distance,
			Population:     population,
			MaterialStates: record.MaterialStates,
		})
	}
	return out
}

// SortByDistance orders results nearest first; ties keep name order.
func SortByDistance(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// FilterByPopulation keeps systems with a population above minimum.
func FilterByPopulation(nearby []Nearby, minimum int64) []Nearby {
	if minimum <= 0 {
		return nearby
	}
	return slices.DeleteFunc(slices.Clone(nearby), func(n Nearby) bool {
		return n.Population <= minimum
	})
}

// FilterByMaterial keeps results where some active state yields m.
func FilterByMaterial(results []Result, m states.Material) []Result {
	return slices.DeleteFunc(slices.Clone(results), func(r Result) bool {
		return !r.MaterialStates.Yields(m)
	})
}

// Limit truncates results to at most n entries; n <= 0 keeps all.
func Limit(results []Result, n int) []Result {
	if n <= 0 || len(results) <= n {
		return results
	}
	return results[:n]
}
