package overlap

import (
	"sort"
	"time"

	"github.com/jonathan/network-overlap/internal/company"
	"github.com/jonathan/network-overlap/internal/types"
)

// Engine resolves a subject's employment history against a pool of periods.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an Engine that resolves open-ended periods against the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt creates an Engine with a fixed notion of now.
func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

type rankedFact struct {
	fact   types.OverlapFact
	months int
}

// Resolve produces overlap facts for every subject period that shares an
// employer and some time with a pool period.
//
// Pairs that provably do not overlap are dropped. Facts whose duration is
// unknown are kept but rank below any known duration. Facts are ordered by
// duration descending, ties keeping discovery order, and reduced to one fact
// per (person, company) pair, the highest-ranked one winning.
func (e *Engine) Resolve(subject []types.EmploymentPeriod, pool []types.PoolPeriod) []types.OverlapFact {
	now := e.now()

	var ranked []rankedFact
	for _, s := range subject {
		subjectRange := RangeOf(s)
		for _, p := range pool {
			if !company.Match(s.CompanyName, p.Period.CompanyName) {
				continue
			}

			result := CalculateAt(subjectRange, RangeOf(p.Period), now)
			if result.Months == 0 {
				continue
			}

			fact := types.OverlapFact{
				Colleague:      p.Person,
				Company:        company.Normalize(p.Period.CompanyName),
				CandidateTitle: s.Title,
				ColleagueTitle: p.Period.Title,
				Type:           types.OverlapTypeWork,
			}
			if !result.Unknown() {
				fact.OverlapMonths = types.IntPtr(result.Months)
				fact.OverlapPeriod = result.Period
			}
			ranked = append(ranked, rankedFact{fact: fact, months: result.Months})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].months > ranked[j].months
	})

	type dedupeKey struct {
		personID string
		company  string
	}
	seen := make(map[dedupeKey]bool, len(ranked))
	facts := make([]types.OverlapFact, 0, len(ranked))
	for _, r := range ranked {
		key := dedupeKey{personID: r.fact.Colleague.ID.String(), company: r.fact.Company}
		if seen[key] {
			continue
		}
		seen[key] = true
		facts = append(facts, r.fact)
	}

	return facts
}
