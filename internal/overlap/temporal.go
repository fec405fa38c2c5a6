// Package overlap computes how long two employment periods coincided and
// resolves a candidate's history against the network's employment pool.
package overlap

import (
	"math"
	"time"

	"github.com/jonathan/network-overlap/internal/types"
)

// UnknownMonths marks a pair of periods at the same employer whose overlap
// cannot be computed because a start year is missing. It is distinct from 0,
// which means the periods provably do not overlap.
const UnknownMonths = -1

const (
	daysPerMonth = 30
	periodLayout = "2006-01"
)

// DateRange is a month-granular range with optional fields.
// A nil EndYear (or Ongoing) extends the range to the current date.
type DateRange struct {
	StartYear  *int
	StartMonth *int
	EndYear    *int
	EndMonth   *int
	Ongoing    bool
}

// RangeOf converts an employment period into a DateRange.
// The end fields of a current period are ignored.
func RangeOf(p types.EmploymentPeriod) DateRange {
	r := DateRange{
		StartYear:  p.StartYear,
		StartMonth: p.StartMonth,
		Ongoing:    p.IsCurrent,
	}
	if !p.IsCurrent {
		r.EndYear = p.EndYear
		r.EndMonth = p.EndMonth
	}
	return r
}

// Result is the outcome of comparing two ranges.
// Period is set only when Months > 0.
type Result struct {
	Months int
	Period *types.OverlapPeriod
}

// Unknown reports whether the overlap duration could not be determined.
func (r Result) Unknown() bool {
	return r.Months == UnknownMonths
}

// Calculate compares two ranges against the current time.
func Calculate(a, b DateRange) Result {
	return CalculateAt(a, b, time.Now())
}

// CalculateAt compares two ranges, resolving open ends to now.
//
// Missing start months default to January, missing end months to December.
// Each month resolves to its first day. The overlap in months is the shared
// interval in days divided by 30, rounded, and never less than 1 when the
// interval is non-empty.
func CalculateAt(a, b DateRange, now time.Time) Result {
	if !known(a.StartYear) || !known(b.StartYear) {
		return Result{Months: UnknownMonths}
	}

	now = now.UTC()
	aStart := monthStart(*a.StartYear, a.StartMonth, time.January)
	bStart := monthStart(*b.StartYear, b.StartMonth, time.January)
	aEnd := a.end(now)
	bEnd := b.end(now)

	start := later(aStart, bStart)
	end := earlier(aEnd, bEnd)
	if !start.Before(end) {
		return Result{Months: 0}
	}

	days := end.Sub(start).Hours() / 24
	months := max(1, int(math.Round(days/daysPerMonth)))

	return Result{
		Months: months,
		Period: &types.OverlapPeriod{
			Start: start.Format(periodLayout),
			End:   end.Format(periodLayout),
		},
	}
}

func (r DateRange) end(now time.Time) time.Time {
	if r.Ongoing || !known(r.EndYear) {
		return now
	}
	return monthStart(*r.EndYear, r.EndMonth, time.December)
}

// known treats a zero year the same as a missing one.
func known(year *int) bool {
	return year != nil && *year != 0
}

func monthStart(year int, month *int, fallback time.Month) time.Time {
	m := fallback
	if month != nil && *month >= 1 {
		m = time.Month(min(*month, 12))
	}
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
