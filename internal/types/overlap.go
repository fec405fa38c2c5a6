package types

// OverlapTypeWork is the only overlap fact type currently produced.
const OverlapTypeWork = "work"

// OverlapPeriod is the shared window of two employment periods, formatted YYYY-MM.
type OverlapPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// OverlapFact records that a candidate and a network member worked at the same
// company at the same time. A nil OverlapMonths means the duration is unknown.
type OverlapFact struct {
	Colleague      PersonRef      `json:"colleague"`
	Company        string         `json:"company"`
	CandidateTitle string         `json:"candidate_title"`
	ColleagueTitle string         `json:"colleague_title"`
	OverlapMonths  *int           `json:"overlap_months"`
	OverlapPeriod  *OverlapPeriod `json:"overlap_period"`
	Type           string         `json:"type"`
}

// DurationKnown reports whether the fact carries a resolved overlap duration.
func (f OverlapFact) DurationKnown() bool {
	return f.OverlapMonths != nil
}
