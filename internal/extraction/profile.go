// Package extraction turns scraped page text and resume text into typed
// employment and education records using an LLM.
package extraction

import (
	"github.com/jonathan/network-overlap/internal/types"
)

// Profile is the typed result of an extraction. An empty Profile means nothing
// usable was extracted.
type Profile struct {
	Name        string       `json:"name"`
	Headline    string       `json:"headline"`
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`

	// Dropped counts entries discarded by validation.
	Dropped int `json:"-"`
}

// Empty reports whether the profile carries no employment entries.
func (p *Profile) Empty() bool {
	return p == nil || len(p.Experiences) == 0
}

// Experience is one extracted employment entry.
type Experience struct {
	CompanyName string `json:"company_name" validate:"required"`
	Title       string `json:"title"`
	StartYear   *int   `json:"start_year" validate:"omitempty,gte=1900,lte=2100"`
	StartMonth  *int   `json:"start_month" validate:"omitempty,gte=1,lte=12"`
	EndYear     *int   `json:"end_year" validate:"omitempty,gte=1900,lte=2100"`
	EndMonth    *int   `json:"end_month" validate:"omitempty,gte=1,lte=12"`
	IsCurrent   bool   `json:"is_current"`
}

// Period converts the entry into an employment period owned by nobody yet.
// The company name is left as extracted.
func (e Experience) Period() types.EmploymentPeriod {
	return types.EmploymentPeriod{
		CompanyName: e.CompanyName,
		Title:       e.Title,
		StartYear:   e.StartYear,
		StartMonth:  e.StartMonth,
		EndYear:     e.EndYear,
		EndMonth:    e.EndMonth,
		IsCurrent:   e.IsCurrent,
	}
}

// Education is one extracted education entry.
type Education struct {
	SchoolName   string `json:"school_name" validate:"required"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartYear    *int   `json:"start_year" validate:"omitempty,gte=1900,lte=2100"`
	EndYear      *int   `json:"end_year" validate:"omitempty,gte=1900,lte=2100"`
}

// Record converts the entry into a stored education record.
func (e Education) Record() types.Education {
	return types.Education{
		SchoolName:   e.SchoolName,
		Degree:       e.Degree,
		FieldOfStudy: e.FieldOfStudy,
		StartYear:    e.StartYear,
		EndYear:      e.EndYear,
	}
}
