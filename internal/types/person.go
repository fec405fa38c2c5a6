// Package types provides type definitions for the people, employment periods and
// overlap facts shared across the network-overlap system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// EmploymentPeriod is one company/title/date-range record owned by a person.
// Years and months are optional; a nil StartYear leaves the period unresolved.
type EmploymentPeriod struct {
	ID          uuid.UUID `json:"id"`
	PersonID    uuid.UUID `json:"person_id"`
	CompanyName string    `json:"company_name"`
	Title       string    `json:"title,omitempty"`
	StartYear   *int      `json:"start_year"`
	StartMonth  *int      `json:"start_month"`
	EndYear     *int      `json:"end_year"`
	EndMonth    *int      `json:"end_month"`
	IsCurrent   bool      `json:"is_current"`
}

// Education is a school record attached to a person. It plays no part in matching.
type Education struct {
	ID           uuid.UUID `json:"id"`
	PersonID     uuid.UUID `json:"person_id"`
	SchoolName   string    `json:"school_name"`
	Degree       string    `json:"degree,omitempty"`
	FieldOfStudy string    `json:"field_of_study,omitempty"`
	StartYear    *int      `json:"start_year"`
	EndYear      *int      `json:"end_year"`
}

// Colleague is a member of the user's network, imported from a connections export
// and optionally enriched with a scraped employment history.
type Colleague struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	ProfileURL      string             `json:"profile_url,omitempty"`
	CurrentTitle    string             `json:"current_title,omitempty"`
	CurrentCompany  string             `json:"current_company,omitempty"`
	ProfileImageURL string             `json:"profile_image_url,omitempty"`
	EnrichedAt      *time.Time         `json:"enriched_at"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	WorkHistory     []EmploymentPeriod `json:"work_history,omitempty"`
	Education       []Education        `json:"education,omitempty"`
}

// Enriched reports whether the colleague has a persisted employment history.
func (c *Colleague) Enriched() bool {
	return c.EnrichedAt != nil
}

// Ref returns the public identity of the colleague.
func (c *Colleague) Ref() PersonRef {
	return PersonRef{
		ID:              c.ID,
		Name:            c.Name,
		ProfileURL:      c.ProfileURL,
		ProfileImageURL: c.ProfileImageURL,
		CurrentTitle:    c.CurrentTitle,
	}
}

// Candidate sources
const (
	SourceProfile = "linkedin"
	SourceResume  = "resume"
)

// Candidate is the person being evaluated against the network.
type Candidate struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	ProfileURL      string             `json:"profile_url,omitempty"`
	ProfileImageURL string             `json:"profile_image_url,omitempty"`
	Source          string             `json:"source"`
	CreatedAt       time.Time          `json:"created_at"`
	History         []EmploymentPeriod `json:"history"`
	Education       []Education        `json:"education,omitempty"`
}

// PersonRef is the public identity of a person as exposed in overlap facts.
type PersonRef struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	ProfileURL      string    `json:"profile_url,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	CurrentTitle    string    `json:"current_title,omitempty"`
}

// PoolPeriod is one employment period in the match pool along with its owner.
type PoolPeriod struct {
	Person PersonRef
	Period EmploymentPeriod
}

// ProfileUpdate is the full replacement written when a colleague is enriched.
// Periods and Education replace whatever was stored before.
type ProfileUpdate struct {
	Headline   string
	Periods    []EmploymentPeriod
	Education  []Education
	EnrichedAt time.Time
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
