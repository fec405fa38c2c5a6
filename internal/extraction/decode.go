package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/network-overlap/internal/llm"
	"github.com/jonathan/network-overlap/internal/schemas"
)

var validate = validator.New()

// ParseError describes why a model response could not be decoded.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// rawProfile mirrors the top-level shape accepted by the extracted profile schema.
type rawProfile struct {
	Name        *string           `json:"name"`
	Headline    *string           `json:"headline"`
	Experiences []json.RawMessage `json:"experiences"`
	Education   []json.RawMessage `json:"education"`
}

type rawExperience struct {
	CompanyName string  `json:"company_name"`
	Title       *string `json:"title"`
	StartYear   flexInt `json:"start_year"`
	StartMonth  flexInt `json:"start_month"`
	EndYear     flexInt `json:"end_year"`
	EndMonth    flexInt `json:"end_month"`
	IsCurrent   bool    `json:"is_current"`
}

type rawEducation struct {
	SchoolName   string  `json:"school_name"`
	Degree       *string `json:"degree"`
	FieldOfStudy *string `json:"field_of_study"`
	StartYear    flexInt `json:"start_year"`
	EndYear      flexInt `json:"end_year"`
}

// flexInt accepts a JSON integer, an integral float, a numeric string or null.
type flexInt struct {
	value *int
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		f.value = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			f.value = nil
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		f.value = &n
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n != math.Trunc(n) {
		return fmt.Errorf("not an integer: %v", n)
	}
	v := int(n)
	f.value = &v
	return nil
}

// Decode parses a model response into a Profile.
//
// The first JSON object in text must satisfy the extracted profile schema,
// otherwise a *ParseError is returned. Individual entries that do not decode
// or fail validation are dropped and counted in Profile.Dropped. A zero month
// is treated as unknown, and current entries never carry an end date.
func Decode(text string) (*Profile, error) {
	raw := llm.FirstJSONObject(text)
	if raw == "" {
		return nil, &ParseError{Message: "no JSON object in response"}
	}

	if err := schemas.Validate(schemas.ExtractedProfile, raw); err != nil {
		return nil, &ParseError{Message: "response does not match profile schema", Cause: err}
	}

	var doc rawProfile
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Message: "failed to decode response", Cause: err}
	}

	profile := &Profile{
		Name:        deref(doc.Name),
		Headline:    deref(doc.Headline),
		Experiences: make([]Experience, 0, len(doc.Experiences)),
		Education:   make([]Education, 0, len(doc.Education)),
	}

	for _, item := range doc.Experiences {
		exp, ok := decodeExperience(item)
		if !ok {
			profile.Dropped++
			continue
		}
		profile.Experiences = append(profile.Experiences, exp)
	}

	for _, item := range doc.Education {
		edu, ok := decodeEducation(item)
		if !ok {
			profile.Dropped++
			continue
		}
		profile.Education = append(profile.Education, edu)
	}

	return profile, nil
}

func decodeExperience(item json.RawMessage) (Experience, bool) {
	var r rawExperience
	if err := json.Unmarshal(item, &r); err != nil {
		return Experience{}, false
	}

	exp := Experience{
		CompanyName: strings.TrimSpace(r.CompanyName),
		Title:       strings.TrimSpace(deref(r.Title)),
		StartYear:   r.StartYear.value,
		StartMonth:  month(r.StartMonth.value),
		EndYear:     r.EndYear.value,
		EndMonth:    month(r.EndMonth.value),
		IsCurrent:   r.IsCurrent,
	}
	if exp.IsCurrent {
		exp.EndYear = nil
		exp.EndMonth = nil
	}

	if err := validate.Struct(exp); err != nil {
		return Experience{}, false
	}
	return exp, true
}

func decodeEducation(item json.RawMessage) (Education, bool) {
	var r rawEducation
	if err := json.Unmarshal(item, &r); err != nil {
		return Education{}, false
	}

	edu := Education{
		SchoolName:   strings.TrimSpace(r.SchoolName),
		Degree:       strings.TrimSpace(deref(r.Degree)),
		FieldOfStudy: strings.TrimSpace(deref(r.FieldOfStudy)),
		StartYear:    r.StartYear.value,
		EndYear:      r.EndYear.value,
	}

	if err := validate.Struct(edu); err != nil {
		return Education{}, false
	}
	return edu, true
}

func month(v *int) *int {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
