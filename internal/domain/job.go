package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Work types accepted for a job posting.
const (
	WorkTypeRemote = "remote"
	WorkTypeHybrid = "hybrid"
	WorkTypeOnsite = "onsite"
)

// Experience levels accepted for a job posting.
const (
	ExperienceEntry     = "entry"
	ExperienceMid       = "mid"
	ExperienceSenior    = "senior"
	ExperienceExecutive = "executive"
)

// Skill is one entry of the nested skills collection in the search index.
// The index stores skills as objects, not flat strings, so nested queries
// bind each match to a single skill entry.
type Skill struct {
	Name string `json:"name"`
}

// JobDocument is the indexed representation of a job posting. Skills is
// never nil; absence is an empty slice.
type JobDocument struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	CompanyName string   `json:"company_name"`
	WorkType    string   `json:"work_type"`
	Industry    string   `json:"industry,omitempty"`
	CompanySize string   `json:"company_size,omitempty"`
	Experience  string   `json:"experience,omitempty"`
	SalaryMin   *float64 `json:"salary_min,omitempty"`
	SalaryMax   *float64 `json:"salary_max,omitempty"`
	Skills      []Skill  `json:"skills"`
}

// Job is a job record in the primary store. It is the source of truth the
// search index is derived from.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CompanyName string    `json:"company_name"`
	WorkType    string    `json:"work_type"`
	Industry    string    `json:"industry,omitempty"`
	CompanySize string    `json:"company_size,omitempty"`
	Experience  string    `json:"experience,omitempty"`
	SalaryMin   *float64  `json:"salary_min,omitempty"`
	SalaryMax   *float64  `json:"salary_max,omitempty"`
	Skills      []string  `json:"skills"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewJob builds a validated job record with a fresh id and timestamps.
func NewJob(
	title, description, location, companyName, workType string,
	industry, companySize, experience string,
	salaryMin, salaryMax *float64,
	skills []string,
) (Job, error) {
	now := time.Now().UTC()
	j := Job{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Location:    location,
		CompanyName: companyName,
		WorkType:    workType,
		Industry:    industry,
		CompanySize: companySize,
		Experience:  experience,
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		Skills:      skills,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	if err := j.Validate(); err != nil {
		return Job{}, err
	}
	return j, nil
}

// Validate checks required fields, enum values, and the salary invariant.
func (j *Job) Validate() error {
	required := map[string]string{
		"title":        j.Title,
		"description":  j.Description,
		"location":     j.Location,
		"company_name": j.CompanyName,
		"work_type":    j.WorkType,
	}
	for _, field := range []string{"title", "description", "location", "company_name", "work_type"} {
		if required[field] == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidJob, field)
		}
	}

	switch j.WorkType {
	case WorkTypeRemote, WorkTypeHybrid, WorkTypeOnsite:
	default:
		return fmt.Errorf("%w: unknown work_type %q", ErrInvalidJob, j.WorkType)
	}

	if j.Experience != "" {
		switch j.Experience {
		case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceExecutive:
		default:
			return fmt.Errorf("%w: unknown experience %q", ErrInvalidJob, j.Experience)
		}
	}

	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		return fmt.Errorf("%w: salary_min exceeds salary_max", ErrInvalidJob)
	}

	return nil
}

// Document maps the record into its indexed shape, converting plain skill
// strings into nested {name} objects.
func (j *Job) Document() JobDocument {
	skills := make([]Skill, 0, len(j.Skills))
	for _, s := range j.Skills {
		skills = append(skills, Skill{Name: s})
	}
	return JobDocument{
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		CompanyName: j.CompanyName,
		WorkType:    j.WorkType,
		Industry:    j.Industry,
		CompanySize: j.CompanySize,
		Experience:  j.Experience,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Skills:      skills,
	}
}
