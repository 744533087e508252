package domain

import (
	"errors"
	"testing"
)

func f64(v float64) *float64 { return &v }

func validJobArgs() (string, string, string, string, string) {
	return "Backend Engineer", "Build services", "Berlin", "Acme", WorkTypeRemote
}

func TestNewJob_Valid(t *testing.T) {
	title, desc, loc, company, wt := validJobArgs()
	j, err := NewJob(title, desc, loc, company, wt, "tech", "50-200", ExperienceSenior, f64(80000), f64(120000), []string{"Go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.ID == "" {
		t.Error("expected generated id")
	}
	if j.CreatedAt.IsZero() || j.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestNewJob_NilSkillsBecomesEmpty(t *testing.T) {
	title, desc, loc, company, wt := validJobArgs()
	j, err := NewJob(title, desc, loc, company, wt, "", "", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Skills == nil {
		t.Fatal("skills must never be nil")
	}
	if len(j.Skills) != 0 {
		t.Fatalf("expected empty skills, got %v", j.Skills)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Job)
	}{
		{"missing title", func(j *Job) { j.Title = "" }},
		{"missing description", func(j *Job) { j.Description = "" }},
		{"missing location", func(j *Job) { j.Location = "" }},
		{"missing company_name", func(j *Job) { j.CompanyName = "" }},
		{"missing work_type", func(j *Job) { j.WorkType = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, desc, loc, company, wt := validJobArgs()
			j, err := NewJob(title, desc, loc, company, wt, "", "", "", nil, nil, nil)
			if err != nil {
				t.Fatalf("setup: %v", err)
			}
			tt.mut(&j)

			err = j.Validate()
			if !errors.Is(err, ErrInvalidJob) {
				t.Errorf("expected ErrInvalidJob, got %v", err)
			}
		})
	}
}

func TestValidate_Enums(t *testing.T) {
	title, desc, loc, company, _ := validJobArgs()

	_, err := NewJob(title, desc, loc, company, "freelance", "", "", "", nil, nil, nil)
	if !errors.Is(err, ErrInvalidJob) {
		t.Errorf("expected ErrInvalidJob for bad work_type, got %v", err)
	}

	_, err = NewJob(title, desc, loc, company, WorkTypeOnsite, "", "", "principal", nil, nil, nil)
	if !errors.Is(err, ErrInvalidJob) {
		t.Errorf("expected ErrInvalidJob for bad experience, got %v", err)
	}
}

func TestValidate_SalaryInvariant(t *testing.T) {
	title, desc, loc, company, wt := validJobArgs()

	_, err := NewJob(title, desc, loc, company, wt, "", "", "", f64(120000), f64(80000), nil)
	if !errors.Is(err, ErrInvalidJob) {
		t.Errorf("expected ErrInvalidJob for inverted salary band, got %v", err)
	}

	// A single bound is fine.
	if _, err := NewJob(title, desc, loc, company, wt, "", "", "", f64(80000), nil, nil); err != nil {
		t.Errorf("unexpected error for salary_min only: %v", err)
	}
}

func TestDocument_NestedSkills(t *testing.T) {
	title, desc, loc, company, wt := validJobArgs()
	j, err := NewJob(title, desc, loc, company, wt, "", "", "", nil, nil, []string{"Go", "Kubernetes"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	doc := j.Document()
	if len(doc.Skills) != 2 {
		t.Fatalf("expected 2 nested skills, got %d", len(doc.Skills))
	}
	if doc.Skills[0].Name != "Go" || doc.Skills[1].Name != "Kubernetes" {
		t.Errorf("unexpected nested skills: %+v", doc.Skills)
	}
	if doc.Title != j.Title || doc.WorkType != j.WorkType {
		t.Error("scalar fields must copy verbatim")
	}
}
