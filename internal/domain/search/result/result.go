// Package result projects backend hits into the compact records returned
// to clients, substituting relevance-highlighted snippets for plain field
// values when the backend produced them.
package result

import (
	"github.com/boiar/job-search-project/internal/domain"
)

// DescriptionLimit is the display length of an unhighlighted description.
const DescriptionLimit = 150

// Hit is one backend hit in relevance order: the stored document plus any
// field highlights.
type Hit struct {
	ID        string
	Document  domain.JobDocument
	Highlight map[string][]string
}

// Record is the client-facing shape of a hit. Title and Description hold
// display values: the first highlighted snippet when one exists, the
// stored value otherwise.
type Record struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Location    string              `json:"location"`
	CompanyName string              `json:"company_name"`
	WorkType    string              `json:"work_type"`
	Industry    string              `json:"industry,omitempty"`
	CompanySize string              `json:"company_size,omitempty"`
	Experience  string              `json:"experience,omitempty"`
	SalaryMin   *float64            `json:"salary_min,omitempty"`
	SalaryMax   *float64            `json:"salary_max,omitempty"`
	Skills      []string            `json:"skills"`
	Highlight   map[string][]string `json:"highlight,omitempty"`
}

// Project converts hits into records, preserving backend order and never
// dropping a hit. Zero hits is a valid outcome and projects to an empty
// slice.
func Project(hits []Hit) []Record {
	records := make([]Record, 0, len(hits))
	for _, h := range hits {
		records = append(records, project(h))
	}
	return records
}

func project(h Hit) Record {
	doc := h.Document

	skills := make([]string, 0, len(doc.Skills))
	for _, s := range doc.Skills {
		skills = append(skills, s.Name)
	}

	r := Record{
		ID:          h.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Location:    doc.Location,
		CompanyName: doc.CompanyName,
		WorkType:    doc.WorkType,
		Industry:    doc.Industry,
		CompanySize: doc.CompanySize,
		Experience:  doc.Experience,
		SalaryMin:   doc.SalaryMin,
		SalaryMax:   doc.SalaryMax,
		Skills:      skills,
		Highlight:   h.Highlight,
	}

	if snippet, ok := firstSnippet(h.Highlight, "title"); ok {
		r.Title = snippet
	}

	if snippet, ok := firstSnippet(h.Highlight, "description"); ok {
		// A snippet is already an excerpt; never truncate it.
		r.Description = snippet
	} else {
		r.Description = truncate(doc.Description, DescriptionLimit)
	}

	return r
}

func firstSnippet(highlight map[string][]string, field string) (string, bool) {
	snippets, ok := highlight[field]
	if !ok || len(snippets) == 0 {
		return "", false
	}
	return snippets[0], true
}

// truncate shortens s to limit characters with a trailing ellipsis marker.
// Counted in runes so a multi-byte character is never split.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
