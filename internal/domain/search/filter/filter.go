// Package filter models a single search request: an optional free-text
// query plus independent optional filters. Parsing is lenient by contract:
// malformed optional input degrades to "filter omitted", never to an error.
package filter

import (
	"strconv"
	"strings"
)

// Input is the raw, untrusted shape of a search request.
type Input struct {
	SearchQuery string
	Location    string
	WorkType    string
	Experience  string
	CompanySize string
	Industry    string
	SalaryRange string
	Skills      []string
}

// SalaryRange is a successfully parsed "<min>-<max>" request band.
type SalaryRange struct {
	Min float64
	Max float64
}

// Model is a parsed search request. A zero Model is valid and means
// "no filters": the backend returns its default result set.
type Model struct {
	searchQuery string
	location    string
	workType    string
	experience  string
	companySize string
	industry    string
	salary      *SalaryRange
	skills      []string
}

// Parse builds a Model from raw input. It is total: it never fails,
// it only omits filters it cannot interpret.
func Parse(in Input) Model {
	return Model{
		searchQuery: in.SearchQuery,
		location:    in.Location,
		workType:    in.WorkType,
		experience:  in.Experience,
		companySize: in.CompanySize,
		industry:    in.Industry,
		salary:      parseSalaryRange(in.SalaryRange),
		skills:      dedupeSkills(in.Skills),
	}
}

// SearchQuery returns the free-text query ("" when absent).
func (m *Model) SearchQuery() string { return m.searchQuery }

// Location returns the location filter ("" when absent).
func (m *Model) Location() string { return m.location }

// WorkType returns the work-type filter ("" when absent).
func (m *Model) WorkType() string { return m.workType }

// Experience returns the experience filter ("" when absent).
func (m *Model) Experience() string { return m.experience }

// CompanySize returns the company-size filter ("" when absent).
func (m *Model) CompanySize() string { return m.companySize }

// Industry returns the industry filter ("" when absent).
func (m *Model) Industry() string { return m.industry }

// Salary returns the parsed salary band, or nil when the range was absent
// or malformed.
func (m *Model) Salary() *SalaryRange { return m.salary }

// Skills returns the deduplicated skill set in first-seen order.
func (m *Model) Skills() []string { return m.skills }

// IsEmpty reports whether no filter is present at all.
func (m *Model) IsEmpty() bool {
	return m.searchQuery == "" &&
		m.location == "" &&
		m.workType == "" &&
		m.experience == "" &&
		m.companySize == "" &&
		m.industry == "" &&
		m.salary == nil &&
		len(m.skills) == 0
}

// parseSalaryRange parses "<min>-<max>". Anything that is not exactly two
// numeric halves yields nil: bad input means "no salary filter".
func parseSalaryRange(s string) *SalaryRange {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}
	return &SalaryRange{Min: min, Max: max}
}

// dedupeSkills drops empty strings and exact (case-sensitive) duplicates,
// preserving first-seen order.
func dedupeSkills(skills []string) []string {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
