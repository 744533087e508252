// Package query compiles a filter model into the boolean search query
// executed by the backend. Compilation is pure and deterministic: the same
// model always yields the same clause list, and the clause count equals the
// number of clause-producing filters present.
package query

import (
	"github.com/boiar/job-search-project/internal/domain/search/filter"
)

// M is a fragment of the search DSL.
type M map[string]any

// Kind identifies what a clause filters on.
type Kind string

// Clause kinds, in the order Compile emits them.
const (
	KindFullText      Kind = "full_text"
	KindMatch         Kind = "match"
	KindSalaryOverlap Kind = "salary_overlap"
	KindSkills        Kind = "skills"
)

// Fuzziness applied to free-text and skill matching. Edit-distance
// tolerance is chosen by the backend per term length.
const Fuzziness = "AUTO"

// fullTextFields are the multi-match targets; title is weighted 3x.
var fullTextFields = []string{"title^3", "description", "skills.name"}

// Clause is one atomic condition of the compiled boolean query.
type Clause struct {
	kind  Kind
	field string
	body  M
}

// Kind returns what the clause filters on.
func (c Clause) Kind() Kind { return c.kind }

// Field returns the filtered field for match clauses ("" otherwise).
func (c Clause) Field() string { return c.field }

// Body returns the DSL fragment of the clause.
func (c Clause) Body() M { return c.body }

// Compiled is an ordered conjunction of clauses. It is immutable after
// construction and consumed once per backend call.
type Compiled struct {
	clauses []Clause
}

// Compile translates a filter model into a compiled query. Clause order is
// stable: full text, location, work_type, experience, company_size,
// industry, salary, skills.
func Compile(m filter.Model) Compiled {
	var clauses []Clause

	if q := m.SearchQuery(); q != "" {
		clauses = append(clauses, fullTextClause(q))
	}

	scalars := []struct {
		field string
		value string
	}{
		{"location", m.Location()},
		{"work_type", m.WorkType()},
		{"experience", m.Experience()},
		{"company_size", m.CompanySize()},
		{"industry", m.Industry()},
	}
	for _, s := range scalars {
		if s.value != "" {
			clauses = append(clauses, matchClause(s.field, s.value))
		}
	}

	if sr := m.Salary(); sr != nil {
		clauses = append(clauses, salaryOverlapClause(sr.Min, sr.Max))
	}

	if skills := m.Skills(); len(skills) > 0 {
		clauses = append(clauses, skillsClause(skills))
	}

	return Compiled{clauses: clauses}
}

// Clauses returns the ordered clause list.
func (c Compiled) Clauses() []Clause { return c.clauses }

// IsEmpty reports whether the query has no clauses. An empty query is
// valid: the backend treats an empty must list as match-all.
func (c Compiled) IsEmpty() bool { return len(c.clauses) == 0 }

// Root renders the whole query as a bool/must conjunction.
func (c Compiled) Root() M {
	must := make([]M, 0, len(c.clauses))
	for _, cl := range c.clauses {
		must = append(must, cl.body)
	}
	return M{"bool": M{"must": must}}
}

// fullTextClause is the only clause tolerant of misspellings: a fuzzy
// multi-field match over title (boosted), description, and skill names.
func fullTextClause(q string) Clause {
	return Clause{
		kind: KindFullText,
		body: M{
			"multi_match": M{
				"query":     q,
				"fields":    fullTextFields,
				"fuzziness": Fuzziness,
			},
		},
	}
}

func matchClause(field, value string) Clause {
	return Clause{
		kind:  KindMatch,
		field: field,
		body:  M{"match": M{field: value}},
	}
}

// salaryOverlapClause selects jobs whose salary band overlaps the requested
// band: the job starts at or below the requested max, or ends at or above
// the requested min.
func salaryOverlapClause(min, max float64) Clause {
	return Clause{
		kind: KindSalaryOverlap,
		body: M{
			"bool": M{
				"should": []M{
					{"range": M{"salary_min": M{"lte": max}}},
					{"range": M{"salary_max": M{"gte": min}}},
				},
				"minimum_should_match": 1,
			},
		},
	}
}

// skillsClause is a disjunction of one fuzzy nested match per requested
// skill. Each sub-clause is scoped to a single nested skill entry so a
// match never spans different entries.
func skillsClause(skills []string) Clause {
	should := make([]M, 0, len(skills))
	for _, s := range skills {
		should = append(should, M{
			"nested": M{
				"path": "skills",
				"query": M{
					"match": M{
						"skills.name": M{
							"query":     s,
							"fuzziness": Fuzziness,
						},
					},
				},
			},
		})
	}
	return Clause{
		kind: KindSkills,
		body: M{
			"bool": M{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
	}
}
