// Package aggs builds the analytics aggregation request and flattens the
// backend's aggregation response. The request side is declarative: it names
// which derived fields the backend must compute (the backend adapter owns
// the scripting mechanism that realizes them).
package aggs

import (
	"encoding/json"
)

// BucketSize caps every bucket request. Ranking is by descending document
// frequency; ties break on the backend default (term order).
const BucketSize = 10

// Derived field names referenced by bucket requests.
const (
	SkillNameField = "skill_name_runtime"
	TitleField     = "title_runtime"
)

// DerivationKind selects how a derived field is extracted per document.
type DerivationKind string

const (
	// DeriveNested emits one token per element of a nested array field's
	// sub-property.
	DeriveNested DerivationKind = "nested"
	// DeriveScalar emits the document's scalar field verbatim.
	DeriveScalar DerivationKind = "scalar"
)

// Derivation defines one derived (runtime) field.
type Derivation struct {
	name     string
	kind     DerivationKind
	path     string // nested array field (DeriveNested)
	property string // sub-property to emit (DeriveNested)
	field    string // scalar field to emit (DeriveScalar)
}

// Name returns the derived field name.
func (d Derivation) Name() string { return d.name }

// Kind returns the extraction rule kind.
func (d Derivation) Kind() DerivationKind { return d.kind }

// Path returns the nested array field for DeriveNested.
func (d Derivation) Path() string { return d.path }

// Property returns the emitted sub-property for DeriveNested.
func (d Derivation) Property() string { return d.property }

// Field returns the emitted scalar field for DeriveScalar.
func (d Derivation) Field() string { return d.field }

// Bucket names one requested term-frequency aggregation.
type Bucket struct {
	name  string
	field string
	size  int
}

// Name returns the aggregation name, which is also the response key.
func (b Bucket) Name() string { return b.name }

// Field returns the aggregated (possibly derived) field.
func (b Bucket) Field() string { return b.field }

// Size returns the maximum bucket count.
func (b Bucket) Size() int { return b.size }

// Spec is the full analytics aggregation request: derived-field
// definitions plus bucket requests.
type Spec struct {
	derived []Derivation
	buckets []Bucket
}

// Derived returns the derived-field definitions.
func (s Spec) Derived() []Derivation { return s.derived }

// Buckets returns the bucket requests.
func (s Spec) Buckets() []Bucket { return s.buckets }

// BuildSpec returns the analytics request. It is stateless and
// parameter-free: always the same five buckets, two of them over derived
// fields flattened from values not stored as directly aggregatable fields.
func BuildSpec() Spec {
	return Spec{
		derived: []Derivation{
			{name: SkillNameField, kind: DeriveNested, path: "skills", property: "name"},
			{name: TitleField, kind: DeriveScalar, field: "title"},
		},
		buckets: []Bucket{
			{name: "top_skills", field: SkillNameField, size: BucketSize},
			{name: "top_jobs", field: TitleField, size: BucketSize},
			{name: "work_types", field: "work_type", size: BucketSize},
			{name: "industries", field: "industry", size: BucketSize},
			{name: "experience_levels", field: "experience", size: BucketSize},
		},
	}
}

// Entry is one (key, count) pair of a flattened bucket.
type Entry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// termsResult is the backend shape of a terms aggregation.
type termsResult struct {
	Buckets []struct {
		Key      string `json:"key"`
		DocCount int64  `json:"doc_count"`
	} `json:"buckets"`
}

// Flatten converts the raw aggregation response into named (key, count)
// sequences, one per requested bucket. A missing or unparseable
// aggregation flattens to an empty sequence, never an error: zero matching
// documents is a valid analytics outcome.
func Flatten(spec Spec, raw map[string]json.RawMessage) map[string][]Entry {
	out := make(map[string][]Entry, len(spec.buckets))
	for _, b := range spec.buckets {
		out[b.name] = flattenOne(raw[b.name])
	}
	return out
}

func flattenOne(raw json.RawMessage) []Entry {
	entries := []Entry{}
	if len(raw) == 0 {
		return entries
	}

	var tr termsResult
	if err := json.Unmarshal(raw, &tr); err != nil {
		return entries
	}

	for _, b := range tr.Buckets {
		entries = append(entries, Entry{Key: b.Key, Count: b.DocCount})
	}
	return entries
}
