package elastic

import "encoding/json"

// SearchResponse holds the relevant parts of a search backend response.
// Aggregations stay raw so parsing is delayed until the aggregation type
// is known.
type SearchResponse struct {
	Took         int                        `json:"took"`
	TimedOut     bool                       `json:"timed_out"`
	Hits         HitsInfo                   `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations,omitempty"`
}

// HitsInfo describes the document hits of a search.
type HitsInfo struct {
	Total    TotalHits `json:"total"`
	MaxScore *float64  `json:"max_score"`
	Hits     []DocHit  `json:"hits"`
}

// TotalHits is the (possibly approximate) total match count.
type TotalHits struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

// DocHit is a single returned document with optional field highlights.
type DocHit struct {
	Index     string              `json:"_index"`
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// errorResponse is the backend's error envelope.
type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}
