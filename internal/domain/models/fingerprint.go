package models

import (
	"time"
)

// Fingerprint is the derived identity of an uploaded file, computed once at
// ingestion and owned by the document it was computed for.
type Fingerprint struct {
	FileName       string    `json:"file_name" db:"file_name"`
	FileSize       int64     `json:"file_size" db:"file_size"`
	FileHash       string    `json:"file_hash" db:"file_hash"`
	FirstPageHash  string    `json:"first_page_hash" db:"first_page_hash"`
	ContentPreview string    `json:"content_preview" db:"content_preview"`
	PageCount      int       `json:"page_count" db:"page_count"`
	LastModified   time.Time `json:"last_modified" db:"last_modified"`
}

// MatchType is the tier at which a duplicate classification matched.
type MatchType string

const (
	MatchExact     MatchType = "exact"
	MatchRename    MatchType = "rename"
	MatchContent   MatchType = "content"
	MatchPartial   MatchType = "partial"
	MatchDateBased MatchType = "date-based"
	MatchNone      MatchType = "none"
)

// DocumentRef is a lightweight reference to a document in match and
// analysis output.
type DocumentRef struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	Title    string `json:"title,omitempty"`
}

// DateMatch carries the detail of a date-based duplicate fallback: the shared
// calendar date and the sibling documents already on file for it.
type DateMatch struct {
	Date                 string        `json:"date"`
	Siblings             []DocumentRef `json:"siblings"`
	BestSimilarity       float64       `json:"best_similarity"`
	RequiresManualReview bool          `json:"requires_manual_review"`
}

// DuplicateResult is the verdict for one upload attempt. It is transient:
// produced per attempt, never persisted.
type DuplicateResult struct {
	IsDuplicate bool         `json:"is_duplicate"`
	MatchType   MatchType    `json:"match_type"`
	Confidence  int          `json:"confidence"`
	Matched     *DocumentRef `json:"matched,omitempty"`
	Reason      string       `json:"reason"`
	DateMatch   *DateMatch   `json:"date_match,omitempty"`
}
