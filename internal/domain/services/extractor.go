package services

import (
	"context"
)

// ExtractionMetadata is the optional metadata a text extractor recovers from
// the file itself.
type ExtractionMetadata struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// Extraction is the result of pulling text out of an uploaded file.
type Extraction struct {
	Text      string             `json:"text"`
	PageCount int                `json:"page_count"`
	Metadata  ExtractionMetadata `json:"metadata"`
}

// TextExtractor pulls text and page metadata out of raw file bytes.
// Extraction may fail; callers must treat a failed extraction as "document
// has no text" and degrade gracefully, not abort the ingestion.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, maxPages int) (*Extraction, error)
}
