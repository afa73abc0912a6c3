package models

import (
	"time"
)

// Category classifies where a document sits in the case file.
type Category string

const (
	CategoryPrimary    Category = "Primary"
	CategorySupporting Category = "Supporting"
	CategoryExternal   Category = "External"
	CategoryNo         Category = "No"
)

// ChangeType records how a document version came to exist.
type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeEdited   ChangeType = "edited"
	ChangeImported ChangeType = "imported"
)

// Placement records which assembled outputs a document belongs to.
type Placement struct {
	MasterFile      bool `json:"master_file" db:"master_file"`
	ExhibitBundle   bool `json:"exhibit_bundle" db:"exhibit_bundle"`
	OversightPacket bool `json:"oversight_packet" db:"oversight_packet"`
}

// Document is a case document on file. TextContent is nil when extraction
// failed; all text-dependent analysis degrades gracefully for such documents.
type Document struct {
	ID             string       `json:"id" db:"id"`
	FileName       string       `json:"file_name" db:"file_name"`
	Title          string       `json:"title" db:"title"`
	Description    string       `json:"description" db:"description"`
	TextContent    *string      `json:"text_content" db:"text_content"`
	Category       Category     `json:"category" db:"category"`
	Children       []string     `json:"children" db:"children"`
	Laws           []string     `json:"laws" db:"laws"`
	Include        bool         `json:"include" db:"include"`
	Placement      Placement    `json:"placement"`
	UploadedAt     time.Time    `json:"uploaded_at" db:"uploaded_at"`
	LastModified   time.Time    `json:"last_modified" db:"last_modified"`
	LastModifiedBy string       `json:"last_modified_by" db:"last_modified_by"`
	CurrentVersion int          `json:"current_version" db:"current_version"`
	Fingerprint    *Fingerprint `json:"fingerprint,omitempty"`
}

// Text returns the extracted text or "" when no text is available.
func (d *Document) Text() string {
	if d.TextContent == nil {
		return ""
	}
	return *d.TextContent
}

// HasText reports whether usable extracted text exists for this document.
func (d *Document) HasText() bool {
	return d.TextContent != nil && *d.TextContent != ""
}

// DocumentVersion is an immutable snapshot of a document's fields, appended on
// every mutation. Versions are the audit trail the analysis engine relies on;
// they are never updated or deleted once written.
type DocumentVersion struct {
	ID          string     `json:"id" db:"id"`
	DocumentID  string     `json:"document_id" db:"document_id"`
	Version     int        `json:"version" db:"version"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Category    Category   `json:"category" db:"category"`
	Children    []string   `json:"children" db:"children"`
	Laws        []string   `json:"laws" db:"laws"`
	Include     bool       `json:"include" db:"include"`
	Placement   Placement  `json:"placement"`
	ChangedBy   string     `json:"changed_by" db:"changed_by"`
	ChangedAt   time.Time  `json:"changed_at" db:"changed_at"`
	ChangeType  ChangeType `json:"change_type" db:"change_type"`
	ChangeNotes string     `json:"change_notes,omitempty" db:"change_notes"`
}

// Snapshot builds the version record capturing the document's current fields.
// The caller assigns ID, Version, ChangedBy/At and ChangeType.
func Snapshot(doc *Document) DocumentVersion {
	return DocumentVersion{
		DocumentID:  doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Category:    doc.Category,
		Children:    append([]string(nil), doc.Children...),
		Laws:        append([]string(nil), doc.Laws...),
		Include:     doc.Include,
		Placement:   doc.Placement,
	}
}

type UpdateDocumentRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Children    []string   `json:"children,omitempty"`
	Laws        []string   `json:"laws,omitempty"`
	Include     *bool      `json:"include,omitempty"`
	Placement   *Placement `json:"placement,omitempty"`
	ChangeNotes string     `json:"change_notes,omitempty"`
}

type DocumentListResponse struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}
