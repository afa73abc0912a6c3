package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/services"
)

func strPtr(s string) *string { return &s }

func newDocumentFixture(t *testing.T) (services.DocumentService, *fakeDocRepo, *fakeVersionRepo) {
	t.Helper()
	docs := &fakeDocRepo{}
	versions := newFakeVersionRepo()

	at := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	docs.docs = append(docs.docs, models.Document{
		ID:             "doc-1",
		FileName:       "hearing.pdf",
		Title:          "Hearing Notes",
		Category:       models.CategoryNo,
		UploadedAt:     at,
		LastModified:   at,
		CurrentVersion: 1,
	})
	versions.versions["doc-1"] = []models.DocumentVersion{
		{ID: "v-1", DocumentID: "doc-1", Version: 1, Title: "Hearing Notes", ChangeType: models.ChangeCreated, ChangedAt: at},
	}

	svc := NewDocumentService(docs, versions, fakeTxManager{}, discardLogger())
	return svc, docs, versions
}

func TestDocumentGet(t *testing.T) {
	svc, _, _ := newDocumentFixture(t)

	doc, err := svc.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Hearing Notes" {
		t.Errorf("title = %q", doc.Title)
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestDocumentVersionsUnknownID(t *testing.T) {
	svc, _, _ := newDocumentFixture(t)
	if _, err := svc.Versions(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown document must read as not found, got %v", err)
	}
}

func TestDocumentUpdate(t *testing.T) {
	svc, docs, versions := newDocumentFixture(t)

	cat := models.CategoryPrimary
	include := true
	updated, err := svc.Update(context.Background(), "doc-1", "reviewer@example.org", &models.UpdateDocumentRequest{
		Title:       strPtr("Hearing Notes (corrected)"),
		Category:    &cat,
		Include:     &include,
		Children:    []string{"Noel"},
		ChangeNotes: "corrected title, marked for inclusion",
	})
	if err != nil {
		t.Fatal(err)
	}

	if updated.CurrentVersion != 2 {
		t.Errorf("current version = %d, want 2", updated.CurrentVersion)
	}
	if updated.Title != "Hearing Notes (corrected)" || updated.Category != models.CategoryPrimary || !updated.Include {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.LastModifiedBy != "reviewer@example.org" {
		t.Errorf("last_modified_by = %q", updated.LastModifiedBy)
	}

	// The store reflects the update and the audit trail grew by one.
	stored, _ := docs.GetByID(context.Background(), "doc-1")
	if stored.CurrentVersion != 2 {
		t.Errorf("stored version = %d, want 2", stored.CurrentVersion)
	}
	vs := versions.versions["doc-1"]
	if len(vs) != 2 {
		t.Fatalf("version records = %d, want 2", len(vs))
	}
	last := vs[1]
	if last.Version != 2 || last.ChangeType != models.ChangeEdited {
		t.Errorf("snapshot = %+v", last)
	}
	if last.ChangeNotes != "corrected title, marked for inclusion" {
		t.Errorf("change notes = %q", last.ChangeNotes)
	}
	if len(last.Children) != 1 || last.Children[0] != "Noel" {
		t.Errorf("snapshot children = %v", last.Children)
	}
}

func TestDocumentUpdatePartial(t *testing.T) {
	svc, _, _ := newDocumentFixture(t)

	desc := "minutes of the February hearing"
	updated, err := svc.Update(context.Background(), "doc-1", "reviewer@example.org", &models.UpdateDocumentRequest{
		Description: &desc,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Hearing Notes" {
		t.Errorf("untouched title changed: %q", updated.Title)
	}
	if updated.Description != desc {
		t.Errorf("description = %q", updated.Description)
	}
}

func TestDocumentUpdateValidation(t *testing.T) {
	svc, _, _ := newDocumentFixture(t)

	bad := models.Category("Secret")
	tests := []struct {
		name string
		req  *models.UpdateDocumentRequest
	}{
		{"empty title", &models.UpdateDocumentRequest{Title: strPtr("")}},
		{"unknown category", &models.UpdateDocumentRequest{Category: &bad}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), "doc-1", "reviewer@example.org", tc.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestDocumentUpdateUnknownID(t *testing.T) {
	svc, _, _ := newDocumentFixture(t)
	if _, err := svc.Update(context.Background(), "missing", "reviewer@example.org", &models.UpdateDocumentRequest{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}
