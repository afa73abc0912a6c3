package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/services"
	"github.com/sspedowski/justice-document-pip-sub000/internal/metrics"
)

type fakeIngest struct {
	result *services.IngestResult
	err    error
}

func (f *fakeIngest) Ingest(context.Context, *services.IngestRequest) (*services.IngestResult, error) {
	return f.result, f.err
}

// Shared across handler tests: the collectors register once per process.
var testMetrics = metrics.New()

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func multipartUpload(t *testing.T, fileName string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadDocumentDuplicateConflict(t *testing.T) {
	verdict := models.DuplicateResult{
		IsDuplicate: true,
		MatchType:   models.MatchExact,
		Confidence:  100,
		Matched:     &models.DocumentRef{ID: "doc-1", FileName: "original.pdf"},
		Reason:      "identical file hash",
	}
	ingest := &fakeIngest{err: &domain.DuplicateError{Verdict: verdict}}
	h := NewDocumentHandler(ingest, nil, testMetrics, quietLogger())

	w := httptest.NewRecorder()
	h.UploadDocument(w, multipartUpload(t, "original.pdf", []byte("%PDF-1.4 contents")))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}

	var body struct {
		Status    int                    `json:"status"`
		Detail    string                 `json:"detail"`
		Duplicate models.DuplicateResult `json:"duplicate"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != http.StatusConflict || body.Detail == "" {
		t.Errorf("problem body incomplete: status=%d detail=%q", body.Status, body.Detail)
	}
	if !body.Duplicate.IsDuplicate || body.Duplicate.MatchType != models.MatchExact {
		t.Errorf("duplicate verdict = %+v", body.Duplicate)
	}
	if body.Duplicate.Matched == nil || body.Duplicate.Matched.ID != "doc-1" {
		t.Errorf("matched ref = %+v, want doc-1", body.Duplicate.Matched)
	}
}

func TestUploadDocumentCreated(t *testing.T) {
	doc := &models.Document{ID: "doc-9", FileName: "review.pdf", Title: "Case Review"}
	ingest := &fakeIngest{result: &services.IngestResult{Document: doc}}
	h := NewDocumentHandler(ingest, nil, testMetrics, quietLogger())

	w := httptest.NewRecorder()
	h.UploadDocument(w, multipartUpload(t, "review.pdf", []byte("%PDF-1.4 contents")))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	var res services.IngestResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Document == nil || res.Document.ID != "doc-9" {
		t.Errorf("result document = %+v", res.Document)
	}
}
