package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sspedowski/justice-document-pip-sub000/internal/config"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/services"
	"github.com/sspedowski/justice-document-pip-sub000/internal/httputil"
	"github.com/sspedowski/justice-document-pip-sub000/internal/metrics"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	ingest  services.IngestService
	docs    services.DocumentService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(ingest services.IngestService, docs services.DocumentService, m *metrics.Metrics, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		ingest:  ingest,
		docs:    docs,
		metrics: m,
		logger:  logger,
	}
}

// UploadDocument ingests a new file.
// POST /api/documents (multipart form, field "file")
// Returns 201 with the stored document, or 409 with the duplicate verdict.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)

	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	result, err := h.ingest.Ingest(r.Context(), &services.IngestRequest{
		FileName:   header.Filename,
		Data:       data,
		UploadedBy: httputil.GetUserID(r),
	})
	if err != nil {
		var dup *domain.DuplicateError
		if errors.As(err, &dup) {
			h.metrics.IngestsTotal.WithLabelValues("duplicate").Inc()
			h.metrics.DuplicatesTotal.WithLabelValues(string(dup.Verdict.MatchType)).Inc()
			httputil.RespondErrorWithExtras(w, http.StatusConflict, dup.Error(),
				map[string]interface{}{"duplicate": dup.Verdict})
			return
		}
		h.metrics.IngestsTotal.WithLabelValues("error").Inc()
		handleError(w, err)
		return
	}

	h.metrics.IngestsTotal.WithLabelValues("ok").Inc()
	if result.Document != nil && !result.Document.HasText() {
		h.metrics.ExtractionErrors.Inc()
	}
	httputil.RespondJSON(w, http.StatusCreated, result)
}

// ListDocuments returns every document on file.
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.DocumentListResponse{
		Documents: docs,
		Total:     len(docs),
	})
}

// GetDocument retrieves a document by ID.
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.docs.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument applies a partial edit and appends a version snapshot.
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req models.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docs.Update(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// GetVersions returns a document's full version history.
// GET /api/documents/{id}/versions
func (h *DocumentHandler) GetVersions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	versions, err := h.docs.Versions(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// HealthCheck reports service liveness.
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
