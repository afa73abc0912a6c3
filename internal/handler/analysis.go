package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/services"
	"github.com/sspedowski/justice-document-pip-sub000/internal/httputil"
	"github.com/sspedowski/justice-document-pip-sub000/internal/metrics"
	"github.com/sspedowski/justice-document-pip-sub000/internal/service/report"
)

// AnalysisHandler handles tampering-analysis HTTP requests
type AnalysisHandler struct {
	analysis services.AnalysisService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysis services.AnalysisService, m *metrics.Metrics, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysis: analysis,
		metrics:  m,
		logger:   logger,
	}
}

// RunAnalysis runs the full analysis over the current corpus and returns the
// raw result. Unchanged corpora are served from the memoized result.
// POST /api/analysis/run
func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := h.analysis.Run(r.Context())
	if err != nil {
		h.metrics.AnalysisRunsTotal.WithLabelValues("error").Inc()
		handleError(w, err)
		return
	}

	flagCount := 0
	for _, g := range result.DateGroups {
		flagCount += g.SuspiciousChanges
	}
	h.metrics.RecordAnalysis(result.DocumentCount, flagCount, len(result.Systematic.Patterns), result.Risk.Score, time.Since(start))

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetReport runs the analysis and returns the layered report in the requested
// format: json (default), text, csv or markdown.
// GET /api/analysis/report?format=json
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.analysis.Run(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	rep := report.Compile(result)

	switch r.URL.Query().Get("format") {
	case "", "json":
		httputil.RespondJSON(w, http.StatusOK, rep)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(report.RenderText(rep)))
	case "csv":
		csv, err := report.RenderCSV(rep)
		if err != nil {
			handleError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="changes_summary.csv"`)
		w.Write([]byte(csv))
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.RenderMarkdown(rep)))
	default:
		httputil.RespondError(w, http.StatusBadRequest, "unknown format (expected json, text, csv or markdown)")
	}
}
