package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// RenderText renders a plain-text briefing of the report.
func RenderText(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DOCUMENT INTEGRITY REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.Summary.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Documents analyzed: %d\n", r.Summary.DocumentCount)
	fmt.Fprintf(&b, "Overall risk: %s (score %.1f, confidence %.0f%%)\n",
		r.Summary.OverallRisk, r.Summary.Score, r.Summary.Confidence*100)
	fmt.Fprintf(&b, "\n%s\n", r.Summary.Narrative)

	if len(r.Findings.Patterns) > 0 {
		b.WriteString("\nSYSTEMATIC PATTERNS\n")
		for _, p := range r.Findings.Patterns {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", strings.ToUpper(string(p.Severity)), p.Type, p.Description)
		}
	}
	if len(r.Findings.TimelineAnomalies) > 0 {
		b.WriteString("\nTIMELINE ANOMALIES\n")
		for _, a := range r.Findings.TimelineAnomalies {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", strings.ToUpper(string(a.Severity)), a.Type, a.Description)
		}
	}
	if len(r.Findings.DateGroups) > 0 {
		b.WriteString("\nSAME-DATE COMPARISONS\n")
		for _, g := range r.Findings.DateGroups {
			fmt.Fprintf(&b, "  %s: %d documents, %d suspicious changes\n",
				g.Date, g.DocumentCount, g.SuspiciousChanges)
			for _, f := range g.Flags {
				fmt.Fprintf(&b, "    - [%s] %s\n", f.Severity, f.Description)
			}
		}
	}
	if len(r.Findings.LegalImplications) > 0 {
		b.WriteString("\nLEGAL IMPLICATIONS\n")
		for _, li := range r.Findings.LegalImplications {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", strings.ToUpper(string(li.Severity)), li.Type, li.Description)
		}
	}
	if len(r.Findings.Recommendations) > 0 {
		b.WriteString("\nRECOMMENDATIONS\n")
		for _, rec := range r.Findings.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}
	return b.String()
}

// RenderMarkdown renders the report as Markdown.
func RenderMarkdown(r *Report) string {
	var b strings.Builder
	b.WriteString("# Document Integrity Report\n\n")
	fmt.Fprintf(&b, "- **Generated:** %s\n", r.Summary.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- **Documents analyzed:** %d\n", r.Summary.DocumentCount)
	fmt.Fprintf(&b, "- **Overall risk:** %s (score %.1f, confidence %.0f%%)\n\n",
		r.Summary.OverallRisk, r.Summary.Score, r.Summary.Confidence*100)
	fmt.Fprintf(&b, "%s\n", r.Summary.Narrative)

	if len(r.Findings.Patterns) > 0 {
		b.WriteString("\n## Systematic Patterns\n\n")
		b.WriteString("| Type | Severity | Confidence | Description |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, p := range r.Findings.Patterns {
			fmt.Fprintf(&b, "| %s | %s | %.2f | %s |\n", p.Type, p.Severity, p.Confidence, p.Description)
		}
	}
	if len(r.Findings.TimelineAnomalies) > 0 {
		b.WriteString("\n## Timeline Anomalies\n\n")
		for _, a := range r.Findings.TimelineAnomalies {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", a.Type, a.Severity, a.Description)
		}
	}
	if len(r.Findings.DateGroups) > 0 {
		b.WriteString("\n## Same-Date Comparisons\n")
		for _, g := range r.Findings.DateGroups {
			fmt.Fprintf(&b, "\n### %s (%d documents, %d suspicious changes)\n\n",
				g.Date, g.DocumentCount, g.SuspiciousChanges)
			for _, f := range g.Flags {
				fmt.Fprintf(&b, "- [%s] %s\n", f.Severity, f.Description)
			}
		}
	}
	if len(r.Findings.LegalImplications) > 0 {
		b.WriteString("\n## Legal Implications\n\n")
		for _, li := range r.Findings.LegalImplications {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", li.Type, li.Severity, li.Description)
		}
	}
	if len(r.Findings.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for _, rec := range r.Findings.Recommendations {
			fmt.Fprintf(&b, "1. %s\n", rec)
		}
	}
	b.WriteString("\n## Methodology\n\n")
	for _, l := range r.Methodology.Layers {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	return b.String()
}

// RenderCSV renders every flag, pattern, anomaly and inconsistency as one
// CSV row for spreadsheet review.
func RenderCSV(r *Report) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"layer", "date", "type", "severity", "confidence", "description", "documents"}); err != nil {
		return "", err
	}

	for _, g := range r.Findings.DateGroups {
		for _, f := range g.Flags {
			if err := w.Write([]string{
				"baseline", g.Date, string(f.Type), string(f.Severity),
				fmt.Sprintf("%.2f", f.Confidence), f.Description,
				strings.Join(f.AffectedDocuments, ";"),
			}); err != nil {
				return "", err
			}
		}
	}
	for _, p := range r.Findings.Patterns {
		if err := w.Write([]string{
			"systematic", "", string(p.Type), string(p.Severity),
			fmt.Sprintf("%.2f", p.Confidence), p.Description,
			strings.Join(p.AffectedDocuments, ";"),
		}); err != nil {
			return "", err
		}
	}
	for _, a := range r.Findings.TimelineAnomalies {
		if err := w.Write([]string{
			"timeline", "", string(a.Type), string(a.Severity),
			fmt.Sprintf("%.2f", a.Confidence), a.Description, a.DocumentID,
		}); err != nil {
			return "", err
		}
	}
	for _, inc := range r.Findings.Inconsistencies {
		if err := w.Write([]string{
			"inconsistency", "", string(inc.Type), string(inc.Severity), "",
			inc.Description, inc.Documents[0] + ";" + inc.Documents[1],
		}); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
