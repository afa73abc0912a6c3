package analysis

import (
	"regexp"
	"strconv"
	"time"
)

// Date pattern families, tried in order: document text first, then the
// filename. Filename patterns accept 2-digit years, normalized to 20YY.
// The first match that is a valid calendar date wins; invalid values
// (month 13, Feb 30) are skipped and scanning continues.
var (
	textSlashRe = regexp.MustCompile(`\b(0?[1-9]|1[0-2])[/\-](0?[1-9]|[12][0-9]|3[01])[/\-](19\d{2}|20\d{2})\b`)
	textMonthRe = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+([12]?\d|3[01]),\s*(19\d{2}|20\d{2})\b`)
	textISORe   = regexp.MustCompile(`\b(19\d{2}|20\d{2})-(0?[1-9]|1[0-2])-(0?[1-9]|[12]\d|3[01])\b`)

	// \b does not work here: underscores are word characters, so boundaries
	// never fire in names like report_01.05.2024.pdf. Guard with explicit
	// non-digit context instead.
	fileDottedRe = regexp.MustCompile(`(?:^|[^0-9])(0?[1-9]|1[0-2])[.\-_](0?[1-9]|[12]\d|3[01])[.\-_]((?:19|20)?\d{2})(?:$|[^0-9])`)
	fileISORe    = regexp.MustCompile(`(?:^|[^0-9])(19\d{2}|20\d{2})[-_](0?[1-9]|1[0-2])[-_](0?[1-9]|[12]\d|3[01])(?:$|[^0-9])`)
)

var monthNumbers = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// ExtractDate recovers the ISO YYYY-MM-DD date associated with a document
// from its text or, failing that, its filename. Returns "" and false when no
// valid calendar date is found; such documents are excluded from all
// date-grouped comparisons.
func ExtractDate(text, fileName string) (string, bool) {
	if text != "" {
		for _, m := range textSlashRe.FindAllStringSubmatch(text, -1) {
			if iso, ok := isoDate(m[3], m[1], m[2]); ok {
				return iso, true
			}
		}
		for _, m := range textMonthRe.FindAllStringSubmatch(text, -1) {
			if iso, ok := isoDate(m[3], strconv.Itoa(monthNumbers[m[1]]), m[2]); ok {
				return iso, true
			}
		}
		for _, m := range textISORe.FindAllStringSubmatch(text, -1) {
			if iso, ok := isoDate(m[1], m[2], m[3]); ok {
				return iso, true
			}
		}
	}

	for _, m := range fileDottedRe.FindAllStringSubmatch(fileName, -1) {
		if iso, ok := isoDate(expandYear(m[3]), m[1], m[2]); ok {
			return iso, true
		}
	}
	for _, m := range fileISORe.FindAllStringSubmatch(fileName, -1) {
		if iso, ok := isoDate(m[1], m[2], m[3]); ok {
			return iso, true
		}
	}

	return "", false
}

// dateTokens returns every valid ISO date mentioned in text, for pairwise
// date-mismatch detection.
func dateTokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	if text == "" {
		return set
	}
	for _, m := range textSlashRe.FindAllStringSubmatch(text, -1) {
		if iso, ok := isoDate(m[3], m[1], m[2]); ok {
			set[iso] = struct{}{}
		}
	}
	for _, m := range textMonthRe.FindAllStringSubmatch(text, -1) {
		if iso, ok := isoDate(m[3], strconv.Itoa(monthNumbers[m[1]]), m[2]); ok {
			set[iso] = struct{}{}
		}
	}
	for _, m := range textISORe.FindAllStringSubmatch(text, -1) {
		if iso, ok := isoDate(m[1], m[2], m[3]); ok {
			set[iso] = struct{}{}
		}
	}
	return set
}

// expandYear normalizes a 2-digit year to 20YY.
func expandYear(y string) string {
	if len(y) == 2 {
		return "20" + y
	}
	return y
}

// isoDate validates year/month/day strings as a real calendar date and
// returns the ISO form.
func isoDate(year, month, day string) (string, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return "", false
	}
	// Normalize through time.Date and reject values that rolled over
	// (e.g. Feb 30 becomes Mar 1).
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
