package analysis

import (
	"testing"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fileName string
		want     string
		found    bool
	}{
		{
			name:  "slash date in text",
			text:  "CPS investigation report dated 01/05/2024 regarding placement.",
			want:  "2024-01-05",
			found: true,
		},
		{
			name:  "slash date without zero padding",
			text:  "Interview conducted 3/7/2023 at the family home.",
			want:  "2023-03-07",
			found: true,
		},
		{
			name:  "month name date in text",
			text:  "Signed on January 5, 2024 by the caseworker.",
			want:  "2024-01-05",
			found: true,
		},
		{
			name:  "iso date in text",
			text:  "Filed 2024-02-01 with the county clerk.",
			want:  "2024-02-01",
			found: true,
		},
		{
			name:     "text date wins over filename date",
			text:     "Report of 01/05/2024.",
			fileName: "report_02.01.2024.pdf",
			want:     "2024-01-05",
			found:    true,
		},
		{
			name:     "dotted filename date",
			fileName: "CPS_Report_01.05.2024.pdf",
			want:     "2024-01-05",
			found:    true,
		},
		{
			name:     "filename with two digit year",
			fileName: "police_report_3-15-23.pdf",
			want:     "2023-03-15",
			found:    true,
		},
		{
			name:     "iso filename date",
			fileName: "interview_2024-02-01_final.pdf",
			want:     "2024-02-01",
			found:    true,
		},
		{
			name:  "invalid calendar date skipped for later valid one",
			text:  "Dated 02/30/2024, corrected to 02/28/2024.",
			want:  "2024-02-28",
			found: true,
		},
		{
			name:  "no date anywhere",
			text:  "Narrative with no dates at all.",
			found: false,
		},
		{
			name:     "empty inputs",
			text:     "",
			fileName: "report.pdf",
			found:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractDate(tt.text, tt.fileName)
			if found != tt.found {
				t.Fatalf("ExtractDate() found = %v, want %v", found, tt.found)
			}
			if got != tt.want {
				t.Errorf("ExtractDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDateDeterministic(t *testing.T) {
	text := "Events of 01/05/2024 and 2024-02-01 and March 3, 2024."
	first, _ := ExtractDate(text, "")
	for i := 0; i < 10; i++ {
		got, _ := ExtractDate(text, "")
		if got != first {
			t.Fatalf("ExtractDate() not deterministic: %q vs %q", got, first)
		}
	}
}

func TestDateTokens(t *testing.T) {
	text := "Original report 01/05/2024 referenced the 2024-02-01 filing and February 30, 2024."
	tokens := dateTokens(text)

	for _, want := range []string{"2024-01-05", "2024-02-01"} {
		if _, ok := tokens[want]; !ok {
			t.Errorf("dateTokens() missing %q", want)
		}
	}
	if len(tokens) != 2 {
		t.Errorf("dateTokens() = %d entries, want 2 (invalid Feb 30 must be dropped)", len(tokens))
	}
}

func TestExpandYear(t *testing.T) {
	if got := expandYear("23"); got != "2023" {
		t.Errorf("expandYear(23) = %q", got)
	}
	if got := expandYear("1999"); got != "1999" {
		t.Errorf("expandYear(1999) = %q", got)
	}
}
