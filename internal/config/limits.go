package config

const (
	// MaxFileNameLength is the maximum length for uploaded file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFileNameLength = 255

	// MaxTitleLength is the maximum length for document titles.
	// Same limit as file names for consistency.
	MaxTitleLength = 255

	// MaxTextContentLength caps how much extracted text is stored per
	// document. Scanned filings can run to hundreds of pages; the analysis
	// layers only need enough text for similarity and vocabulary scans.
	MaxTextContentLength = 1 << 20

	// MaxExtractPages caps how many pages the PDF extractor walks per
	// upload so a pathological file cannot stall ingestion.
	MaxExtractPages = 200

	// MaxUploadBytes is the largest accepted upload body.
	MaxUploadBytes = 50 << 20
)
