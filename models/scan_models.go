package models

// ScanURLRequest is the body of POST /scan.
type ScanURLRequest struct {
	URL string `json:"url" example:"https://example.com"`
}

// ScanResponse is the verdict summary returned by /scan and /scan_file.
// Exactly one of URL and Filename is set, echoing what was scanned.
type ScanResponse struct {
	URL              string  `json:"url,omitempty" example:"https://example.com"`
	Filename         string  `json:"filename,omitempty" example:"invoice.pdf"`
	Status           string  `json:"status" example:"completed"` // completed, queued, in-progress or unknown
	Total            int     `json:"total" example:"100"`        // Sum of every category VirusTotal reported
	Harmless         int     `json:"harmless" example:"60"`
	Undetected       int     `json:"undetected" example:"30"`
	Timeout          int     `json:"timeout" example:"0"`
	Malicious        int     `json:"malicious" example:"5"`
	Suspicious       int     `json:"suspicious" example:"5"`
	DangerPercentage float64 `json:"danger_percentage" example:"10"` // (malicious+suspicious)/total*100, 2 decimals
	AnalysisID       string  `json:"analysis_id" example:"u-0f115db062b7c0dd030b16878c99dea5c354b49dc37b38eb8846179c7783e9d7-1700000000"`
}
