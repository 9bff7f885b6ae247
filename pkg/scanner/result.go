package scanner

import "github.com/vit0-9/vt_scanner_api/pkg/virustotal"

// StatusUnknown is reported when no analysis payload was received before the deadline.
const StatusUnknown = "unknown"

// Target identifies what was scanned: a URL or an uploaded file name.
type Target struct {
	URL      string
	Filename string
}

// Result is the normalized verdict summary for one scan.
type Result struct {
	Target           Target
	AnalysisID       string
	Status           string
	Stats            StatCounts
	Total            int
	DangerPercentage float64
}

// Completed reports whether VirusTotal finished the analysis before the deadline.
func (r *Result) Completed() bool {
	return r.Status == virustotal.StatusCompleted
}

// Assemble builds the Result from the last seen analysis attributes.
func Assemble(target Target, analysisID string, attrs virustotal.AnalysisAttributes) *Result {
	stats := StatCounts(attrs.Stats)
	if stats == nil {
		stats = StatCounts{}
	}
	status := attrs.Status
	if status == "" {
		status = StatusUnknown
	}
	return &Result{
		Target:           target,
		AnalysisID:       analysisID,
		Status:           status,
		Stats:            stats,
		Total:            stats.Total(),
		DangerPercentage: DangerPercentage(stats),
	}
}
