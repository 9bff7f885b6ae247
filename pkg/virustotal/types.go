package virustotal

// StatusCompleted is the analysis status after which no further polling is needed.
const StatusCompleted = "completed"

// Analysis is the body of GET /analyses/{id}. Only the fields the proxy reads are mapped.
type Analysis struct {
	Data AnalysisData `json:"data"`
}

type AnalysisData struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Attributes AnalysisAttributes `json:"attributes"`
}

// AnalysisAttributes holds the verdict block of an analysis.
type AnalysisAttributes struct {
	// Status is "queued", "in-progress" or "completed".
	Status string `json:"status"`
	// Stats maps verdict categories (harmless, malicious, ...) to engine counts.
	Stats map[string]int `json:"stats"`
}

// Completed returns true once VirusTotal has finished the analysis.
func (a *Analysis) Completed() bool {
	return a != nil && a.Data.Attributes.Status == StatusCompleted
}

// submission is the body of POST /urls and POST /files.
type submission struct {
	Data struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"data"`
}
