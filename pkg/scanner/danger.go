package scanner

import "math"

// Verdict categories reported by VirusTotal engines.
const (
	CategoryHarmless   = "harmless"
	CategoryMalicious  = "malicious"
	CategorySuspicious = "suspicious"
	CategoryUndetected = "undetected"
	CategoryTimeout    = "timeout"
)

// StatCounts maps a verdict category to the number of engines that reported it.
// Absent categories count as zero.
type StatCounts map[string]int

// Get returns the count for category, 0 if absent.
func (s StatCounts) Get(category string) int {
	return s[category]
}

// Total sums every category present, including ones this package does not name.
func (s StatCounts) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// DangerPercentage returns the share of engines that flagged the target as
// malicious or suspicious, in percent rounded to two decimals with ties to
// even (3 of 96 is 3.12). It is 0 when no engine reported.
func DangerPercentage(stats StatCounts) float64 {
	total := stats.Total()
	if total == 0 {
		return 0
	}
	flagged := stats.Get(CategoryMalicious) + stats.Get(CategorySuspicious)
	pct := float64(flagged) / float64(total) * 100
	return math.RoundToEven(pct*100) / 100
}
