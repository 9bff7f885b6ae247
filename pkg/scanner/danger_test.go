package scanner

import (
	"math"
	"math/rand"
	"testing"
)

func TestDangerPercentage(t *testing.T) {
	tests := []struct {
		name  string
		stats StatCounts
		want  float64
	}{
		{name: "nil map", stats: nil, want: 0},
		{name: "empty map", stats: StatCounts{}, want: 0},
		{name: "all zero", stats: StatCounts{"harmless": 0, "malicious": 0}, want: 0},
		{
			name:  "ten percent",
			stats: StatCounts{"harmless": 60, "malicious": 5, "suspicious": 5, "undetected": 30},
			want:  10,
		},
		{name: "all malicious", stats: StatCounts{"malicious": 7}, want: 100},
		{name: "clean", stats: StatCounts{"harmless": 70, "undetected": 20, "timeout": 3}, want: 0},
		{name: "rounded to two decimals", stats: StatCounts{"malicious": 1, "harmless": 2}, want: 33.33},
		{name: "rounds above half up", stats: StatCounts{"suspicious": 2, "harmless": 1}, want: 66.67},
		{name: "tie rounds to even, 3 of 96", stats: StatCounts{"malicious": 3, "harmless": 93}, want: 3.12},
		{name: "tie rounds to even, 1 of 32", stats: StatCounts{"malicious": 1, "harmless": 31}, want: 3.12},
		{name: "tie rounds to even, 5 of 32", stats: StatCounts{"suspicious": 5, "undetected": 27}, want: 15.62},
		{name: "tie already even, 9 of 32", stats: StatCounts{"malicious": 9, "undetected": 23}, want: 28.12},
		{name: "tie rounds to even, 10 of 64", stats: StatCounts{"malicious": 6, "suspicious": 4, "harmless": 54}, want: 15.62},
		{
			name:  "unknown categories count toward total",
			stats: StatCounts{"malicious": 1, "harmless": 1, "type-unsupported": 2},
			want:  25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DangerPercentage(tt.stats); got != tt.want {
				t.Errorf("DangerPercentage(%v) = %v, want %v", tt.stats, got, tt.want)
			}
		})
	}
}

func TestDangerPercentage_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := []string{CategoryHarmless, CategoryMalicious, CategorySuspicious, CategoryUndetected, CategoryTimeout, "failure"}

	for i := 0; i < 500; i++ {
		stats := StatCounts{}
		for _, c := range categories {
			if rng.Intn(3) == 0 {
				continue
			}
			stats[c] = rng.Intn(80)
		}

		got := DangerPercentage(stats)
		if got < 0 || got > 100 {
			t.Fatalf("DangerPercentage(%v) = %v, outside [0, 100]", stats, got)
		}
		if stats.Total() == 0 && got != 0 {
			t.Fatalf("DangerPercentage(%v) = %v, want 0 for empty total", stats, got)
		}
		if cents := got * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
			t.Fatalf("DangerPercentage(%v) = %v, more than two decimals", stats, got)
		}
	}
}

// Flagged/total pairs whose percentage lands exactly on a half cent.
func TestDangerPercentage_HalfCentTies(t *testing.T) {
	tests := []struct {
		flagged, total int
		want           float64
	}{
		{1, 32, 3.12}, {5, 32, 15.62}, {13, 32, 40.62}, {17, 32, 53.12},
		{21, 32, 65.62}, {29, 32, 90.62}, {2, 64, 3.12}, {42, 64, 65.62},
		{58, 64, 90.62}, {3, 96, 3.12}, {15, 96, 15.62}, {39, 96, 40.62},
		{51, 96, 53.12}, {75, 96, 78.12}, {87, 96, 90.62},
	}

	for _, tt := range tests {
		stats := StatCounts{CategoryMalicious: tt.flagged, CategoryUndetected: tt.total - tt.flagged}
		if got := DangerPercentage(stats); got != tt.want {
			t.Errorf("DangerPercentage(%d of %d) = %v, want %v", tt.flagged, tt.total, got, tt.want)
		}
	}
}

func TestStatCounts_Total(t *testing.T) {
	stats := StatCounts{"harmless": 60, "malicious": 5, "suspicious": 5, "undetected": 30, "timeout": 0}
	if got := stats.Total(); got != 100 {
		t.Errorf("Total() = %d, want 100", got)
	}
	if got := stats.Get("confirmed-timeout"); got != 0 {
		t.Errorf("Get(absent) = %d, want 0", got)
	}
}
