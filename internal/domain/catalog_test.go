package domain

import (
	"math"
	"testing"
)

func TestDefaultRuleCatalogWeights(t *testing.T) {
	c := DefaultRuleCatalog()

	sum := c.HeartRateWeight + c.BloodPressureWeight + c.OxygenSaturationWeight +
		c.RespiratoryRateWeight + c.TemperatureWeight
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Expected vital weights to sum to 1.0, got %v", sum)
	}

	if c.Version != CatalogVersion {
		t.Errorf("Expected version %s, got %s", CatalogVersion, c.Version)
	}
}

func TestDefaultRuleCatalogIsFreshValue(t *testing.T) {
	a := DefaultRuleCatalog()
	a.HighRiskConditions[0] = "mutated"

	b := DefaultRuleCatalog()
	if b.HighRiskConditions[0] != "diabetes" {
		t.Error("Expected each call to return an unshared catalog")
	}
}

func TestVitalRangeContains(t *testing.T) {
	r := VitalRange{Min: 60, Max: 100}

	tests := []struct {
		name     string
		value    float64
		expected bool
	}{
		{"Below", 59.9, false},
		{"Lower bound", 60, true},
		{"Inside", 80, true},
		{"Upper bound", 100, true},
		{"Above", 100.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.value); got != tt.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestLevelForScoreThresholds(t *testing.T) {
	c := DefaultRuleCatalog()

	tests := []struct {
		name     string
		score    float64
		expected RiskLevel
	}{
		{"Zero", 0, RiskLow},
		{"Just below medium", 24.999, RiskLow},
		{"Medium boundary", 25.0, RiskMedium},
		{"Just below high", 49.999, RiskMedium},
		{"High boundary", 50.0, RiskHigh},
		{"Just below critical", 74.999, RiskHigh},
		{"Critical boundary", 75.0, RiskCritical},
		{"Maximum", 100, RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.LevelForScore(tt.score); got != tt.expected {
				t.Errorf("LevelForScore(%v) = %s, expected %s", tt.score, got, tt.expected)
			}
		})
	}
}

func TestLevelForScoreCustomThresholds(t *testing.T) {
	c := DefaultRuleCatalog()
	c.CriticalThreshold = 90
	c.HighThreshold = 60
	c.MediumThreshold = 30

	tests := []struct {
		name     string
		score    float64
		expected RiskLevel
	}{
		{"Below raised medium", 27, RiskLow},
		{"Raised medium", 30, RiskMedium},
		{"Default critical now only high", 80, RiskHigh},
		{"Raised critical", 90, RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.LevelForScore(tt.score); got != tt.expected {
				t.Errorf("LevelForScore(%v) = %s, expected %s", tt.score, got, tt.expected)
			}
		})
	}
}

func TestCatalogSnapshot(t *testing.T) {
	snap := DefaultRuleCatalog().Snapshot()

	for _, key := range []string{"version", "risk_levels", "vital_sign_ranges", "risk_calculation", "alert_triggers"} {
		if _, ok := snap[key]; !ok {
			t.Errorf("Expected snapshot to contain %q", key)
		}
	}

	levels, ok := snap["risk_levels"].(map[string]string)
	if !ok {
		t.Fatal("Expected risk_levels to be a string map")
	}
	if len(levels) != 4 {
		t.Errorf("Expected 4 risk levels, got %d", len(levels))
	}
}
