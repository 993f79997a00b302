package domain

// CatalogVersion tags the rule catalog exposed through the audit endpoint.
// Bump whenever a threshold, weight, or trigger condition changes.
const CatalogVersion = "1.0.0"

// VitalRange is a clinically normal band for one vital sign. Values inside
// the band (inclusive) score zero risk.
type VitalRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether the value lies inside the normal band.
func (r VitalRange) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// RuleCatalog is the static, versioned description of every threshold,
// weight, and trigger condition used by the scoring pipeline. It is built
// once at process start and never mutated; concurrent reads need no
// synchronization. Exposed read-only for transparency and audit.
type RuleCatalog struct {
	Version string

	// Clinically normal ranges per vital sign.
	HeartRate        VitalRange
	SystolicBP       VitalRange
	DiastolicBP      VitalRange
	OxygenSaturation VitalRange
	RespiratoryRate  VitalRange
	Temperature      VitalRange // Fahrenheit

	// Fixed category weights for the aggregate score. Weights do not
	// renormalize when vitals are absent: a record with fewer vitals has a
	// structurally lower score ceiling.
	HeartRateWeight        float64
	BloodPressureWeight    float64
	OxygenSaturationWeight float64
	RespiratoryRateWeight  float64
	TemperatureWeight      float64

	TrendWeight   float64
	HistoryWeight float64

	// Level thresholds, inclusive on the lower end.
	CriticalThreshold float64
	HighThreshold     float64
	MediumThreshold   float64

	// Factor text is added only when a category sub-score exceeds this.
	FactorThreshold float64

	// Free-text medical history entries are matched against these
	// condition keywords, case-insensitively.
	HighRiskConditions []string
	HistoryMatchScore  float64
	HistoryScoreCap    float64
}

// DefaultRuleCatalog constructs the catalog of clinical scoring rules. Each
// call returns a fresh value, so callers cannot alias shared mutable state.
func DefaultRuleCatalog() RuleCatalog {
	return RuleCatalog{
		Version: CatalogVersion,

		HeartRate:        VitalRange{Min: 60, Max: 100},
		SystolicBP:       VitalRange{Min: 90, Max: 140},
		DiastolicBP:      VitalRange{Min: 60, Max: 90},
		OxygenSaturation: VitalRange{Min: 95, Max: 100},
		RespiratoryRate:  VitalRange{Min: 12, Max: 20},
		Temperature:      VitalRange{Min: 97.0, Max: 99.5},

		HeartRateWeight:        0.20,
		BloodPressureWeight:    0.25,
		OxygenSaturationWeight: 0.30,
		RespiratoryRateWeight:  0.15,
		TemperatureWeight:      0.10,

		TrendWeight:   0.15,
		HistoryWeight: 0.10,

		CriticalThreshold: 75,
		HighThreshold:     50,
		MediumThreshold:   25,

		FactorThreshold: 50,

		HighRiskConditions: []string{
			"diabetes", "heart disease", "copd", "asthma",
			"hypertension", "kidney disease", "cancer",
		},
		HistoryMatchScore: 15,
		HistoryScoreCap:   50,
	}
}

// LevelForScore maps a bounded risk score to its discrete level using the
// catalog thresholds. Thresholds are inclusive on the lower end and
// evaluated highest-first: >=75 critical, >=50 high, >=25 medium, otherwise
// low under the default catalog.
func (c RuleCatalog) LevelForScore(score float64) RiskLevel {
	switch {
	case score >= c.CriticalThreshold:
		return RiskCritical
	case score >= c.HighThreshold:
		return RiskHigh
	case score >= c.MediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Snapshot renders the catalog as the audit payload served by the
// explain-rules endpoint. The structure mirrors the dashboard's transparency
// view: level semantics, normal ranges, calculation weights, and alert
// trigger conditions.
func (c RuleCatalog) Snapshot() map[string]any {
	return map[string]any{
		"version": c.Version,
		"risk_levels": map[string]string{
			"critical": "Risk score >= 75 - Immediate intervention required",
			"high":     "Risk score 50-74 - Increased monitoring and assessment",
			"medium":   "Risk score 25-49 - Routine monitoring with attention to trends",
			"low":      "Risk score < 25 - Standard monitoring",
		},
		"vital_sign_ranges": map[string]any{
			"heartRate": map[string]string{
				"normal": "60-100 bpm",
				"low":    "< 60 bpm (bradycardia)",
				"high":   "> 100 bpm (tachycardia)",
			},
			"bloodPressure": map[string]string{
				"normal": "Systolic: 90-140 mmHg, Diastolic: 60-90 mmHg",
				"low":    "Systolic < 90 mmHg (hypotension)",
				"high":   "Systolic > 140 mmHg (hypertension)",
			},
			"oxygenSaturation": map[string]string{
				"normal":   "95-100%",
				"low":      "< 95% (hypoxemia)",
				"critical": "< 90% (severe hypoxemia)",
			},
			"respiratoryRate": map[string]string{
				"normal": "12-20 breaths/min",
				"low":    "< 12 breaths/min (bradypnea)",
				"high":   "> 20 breaths/min (tachypnea)",
			},
			"temperature": map[string]string{
				"normal": "97.0-99.5°F",
				"low":    "< 97.0°F (hypothermia)",
				"high":   "> 99.5°F (fever)",
			},
		},
		"risk_calculation": map[string]any{
			"weights": map[string]string{
				"heartRate":        "20%",
				"bloodPressure":    "25%",
				"oxygenSaturation": "30%",
				"respiratoryRate":  "15%",
				"temperature":      "10%",
			},
			"trend_analysis":  "15% weight for deteriorating trends",
			"medical_history": "10% weight for high-risk conditions",
		},
		"alert_triggers": map[string]any{
			"critical": []string{
				"Oxygen saturation < 90%",
				"Heart rate < 40 or > 150 bpm",
				"Systolic BP < 80 mmHg",
				"Risk score >= 75",
			},
			"warning": []string{
				"Oxygen saturation < 93%",
				"Respiratory rate > 24 breaths/min",
				"Temperature > 101°F",
				"Risk score 50-74",
			},
		},
	}
}
