package service

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mediq-risk-service/internal/domain"
)

// vitalCategory is one entry of the explainable scoring strategy: a named
// category with its fixed weight, a presence check, a piecewise sub-scorer,
// and the contributing-factor text used when the sub-score is high enough.
// The aggregate score iterates these in order over present fields only, so
// every contributing weight stays inspectable.
type vitalCategory struct {
	name    string
	weight  float64
	present func(v *domain.VitalSigns) bool
	score   func(e *RiskEngine, v *domain.VitalSigns, age *int) float64
	factor  func(v *domain.VitalSigns) string
}

// buildCategories wires the fixed category table from the rule catalog.
// Order matters: contributing factors are reported in this order.
func buildCategories(catalog domain.RuleCatalog) []vitalCategory {
	return []vitalCategory{
		{
			name:    "heartRate",
			weight:  catalog.HeartRateWeight,
			present: func(v *domain.VitalSigns) bool { return v.HeartRate != nil },
			score: func(e *RiskEngine, v *domain.VitalSigns, age *int) float64 {
				return e.scoreHeartRate(*v.HeartRate, age)
			},
			factor: func(v *domain.VitalSigns) string {
				direction := "low"
				if *v.HeartRate > 100 {
					direction = "elevated"
				}
				return fmt.Sprintf("Heart rate %s bpm is %s", formatVital(*v.HeartRate), direction)
			},
		},
		{
			name:    "bloodPressure",
			weight:  catalog.BloodPressureWeight,
			present: func(v *domain.VitalSigns) bool { return v.HasBloodPressure() },
			score: func(e *RiskEngine, v *domain.VitalSigns, age *int) float64 {
				return e.scoreBloodPressure(*v.SystolicBP, *v.DiastolicBP)
			},
			factor: func(v *domain.VitalSigns) string {
				return fmt.Sprintf("Blood pressure %s/%s mmHg is abnormal",
					formatVital(*v.SystolicBP), formatVital(*v.DiastolicBP))
			},
		},
		{
			name:    "oxygenSaturation",
			weight:  catalog.OxygenSaturationWeight,
			present: func(v *domain.VitalSigns) bool { return v.OxygenSaturation != nil },
			score: func(e *RiskEngine, v *domain.VitalSigns, age *int) float64 {
				return e.scoreOxygenSaturation(*v.OxygenSaturation)
			},
			factor: func(v *domain.VitalSigns) string {
				return fmt.Sprintf("Oxygen saturation %s%% is below normal", formatVital(*v.OxygenSaturation))
			},
		},
		{
			name:    "respiratoryRate",
			weight:  catalog.RespiratoryRateWeight,
			present: func(v *domain.VitalSigns) bool { return v.RespiratoryRate != nil },
			score: func(e *RiskEngine, v *domain.VitalSigns, age *int) float64 {
				return e.scoreRespiratoryRate(*v.RespiratoryRate)
			},
			factor: func(v *domain.VitalSigns) string {
				return fmt.Sprintf("Respiratory rate %s breaths/min is abnormal", formatVital(*v.RespiratoryRate))
			},
		},
		{
			name:    "temperature",
			weight:  catalog.TemperatureWeight,
			present: func(v *domain.VitalSigns) bool { return v.Temperature != nil },
			score: func(e *RiskEngine, v *domain.VitalSigns, age *int) float64 {
				return e.scoreTemperature(*v.Temperature)
			},
			factor: func(v *domain.VitalSigns) string {
				condition := "hypothermia"
				if *v.Temperature > 99.5 {
					condition = "fever"
				}
				return fmt.Sprintf("Temperature %s°F indicates %s", formatVital(*v.Temperature), condition)
			},
		},
	}
}

// scoreHeartRate maps a heart rate to a sub-score. Inside the normal band
// the score is exactly zero; outside it grows piecewise-linearly with a
// fixed offset for crossing into the abnormal band and a steeper slope in
// the severely abnormal band.
//
// The age parameter is accepted for age-adjusted normal ranges but does not
// currently influence the curve; the anchors below are adult resting values.
func (e *RiskEngine) scoreHeartRate(hr float64, age *int) float64 {
	r := e.catalog.HeartRate
	switch {
	case r.Contains(hr):
		return 0
	case hr < 50:
		return 60 + (50-hr)*2 // very low HR
	case hr > 120:
		return 50 + (hr-120)*1.5 // elevated HR
	case hr > r.Max:
		return 30 + (hr-r.Max)*1.0
	default:
		return 20 + (r.Min-hr)*1.0
	}
}

// scoreBloodPressure scores systolic and diastolic independently and sums
// them, with an extra fixed bonus at hypertensive-crisis thresholds. The
// sum is capped at 100.
func (e *RiskEngine) scoreBloodPressure(systolic, diastolic float64) float64 {
	sr, dr := e.catalog.SystolicBP, e.catalog.DiastolicBP

	risk := 0.0
	if systolic < sr.Min {
		risk += 40 + (sr.Min-systolic)*2
	} else if systolic > sr.Max {
		risk += 30 + (systolic-sr.Max)*1.5
		if systolic > 180 {
			risk += 30 // hypertensive crisis
		}
	}

	if diastolic < dr.Min {
		risk += 30 + (dr.Min-diastolic)*2
	} else if diastolic > dr.Max {
		risk += 25 + (diastolic-dr.Max)*1.5
		if diastolic > 120 {
			risk += 25 // hypertensive crisis
		}
	}

	return math.Min(100, risk)
}

// scoreOxygenSaturation escalates through three abnormal bands below the
// normal floor of 95%.
func (e *RiskEngine) scoreOxygenSaturation(spo2 float64) float64 {
	r := e.catalog.OxygenSaturation
	switch {
	case spo2 >= r.Min:
		return 0
	case spo2 >= 90:
		return 30 + (r.Min-spo2)*3
	case spo2 >= 85:
		return 60 + (90-spo2)*4
	default:
		return 90 + (85-spo2)*5 // critical hypoxemia
	}
}

// scoreRespiratoryRate scores breaths per minute against the 12-20 band.
func (e *RiskEngine) scoreRespiratoryRate(rr float64) float64 {
	r := e.catalog.RespiratoryRate
	switch {
	case r.Contains(rr):
		return 0
	case rr < 10:
		return 50 + (10-rr)*5 // very low
	case rr > 25:
		return 40 + (rr-25)*2 // elevated
	case rr > r.Max:
		return 20 + (rr-r.Max)*1.5
	default:
		return 15 + (r.Min-rr)*1.5
	}
}

// scoreTemperature scores degrees Fahrenheit against the 97.0-99.5 band.
func (e *RiskEngine) scoreTemperature(temp float64) float64 {
	r := e.catalog.Temperature
	switch {
	case r.Contains(temp):
		return 0
	case temp > 102:
		return 60 + (temp-102)*10 // high fever
	case temp > r.Max:
		return 30 + (temp-r.Max)*5
	case temp < 95:
		return 70 + (95-temp)*10 // hypothermia
	default:
		return 20 + (r.Min-temp)*5
	}
}

// formatVital renders a vital value without trailing zeros for message
// interpolation (110 stays "110", 98.6 stays "98.6").
func formatVital(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
