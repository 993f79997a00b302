package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mediq-risk-service/internal/domain"
)

// alertOutcome is the result of a matched trigger rule.
type alertOutcome struct {
	Type     domain.AlertType
	Severity domain.AlertSeverity
	Message  string
}

// alertRule is one (predicate, outcome) pair of the clinical trigger table.
// Rules are evaluated top to bottom within a level bucket; the first rule
// whose predicate holds decides the alert.
type alertRule struct {
	applies func(v *domain.VitalSigns, score float64) bool
	outcome func(v *domain.VitalSigns, score float64) alertOutcome
}

// AlertGenerator selects one alert per call from the priority-ordered
// clinical trigger tables and assembles it with an explanation and
// actionable steps. Safe for concurrent use.
type AlertGenerator struct {
	logger    *logrus.Logger
	explainer *Explainer
	tables    map[domain.RiskLevel][]alertRule
}

// NewAlertGenerator creates an alert generator backed by the explainer's
// text catalog.
func NewAlertGenerator(logger *logrus.Logger, explainer *Explainer) *AlertGenerator {
	return &AlertGenerator{
		logger:    logger,
		explainer: explainer,
		tables:    buildAlertTables(),
	}
}

// always is a trigger predicate for the fallback rule of a level bucket.
func always(*domain.VitalSigns, float64) bool { return true }

// buildAlertTables wires the ordered decision tables per risk level. Each
// bucket ends in a fallback rule so classification is total: every
// (vitals, score, level) input produces exactly one alert.
func buildAlertTables() map[domain.RiskLevel][]alertRule {
	return map[domain.RiskLevel][]alertRule{
		domain.RiskCritical: {
			{
				applies: func(v *domain.VitalSigns, _ float64) bool {
					return v.OxygenSaturation != nil && *v.OxygenSaturation < 90
				},
				outcome: func(v *domain.VitalSigns, _ float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertRespiratoryDistress,
						Severity: domain.SeverityCritical,
						Message: fmt.Sprintf("Critical: Oxygen saturation at %s%% - Immediate intervention required",
							formatVital(*v.OxygenSaturation)),
					}
				},
			},
			{
				applies: func(v *domain.VitalSigns, _ float64) bool {
					return v.HeartRate != nil && (*v.HeartRate < 40 || *v.HeartRate > 150)
				},
				outcome: func(v *domain.VitalSigns, _ float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertCardiac,
						Severity: domain.SeverityCritical,
						Message: fmt.Sprintf("Critical: Heart rate %s bpm - Cardiac monitoring required",
							formatVital(*v.HeartRate)),
					}
				},
			},
			{
				applies: func(v *domain.VitalSigns, _ float64) bool {
					return v.SystolicBP != nil && *v.SystolicBP < 80
				},
				outcome: func(v *domain.VitalSigns, _ float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertHypotension,
						Severity: domain.SeverityCritical,
						Message: fmt.Sprintf("Critical: Systolic BP %s mmHg - Hypotension detected",
							formatVital(*v.SystolicBP)),
					}
				},
			},
			{
				applies: always,
				outcome: func(_ *domain.VitalSigns, score float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertHighRisk,
						Severity: domain.SeverityCritical,
						Message:  fmt.Sprintf("Critical: Patient risk score %.1f - Immediate assessment required", score),
					}
				},
			},
		},
		domain.RiskHigh: {
			{
				applies: func(v *domain.VitalSigns, _ float64) bool {
					return v.OxygenSaturation != nil && *v.OxygenSaturation < 93
				},
				outcome: func(v *domain.VitalSigns, _ float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertOxygenDesaturation,
						Severity: domain.SeverityWarning,
						Message: fmt.Sprintf("Warning: Oxygen saturation %s%% - Monitor closely",
							formatVital(*v.OxygenSaturation)),
					}
				},
			},
			{
				applies: func(v *domain.VitalSigns, _ float64) bool {
					return v.RespiratoryRate != nil && *v.RespiratoryRate > 24
				},
				outcome: func(v *domain.VitalSigns, _ float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertTachypnea,
						Severity: domain.SeverityWarning,
						Message: fmt.Sprintf("Warning: Respiratory rate %s breaths/min - Elevated",
							formatVital(*v.RespiratoryRate)),
					}
				},
			},
			{
				applies: func(v *domain.VitalSigns, _ float64) bool {
					return v.Temperature != nil && *v.Temperature > 101
				},
				outcome: func(v *domain.VitalSigns, _ float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertFever,
						Severity: domain.SeverityWarning,
						Message: fmt.Sprintf("Warning: Temperature %s°F - Fever detected",
							formatVital(*v.Temperature)),
					}
				},
			},
			{
				applies: always,
				outcome: func(_ *domain.VitalSigns, score float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertElevatedRisk,
						Severity: domain.SeverityWarning,
						Message:  fmt.Sprintf("Warning: Patient risk score %.1f - Increased monitoring recommended", score),
					}
				},
			},
		},
		domain.RiskMedium: {
			{
				applies: always,
				outcome: func(_ *domain.VitalSigns, score float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertModerateRisk,
						Severity: domain.SeverityInfo,
						Message:  fmt.Sprintf("Info: Patient risk score %.1f - Continue routine monitoring", score),
					}
				},
			},
		},
		domain.RiskLow: {
			{
				applies: always,
				outcome: func(_ *domain.VitalSigns, score float64) alertOutcome {
					return alertOutcome{
						Type:     domain.AlertStable,
						Severity: domain.SeverityInfo,
						Message:  fmt.Sprintf("Info: Patient risk score %.1f - Patient stable", score),
					}
				},
			},
		},
	}
}

// Generate produces a fresh alert for the patient from vitals and a
// precomputed score and level. Alerts carry a unique identifier and are
// never persisted or deduplicated.
func (g *AlertGenerator) Generate(patientID string, vitals *domain.VitalSigns, score float64, level domain.RiskLevel) (alert *domain.Alert, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("alert generation failed: %v", r)
		}
	}()

	outcome := g.classify(vitals, score, level)

	alert = &domain.Alert{
		AlertID:         uuid.New().String(),
		PatientID:       patientID,
		AlertType:       outcome.Type,
		Severity:        outcome.Severity,
		Message:         outcome.Message,
		Explanation:     g.explainer.AlertExplanation(outcome.Type, vitals, score),
		ActionableSteps: g.explainer.ActionableSteps(outcome.Type),
		Timestamp:       domain.NowTimestamp(),
	}

	g.logger.WithFields(logrus.Fields{
		"alert_id":   alert.AlertID,
		"patient_id": patientID,
		"alert_type": alert.AlertType.String(),
		"severity":   alert.Severity.String(),
		"risk_score": score,
	}).Info("Generated alert")

	return alert, nil
}

// classify runs the first-match decision table for the level. Unknown
// levels fall through to the stable bucket.
func (g *AlertGenerator) classify(vitals *domain.VitalSigns, score float64, level domain.RiskLevel) alertOutcome {
	table, ok := g.tables[level]
	if !ok {
		table = g.tables[domain.RiskLow]
	}
	for _, rule := range table {
		if rule.applies(vitals, score) {
			return rule.outcome(vitals, score)
		}
	}
	// Unreachable: every bucket ends in an always-true fallback.
	return g.tables[domain.RiskLow][0].outcome(vitals, score)
}
