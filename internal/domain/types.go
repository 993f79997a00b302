// Package domain contains the core business entities for clinical risk
// assessment: vital-sign readings, patient context, risk levels, and the
// alert taxonomy consumed by monitoring dashboards.
package domain

import (
	"errors"
	"fmt"
)

// RiskLevel represents the discrete clinical risk classification derived
// from the bounded risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AlertSeverity represents the urgency tier of a generated alert.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// AlertType identifies the clinical trigger rule that fired for an alert.
type AlertType string

const (
	AlertRespiratoryDistress AlertType = "respiratory_distress"
	AlertCardiac             AlertType = "cardiac_alert"
	AlertHypotension         AlertType = "hypotension"
	AlertHighRisk            AlertType = "high_risk"
	AlertOxygenDesaturation  AlertType = "oxygen_desaturation"
	AlertTachypnea           AlertType = "tachypnea"
	AlertFever               AlertType = "fever"
	AlertElevatedRisk        AlertType = "elevated_risk"
	AlertModerateRisk        AlertType = "moderate_risk"
	AlertStable              AlertType = "stable"
)

// Validation errors for clinical data integrity
var (
	ErrInvalidRiskLevel     = errors.New("invalid risk level")
	ErrInvalidAlertType     = errors.New("invalid alert type")
	ErrInvalidAlertSeverity = errors.New("invalid alert severity")
	ErrMissingPatientID     = errors.New("patient ID is required")
)

// IsValid validates that the RiskLevel is one of the four supported tiers.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (l RiskLevel) String() string {
	return string(l)
}

// RequiresImmediateAction reports whether the level demands clinical
// escalation rather than routine monitoring.
func (l RiskLevel) RequiresImmediateAction() bool {
	return l == RiskHigh || l == RiskCritical
}

// IsValid validates the alert severity.
func (s AlertSeverity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s AlertSeverity) String() string {
	return string(s)
}

// IsValid validates the alert type against the fixed trigger catalog.
func (t AlertType) IsValid() bool {
	switch t {
	case AlertRespiratoryDistress, AlertCardiac, AlertHypotension, AlertHighRisk,
		AlertOxygenDesaturation, AlertTachypnea, AlertFever, AlertElevatedRisk,
		AlertModerateRisk, AlertStable:
		return true
	default:
		return false
	}
}

// String returns the string representation of the alert type.
func (t AlertType) String() string {
	return string(t)
}

// ParseRiskLevel converts a wire-format level string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRiskLevel, s)
	}
	return level, nil
}
