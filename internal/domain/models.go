package domain

import (
	"fmt"
	"time"
)

// VitalSigns holds a single reading of patient vital signs. Every field is
// independently optional: a nil pointer means the vital was not measured and
// must be excluded from scoring, never treated as zero.
type VitalSigns struct {
	HeartRate        *float64 `json:"heartRate,omitempty"`
	SystolicBP       *float64 `json:"systolicBP,omitempty"`
	DiastolicBP      *float64 `json:"diastolicBP,omitempty"`
	OxygenSaturation *float64 `json:"oxygenSaturation,omitempty"`
	RespiratoryRate  *float64 `json:"respiratoryRate,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	Timestamp        string   `json:"timestamp,omitempty"`
}

// HasBloodPressure reports whether both blood pressure components are
// present. The blood pressure category only contributes when both are known.
func (v *VitalSigns) HasBloodPressure() bool {
	return v.SystolicBP != nil && v.DiastolicBP != nil
}

// PatientData aggregates the clinical context for one risk assessment.
type PatientData struct {
	PatientID          string         `json:"patientId"`
	Vitals             VitalSigns     `json:"vitals"`
	Age                *int           `json:"age,omitempty"`
	MedicalHistory     []string       `json:"medicalHistory,omitempty"`
	CurrentMedications []string       `json:"currentMedications,omitempty"`
	LabResults         map[string]any `json:"labResults,omitempty"`
}

// Validate ensures the patient context carries the required identifier.
// Vital fields are intentionally not validated here: absent vitals are a
// valid "unknown" signal, not an error.
func (p *PatientData) Validate() error {
	if p.PatientID == "" {
		return fmt.Errorf("patient data validation: %w", ErrMissingPatientID)
	}
	return nil
}

// RiskAssessment is the derived output of one scoring run. It is recomputed
// per call and never stored.
type RiskAssessment struct {
	PatientID           string    `json:"patientId"`
	RiskScore           float64   `json:"riskScore"`
	RiskLevel           RiskLevel `json:"riskLevel"`
	Explanation         string    `json:"explanation"`
	ContributingFactors []string  `json:"contributingFactors"`
	Recommendations     []string  `json:"recommendations"`
	Timestamp           string    `json:"timestamp"`
}

// Alert is a single actionable alert generated from vitals plus a
// precomputed score and level. Alerts are generated fresh per call with a
// unique identifier; there is no persistence or deduplication.
type Alert struct {
	AlertID         string        `json:"alertId"`
	PatientID       string        `json:"patientId"`
	AlertType       AlertType     `json:"alertType"`
	Severity        AlertSeverity `json:"severity"`
	Message         string        `json:"message"`
	Explanation     string        `json:"explanation"`
	ActionableSteps []string      `json:"actionableSteps"`
	Timestamp       string        `json:"timestamp"`
}

// NowTimestamp returns the wire-format timestamp used on derived outputs.
func NowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
