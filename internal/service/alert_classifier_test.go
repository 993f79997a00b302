package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediq-risk-service/internal/domain"
)

func newTestAlertGenerator() *AlertGenerator {
	return NewAlertGenerator(newTestLogger(), NewExplainer(domain.DefaultRuleCatalog()))
}

func TestGenerateCriticalRespiratoryDistress(t *testing.T) {
	vitals := &domain.VitalSigns{OxygenSaturation: fp(85)}

	alert, err := newTestAlertGenerator().Generate("patient-42", vitals, 82.0, domain.RiskCritical)
	require.NoError(t, err)

	assert.Equal(t, domain.AlertRespiratoryDistress, alert.AlertType)
	assert.Equal(t, domain.SeverityCritical, alert.Severity)
	assert.Equal(t, "patient-42", alert.PatientID)
	assert.Equal(t, "Critical: Oxygen saturation at 85% - Immediate intervention required", alert.Message)
	assert.Contains(t, alert.Explanation, "95-100%")
	assert.Contains(t, alert.Explanation, "85%")
	assert.NotEmpty(t, alert.ActionableSteps)
	assert.Equal(t, "Administer supplemental oxygen immediately", alert.ActionableSteps[0])
	assert.NotEmpty(t, alert.AlertID)
	assert.NotEmpty(t, alert.Timestamp)
}

func TestGenerateAlertIDsAreUnique(t *testing.T) {
	gen := newTestAlertGenerator()
	vitals := &domain.VitalSigns{}

	first, err := gen.Generate("p1", vitals, 10, domain.RiskLow)
	require.NoError(t, err)
	second, err := gen.Generate("p1", vitals, 10, domain.RiskLow)
	require.NoError(t, err)

	assert.NotEqual(t, first.AlertID, second.AlertID)
}

func TestClassifyCriticalFirstMatchWins(t *testing.T) {
	gen := newTestAlertGenerator()

	// All three specific triggers hold; desaturation is highest priority.
	vitals := &domain.VitalSigns{
		OxygenSaturation: fp(88),
		HeartRate:        fp(160),
		SystolicBP:       fp(70),
	}
	outcome := gen.classify(vitals, 90, domain.RiskCritical)
	assert.Equal(t, domain.AlertRespiratoryDistress, outcome.Type)

	// Without the saturation trigger, the cardiac rule takes over.
	vitals.OxygenSaturation = fp(95)
	outcome = gen.classify(vitals, 90, domain.RiskCritical)
	assert.Equal(t, domain.AlertCardiac, outcome.Type)

	vitals.HeartRate = fp(80)
	outcome = gen.classify(vitals, 90, domain.RiskCritical)
	assert.Equal(t, domain.AlertHypotension, outcome.Type)
}

func TestClassifyCriticalTable(t *testing.T) {
	gen := newTestAlertGenerator()

	tests := []struct {
		name         string
		vitals       *domain.VitalSigns
		expectedType domain.AlertType
	}{
		{"Low saturation", &domain.VitalSigns{OxygenSaturation: fp(89)}, domain.AlertRespiratoryDistress},
		{"Saturation at boundary not triggered", &domain.VitalSigns{OxygenSaturation: fp(90)}, domain.AlertHighRisk},
		{"Bradycardia", &domain.VitalSigns{HeartRate: fp(35)}, domain.AlertCardiac},
		{"Extreme tachycardia", &domain.VitalSigns{HeartRate: fp(155)}, domain.AlertCardiac},
		{"Severe hypotension", &domain.VitalSigns{SystolicBP: fp(75)}, domain.AlertHypotension},
		{"Score-only fallback", &domain.VitalSigns{}, domain.AlertHighRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := gen.classify(tt.vitals, 80, domain.RiskCritical)
			assert.Equal(t, tt.expectedType, outcome.Type)
			assert.Equal(t, domain.SeverityCritical, outcome.Severity)
		})
	}
}

func TestClassifyHighTable(t *testing.T) {
	gen := newTestAlertGenerator()

	tests := []struct {
		name         string
		vitals       *domain.VitalSigns
		expectedType domain.AlertType
	}{
		{"Mild desaturation", &domain.VitalSigns{OxygenSaturation: fp(92)}, domain.AlertOxygenDesaturation},
		{"Tachypnea", &domain.VitalSigns{RespiratoryRate: fp(26)}, domain.AlertTachypnea},
		{"Fever", &domain.VitalSigns{Temperature: fp(101.5)}, domain.AlertFever},
		{"Temperature at boundary not triggered", &domain.VitalSigns{Temperature: fp(101)}, domain.AlertElevatedRisk},
		{"Score-only fallback", &domain.VitalSigns{}, domain.AlertElevatedRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := gen.classify(tt.vitals, 60, domain.RiskHigh)
			assert.Equal(t, tt.expectedType, outcome.Type)
			assert.Equal(t, domain.SeverityWarning, outcome.Severity)
		})
	}
}

func TestClassifyMediumAndLowFallbacks(t *testing.T) {
	gen := newTestAlertGenerator()

	// Abnormal vitals do not matter below the high bucket; the table is
	// keyed on level alone.
	vitals := &domain.VitalSigns{OxygenSaturation: fp(85)}

	outcome := gen.classify(vitals, 30, domain.RiskMedium)
	assert.Equal(t, domain.AlertModerateRisk, outcome.Type)
	assert.Equal(t, domain.SeverityInfo, outcome.Severity)
	assert.Equal(t, "Info: Patient risk score 30.0 - Continue routine monitoring", outcome.Message)

	outcome = gen.classify(vitals, 10, domain.RiskLow)
	assert.Equal(t, domain.AlertStable, outcome.Type)
	assert.Equal(t, "Info: Patient risk score 10.0 - Patient stable", outcome.Message)
}

func TestClassifyUnknownLevelFallsBackToStable(t *testing.T) {
	gen := newTestAlertGenerator()

	outcome := gen.classify(&domain.VitalSigns{}, 40, domain.RiskLevel("unknown"))
	assert.Equal(t, domain.AlertStable, outcome.Type)
}
