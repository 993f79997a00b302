package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediq-risk-service/internal/domain"
)

func newTestExplainer() *Explainer {
	return NewExplainer(domain.DefaultRuleCatalog())
}

func TestAssessmentExplanationStructure(t *testing.T) {
	x := newTestExplainer()
	vitals := &domain.VitalSigns{OxygenSaturation: fp(88)}
	factors := []string{"Oxygen saturation 88% is below normal"}

	explanation := x.AssessmentExplanation(20.4, domain.RiskLow, vitals, factors)

	assert.True(t, strings.HasPrefix(explanation, "Patient risk assessment: LOW RISK (Score: 20.4/100)"))
	assert.Contains(t, explanation, "Contributing factors:")
	assert.Contains(t, explanation, "1. Oxygen saturation 88% is below normal")
	assert.Contains(t, explanation, "Clinical interpretation:")
	assert.Contains(t, explanation, "respiratory compromise or hypoxemia")
}

func TestAssessmentExplanationOmitsEmptySections(t *testing.T) {
	x := newTestExplainer()

	explanation := x.AssessmentExplanation(0, domain.RiskLow, &domain.VitalSigns{HeartRate: fp(75)}, nil)

	assert.Equal(t, "Patient risk assessment: LOW RISK (Score: 0.0/100)", explanation)
}

func TestAssessmentExplanationLimitsFactors(t *testing.T) {
	x := newTestExplainer()
	factors := []string{"one", "two", "three", "four", "five", "six", "seven"}

	explanation := x.AssessmentExplanation(80, domain.RiskCritical, &domain.VitalSigns{}, factors)

	assert.Contains(t, explanation, "5. five")
	assert.NotContains(t, explanation, "6. six")
}

func TestClinicalInterpretationsTriggers(t *testing.T) {
	x := newTestExplainer()

	tests := []struct {
		name     string
		vitals   *domain.VitalSigns
		expected string
	}{
		{"Tachycardia", &domain.VitalSigns{HeartRate: fp(115)}, "Elevated heart rate (115 bpm)"},
		{"Bradycardia", &domain.VitalSigns{HeartRate: fp(52)}, "Low heart rate (52 bpm)"},
		{"Hypoxemia", &domain.VitalSigns{OxygenSaturation: fp(91)}, "Oxygen saturation below normal (91%)"},
		{"Hypotension", &domain.VitalSigns{SystolicBP: fp(85)}, "Low blood pressure (85 mmHg)"},
		{"Hypertension", &domain.VitalSigns{SystolicBP: fp(150)}, "Elevated blood pressure (150 mmHg)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := x.clinicalInterpretations(tt.vitals)
			assert.Len(t, out, 1)
			assert.Contains(t, out[0], tt.expected)
		})
	}

	assert.Empty(t, x.clinicalInterpretations(normalVitals()))
}

func TestClinicalInterpretationsFollowCatalogRanges(t *testing.T) {
	catalog := domain.DefaultRuleCatalog()
	catalog.HeartRate = domain.VitalRange{Min: 60, Max: 120}
	catalog.SystolicBP = domain.VitalRange{Min: 80, Max: 160}
	x := NewExplainer(catalog)

	// Abnormal under the default ranges, inside the widened ones.
	vitals := &domain.VitalSigns{HeartRate: fp(110), SystolicBP: fp(150)}
	assert.Empty(t, x.clinicalInterpretations(vitals))

	out := x.clinicalInterpretations(&domain.VitalSigns{HeartRate: fp(125)})
	assert.Len(t, out, 1)
	assert.Contains(t, out[0], "Elevated heart rate (125 bpm)")
}

func TestRecommendationsByLevel(t *testing.T) {
	x := newTestExplainer()
	vitals := &domain.VitalSigns{}

	tests := []struct {
		name    string
		level   domain.RiskLevel
		count   int
		leading string
	}{
		{"Critical", domain.RiskCritical, 5, "Immediate clinical assessment required"},
		{"High", domain.RiskHigh, 5, "Increase monitoring frequency"},
		{"Medium", domain.RiskMedium, 4, "Continue routine monitoring"},
		{"Low", domain.RiskLow, 2, "Continue standard monitoring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := x.Recommendations(tt.level, vitals)
			assert.Len(t, recs, tt.count)
			assert.Equal(t, tt.leading, recs[0])
		})
	}
}

func TestRecommendationsVitalAdditions(t *testing.T) {
	x := newTestExplainer()
	vitals := &domain.VitalSigns{
		OxygenSaturation: fp(90),
		HeartRate:        fp(130),
		SystolicBP:       fp(85),
	}

	recs := x.Recommendations(domain.RiskLow, vitals)

	assert.Contains(t, recs, "Consider supplemental oxygen therapy")
	assert.Contains(t, recs, "Consider ECG monitoring and cardiac assessment")
	assert.Contains(t, recs, "Assess fluid status and consider fluid resuscitation")
}

func TestRecommendationsCappedAtEight(t *testing.T) {
	x := newTestExplainer()

	// Five critical base entries plus all three vital additions.
	vitals := &domain.VitalSigns{
		OxygenSaturation: fp(88),
		HeartRate:        fp(140),
		SystolicBP:       fp(80),
	}

	recs := x.Recommendations(domain.RiskCritical, vitals)
	assert.Len(t, recs, maxRecommendations)
	assert.Equal(t, "Assess fluid status and consider fluid resuscitation", recs[len(recs)-1])
}

func TestAlertExplanationFallback(t *testing.T) {
	x := newTestExplainer()

	explanation := x.AlertExplanation(domain.AlertType("unknown"), &domain.VitalSigns{}, 50)
	assert.Equal(t, "Alert generated based on patient vital signs and risk assessment.", explanation)
}

func TestAlertExplanationHandlesAbsentVital(t *testing.T) {
	x := newTestExplainer()

	explanation := x.AlertExplanation(domain.AlertCardiac, &domain.VitalSigns{}, 80)
	assert.Contains(t, explanation, "(unknown bpm)")
}

func TestActionableStepsCoverAllTypes(t *testing.T) {
	x := newTestExplainer()

	types := []domain.AlertType{
		domain.AlertRespiratoryDistress, domain.AlertCardiac, domain.AlertHypotension,
		domain.AlertHighRisk, domain.AlertOxygenDesaturation, domain.AlertTachypnea,
		domain.AlertFever, domain.AlertElevatedRisk, domain.AlertModerateRisk, domain.AlertStable,
	}

	for _, at := range types {
		steps := x.ActionableSteps(at)
		assert.NotEmpty(t, steps, "expected steps for %s", at)
	}

	fallback := x.ActionableSteps(domain.AlertType("unknown"))
	assert.Equal(t, []string{"Monitor patient closely", "Notify healthcare provider", "Document findings"}, fallback)
}
