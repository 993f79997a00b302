package service

import (
	"fmt"
	"strings"

	"github.com/mediq-risk-service/internal/domain"
)

// maxRecommendations bounds the recommendation list; entries past the limit
// are truncated positionally, not reprioritized.
const maxRecommendations = 8

// maxFactorsInExplanation bounds how many contributing factors the
// narrative explanation enumerates.
const maxFactorsInExplanation = 5

// Explainer renders the human-readable explanations, recommendations, and
// actionable steps that justify a classification. It is stateless and safe
// for concurrent use.
type Explainer struct {
	catalog domain.RuleCatalog
}

// NewExplainer creates an explainer over the given rule catalog.
func NewExplainer(catalog domain.RuleCatalog) *Explainer {
	return &Explainer{catalog: catalog}
}

// AssessmentExplanation builds the narrative explanation for a risk
// assessment: the level and score header, the first few contributing
// factors, and independent per-vital clinical interpretation sentences.
func (x *Explainer) AssessmentExplanation(score float64, level domain.RiskLevel, vitals *domain.VitalSigns, factors []string) string {
	parts := []string{
		fmt.Sprintf("Patient risk assessment: %s RISK (Score: %.1f/100)", strings.ToUpper(level.String()), score),
	}

	if len(factors) > 0 {
		parts = append(parts, "\nContributing factors:")
		limit := len(factors)
		if limit > maxFactorsInExplanation {
			limit = maxFactorsInExplanation
		}
		for i := 0; i < limit; i++ {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, factors[i]))
		}
	}

	interpretations := x.clinicalInterpretations(vitals)
	if len(interpretations) > 0 {
		parts = append(parts, "\nClinical interpretation:")
		parts = append(parts, interpretations...)
	}

	return strings.Join(parts, "\n")
}

// clinicalInterpretations emits one sentence per vital that leaves its
// catalog normal range. Triggers are independent, not mutually exclusive
// with the contributing-factor list.
func (x *Explainer) clinicalInterpretations(vitals *domain.VitalSigns) []string {
	var out []string

	if vitals.HeartRate != nil {
		switch hr := *vitals.HeartRate; {
		case hr > x.catalog.HeartRate.Max:
			out = append(out, fmt.Sprintf(
				"Elevated heart rate (%s bpm) may indicate stress, pain, or cardiovascular issues.",
				formatVital(hr)))
		case hr < x.catalog.HeartRate.Min:
			out = append(out, fmt.Sprintf(
				"Low heart rate (%s bpm) may indicate medication effects or cardiac conduction issues.",
				formatVital(hr)))
		}
	}

	if vitals.OxygenSaturation != nil && *vitals.OxygenSaturation < x.catalog.OxygenSaturation.Min {
		out = append(out, fmt.Sprintf(
			"Oxygen saturation below normal (%s%%) suggests potential respiratory compromise or hypoxemia.",
			formatVital(*vitals.OxygenSaturation)))
	}

	if vitals.SystolicBP != nil {
		switch sys := *vitals.SystolicBP; {
		case sys < x.catalog.SystolicBP.Min:
			out = append(out, fmt.Sprintf(
				"Low blood pressure (%s mmHg) may indicate hypotension, dehydration, or cardiovascular compromise.",
				formatVital(sys)))
		case sys > x.catalog.SystolicBP.Max:
			out = append(out, fmt.Sprintf(
				"Elevated blood pressure (%s mmHg) may indicate hypertension or stress response.",
				formatVital(sys)))
		}
	}

	return out
}

// Recommendations assembles the prioritized recommendation list: the
// level-keyed base list first, then up to three vital-specific additions,
// truncated to the maximum length.
func (x *Explainer) Recommendations(level domain.RiskLevel, vitals *domain.VitalSigns) []string {
	var recommendations []string

	switch level {
	case domain.RiskCritical:
		recommendations = append(recommendations,
			"Immediate clinical assessment required",
			"Notify rapid response team",
			"Consider escalation to ICU if appropriate",
			"Increase monitoring frequency to every 5-15 minutes",
			"Prepare for potential emergency intervention",
		)
	case domain.RiskHigh:
		recommendations = append(recommendations,
			"Increase monitoring frequency",
			"Notify primary care team",
			"Consider additional diagnostic tests",
			"Review medication regimen",
			"Assess for clinical deterioration",
		)
	case domain.RiskMedium:
		recommendations = append(recommendations,
			"Continue routine monitoring",
			"Document vital signs",
			"Assess for trends",
			"Notify if condition changes",
		)
	default:
		recommendations = append(recommendations,
			"Continue standard monitoring",
			"Maintain current care plan",
		)
	}

	if vitals.OxygenSaturation != nil && *vitals.OxygenSaturation < 93 {
		recommendations = append(recommendations, "Consider supplemental oxygen therapy")
	}
	if vitals.HeartRate != nil && *vitals.HeartRate > 120 {
		recommendations = append(recommendations, "Consider ECG monitoring and cardiac assessment")
	}
	if vitals.SystolicBP != nil && *vitals.SystolicBP < 90 {
		recommendations = append(recommendations, "Assess fluid status and consider fluid resuscitation")
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

// AlertExplanation returns the canned clinical paragraph for an alert type,
// interpolating the triggering reading. Unrecognized types fall back to a
// generic sentence.
func (x *Explainer) AlertExplanation(alertType domain.AlertType, vitals *domain.VitalSigns, score float64) string {
	switch alertType {
	case domain.AlertRespiratoryDistress:
		return fmt.Sprintf(
			"Patient's oxygen saturation (%s%%) is critically low. "+
				"This indicates potential respiratory failure or severe hypoxemia. "+
				"Normal range is 95-100%%. Immediate oxygen therapy and respiratory support may be required.",
			formatOptionalVital(vitals.OxygenSaturation))
	case domain.AlertCardiac:
		return fmt.Sprintf(
			"Patient's heart rate (%s bpm) is outside normal range (60-100 bpm). "+
				"This may indicate cardiac arrhythmia, stress response, or medication effects. "+
				"Continuous cardiac monitoring and ECG assessment recommended.",
			formatOptionalVital(vitals.HeartRate))
	case domain.AlertHypotension:
		return fmt.Sprintf(
			"Patient's systolic blood pressure (%s mmHg) is below normal range (90-140 mmHg). "+
				"This may indicate shock, dehydration, or cardiovascular compromise. "+
				"Fluid resuscitation and blood pressure support may be necessary.",
			formatOptionalVital(vitals.SystolicBP))
	case domain.AlertOxygenDesaturation:
		return fmt.Sprintf(
			"Patient's oxygen saturation (%s%%) is below optimal range (95-100%%). "+
				"This suggests mild to moderate hypoxemia. Monitor for signs of respiratory distress "+
				"and consider supplemental oxygen if trend continues.",
			formatOptionalVital(vitals.OxygenSaturation))
	case domain.AlertTachypnea:
		return fmt.Sprintf(
			"Patient's respiratory rate (%s breaths/min) is elevated above normal (12-20/min). "+
				"This may indicate respiratory distress, anxiety, or metabolic acidosis. "+
				"Assess for underlying causes and monitor for progression.",
			formatOptionalVital(vitals.RespiratoryRate))
	case domain.AlertFever:
		return fmt.Sprintf(
			"Patient's temperature (%s°F) indicates fever. "+
				"This may suggest infection or inflammatory process. "+
				"Consider infection workup and antipyretic management.",
			formatOptionalVital(vitals.Temperature))
	case domain.AlertElevatedRisk:
		return fmt.Sprintf(
			"Patient's overall risk score (%.1f) indicates elevated risk. "+
				"Multiple vital signs are outside normal ranges, suggesting potential clinical deterioration. "+
				"Increased monitoring frequency and clinical assessment recommended.", score)
	case domain.AlertModerateRisk:
		return fmt.Sprintf(
			"Patient's risk score (%.1f) indicates moderate risk. "+
				"Some vital signs are slightly outside normal ranges. "+
				"Continue routine monitoring and assess for trends.", score)
	case domain.AlertStable:
		return fmt.Sprintf(
			"Patient's risk score (%.1f) indicates stable condition. "+
				"Vital signs are within acceptable ranges. "+
				"Continue standard monitoring protocols.", score)
	case domain.AlertHighRisk:
		return fmt.Sprintf(
			"Patient's risk score (%.1f) indicates high risk requiring immediate attention. "+
				"Multiple abnormal vital signs detected. "+
				"Immediate clinical assessment and intervention may be necessary.", score)
	default:
		return "Alert generated based on patient vital signs and risk assessment."
	}
}

// ActionableSteps returns the ordered clinical response checklist for an
// alert type, with a generic fallback for unrecognized types.
func (x *Explainer) ActionableSteps(alertType domain.AlertType) []string {
	switch alertType {
	case domain.AlertRespiratoryDistress:
		return []string{
			"Administer supplemental oxygen immediately",
			"Notify respiratory therapy",
			"Consider non-invasive ventilation if indicated",
			"Obtain arterial blood gas (ABG) analysis",
			"Notify physician/rapid response team",
			"Monitor oxygen saturation continuously",
		}
	case domain.AlertCardiac:
		return []string{
			"Place patient on continuous cardiac monitoring",
			"Obtain 12-lead ECG",
			"Notify cardiology if available",
			"Check for medication effects",
			"Assess for signs of cardiac compromise",
			"Notify physician immediately",
		}
	case domain.AlertHypotension:
		return []string{
			"Assess fluid status and hydration",
			"Consider IV fluid bolus if indicated",
			"Check for signs of bleeding or shock",
			"Monitor blood pressure every 15 minutes",
			"Notify physician",
			"Assess for medication effects",
		}
	case domain.AlertOxygenDesaturation:
		return []string{
			"Assess patient's respiratory effort",
			"Consider supplemental oxygen",
			"Monitor oxygen saturation trend",
			"Assess for signs of respiratory distress",
			"Notify nurse/physician if trend continues",
		}
	case domain.AlertTachypnea:
		return []string{
			"Assess for signs of respiratory distress",
			"Check for anxiety or pain",
			"Monitor respiratory rate trend",
			"Consider oxygen support if indicated",
			"Notify healthcare provider",
		}
	case domain.AlertFever:
		return []string{
			"Obtain cultures if infection suspected",
			"Administer antipyretics as ordered",
			"Monitor temperature trend",
			"Assess for signs of infection",
			"Notify physician for infection workup",
		}
	case domain.AlertElevatedRisk:
		return []string{
			"Increase monitoring frequency",
			"Notify primary care team",
			"Review patient's medical history",
			"Assess for clinical deterioration",
			"Consider escalation of care",
		}
	case domain.AlertModerateRisk:
		return []string{
			"Continue routine monitoring",
			"Document vital signs",
			"Assess for trends",
			"Notify if condition changes",
		}
	case domain.AlertStable:
		return []string{
			"Continue standard monitoring",
			"Document vital signs",
			"Maintain current care plan",
		}
	case domain.AlertHighRisk:
		return []string{
			"Immediate clinical assessment required",
			"Notify rapid response team",
			"Increase monitoring frequency",
			"Prepare for potential intervention",
			"Document all findings",
		}
	default:
		return []string{
			"Monitor patient closely",
			"Notify healthcare provider",
			"Document findings",
		}
	}
}

// formatOptionalVital renders a possibly-absent vital for explanation text.
func formatOptionalVital(value *float64) string {
	if value == nil {
		return "unknown"
	}
	return formatVital(*value)
}
