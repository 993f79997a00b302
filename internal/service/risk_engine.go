package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mediq-risk-service/internal/domain"
)

// RiskEngine computes the bounded clinical risk score from vital signs,
// medical history, and optional historical readings. All methods are pure
// with respect to request data; the only shared state is the immutable rule
// catalog, so a single engine is safe for concurrent use.
type RiskEngine struct {
	logger     *logrus.Logger
	catalog    domain.RuleCatalog
	categories []vitalCategory
}

// Calculation is the scoring-path output: the clamped score, its discrete
// level, and the ordered contributing-factor descriptions.
type Calculation struct {
	Score   float64
	Level   domain.RiskLevel
	Factors []string
}

// NewRiskEngine creates a risk engine over the given rule catalog.
func NewRiskEngine(logger *logrus.Logger, catalog domain.RuleCatalog) *RiskEngine {
	return &RiskEngine{
		logger:     logger,
		catalog:    catalog,
		categories: buildCategories(catalog),
	}
}

// Catalog returns the immutable rule catalog this engine scores against.
func (e *RiskEngine) Catalog() domain.RuleCatalog {
	return e.catalog
}

// Calculate aggregates the weighted per-category sub-scores with the trend
// and medical-history contributions, clamps the result to [0,100], and maps
// it to a risk level. Absent vitals contribute nothing; weights do not
// renormalize, so a sparser reading has a structurally lower ceiling.
//
// Age is accepted and forwarded to the heart-rate scorer, which currently
// ignores it. An unexpected failure is surfaced as an error rather than a
// partial result.
func (e *RiskEngine) Calculate(vitals *domain.VitalSigns, age *int, medicalHistory []string, historical []domain.VitalSigns) (calc Calculation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("risk calculation failed: %v", r)
		}
	}()

	score := 0.0
	factors := make([]string, 0, len(e.categories))

	for _, category := range e.categories {
		if !category.present(vitals) {
			continue
		}
		sub := category.score(e, vitals, age)
		score += sub * category.weight
		if sub > e.catalog.FactorThreshold {
			factors = append(factors, category.factor(vitals))
		}
	}

	// Trend contributes only when the series has more than one entry, even
	// though the comparison itself consults just the most recent reading.
	if len(historical) > 1 {
		trend := e.analyzeTrend(vitals, historical)
		score += trend * e.catalog.TrendWeight
		if trend > 30 {
			factors = append(factors, "Deteriorating trend detected in vital signs")
		}
	}

	historyRisk := e.assessMedicalHistory(medicalHistory)
	score += historyRisk * e.catalog.HistoryWeight

	score = math.Min(100, math.Max(0, score))
	level := e.catalog.LevelForScore(score)

	e.logger.WithFields(logrus.Fields{
		"risk_score":       score,
		"risk_level":       level.String(),
		"factor_count":     len(factors),
		"history_risk":     historyRisk,
		"immediate_action": level.RequiresImmediateAction(),
	}).Debug("Completed risk calculation")

	return Calculation{Score: score, Level: level, Factors: factors}, nil
}

// analyzeTrend compares the current reading against the most recent
// historical entry and scores deterioration signals: a heart-rate swing of
// more than 10 bpm, an oxygen-saturation drop of more than 3 points, or a
// systolic pressure drop of more than 20 mmHg. Capped at 100.
func (e *RiskEngine) analyzeTrend(current *domain.VitalSigns, historical []domain.VitalSigns) float64 {
	if len(historical) == 0 {
		return 0
	}
	last := historical[len(historical)-1]

	risk := 0.0
	if current.HeartRate != nil && last.HeartRate != nil {
		switch {
		case *current.HeartRate > *last.HeartRate+10:
			risk += 20
		case *current.HeartRate < *last.HeartRate-10:
			risk += 15
		}
	}
	if current.OxygenSaturation != nil && last.OxygenSaturation != nil {
		if *current.OxygenSaturation < *last.OxygenSaturation-3 {
			risk += 30 // significant drop in SpO2
		}
	}
	if current.SystolicBP != nil && last.SystolicBP != nil {
		if *current.SystolicBP < *last.SystolicBP-20 {
			risk += 25 // significant BP drop
		}
	}

	return math.Min(100, risk)
}

// assessMedicalHistory scans free-text history entries for known high-risk
// condition keywords. Every case-insensitive substring hit adds a fixed
// increment, including multiple hits inside one entry; the total is capped
// before the history weight is applied.
func (e *RiskEngine) assessMedicalHistory(history []string) float64 {
	risk := 0.0
	for _, entry := range history {
		lowered := strings.ToLower(entry)
		for _, condition := range e.catalog.HighRiskConditions {
			if strings.Contains(lowered, condition) {
				risk += e.catalog.HistoryMatchScore
			}
		}
	}
	return math.Min(e.catalog.HistoryScoreCap, risk)
}
