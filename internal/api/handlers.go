package api

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mediq-risk-service/internal/domain"
)

// RiskAssessmentRequest is the wire payload for single and batch risk
// assessment.
type RiskAssessmentRequest struct {
	PatientData      domain.PatientData  `json:"patientData"`
	HistoricalVitals []domain.VitalSigns `json:"historicalVitals,omitempty"`
}

// AlertRequest is the wire payload for alert generation: the vitals plus a
// score and level precomputed by a prior assessment.
type AlertRequest struct {
	PatientID string            `json:"patientId"`
	Vitals    domain.VitalSigns `json:"vitals"`
	RiskScore float64           `json:"riskScore"`
	RiskLevel string            `json:"riskLevel"`
}

// BatchAssessmentResponse wraps the per-patient results of a batch run.
type BatchAssessmentResponse struct {
	Results []any `json:"results"`
	Total   int   `json:"total"`
}

// BatchItemError marks one failed slot of a batch run. The failure is
// reported in place; it never aborts the remaining items.
type BatchItemError struct {
	PatientID string `json:"patientId"`
	Error     string `json:"error"`
}

// HeatmapEntry is one patient's cell of the risk heatmap: scoring output
// only, with the vitals echoed back for rendering.
type HeatmapEntry struct {
	PatientID string            `json:"patientId"`
	RiskScore float64           `json:"riskScore"`
	RiskLevel domain.RiskLevel  `json:"riskLevel"`
	Vitals    domain.VitalSigns `json:"vitals"`
}

// HeatmapResponse wraps the heatmap cells.
type HeatmapResponse struct {
	Heatmap []HeatmapEntry `json:"heatmap"`
}

// handleRoot reports the service banner.
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"status":  "online",
		"version": ServiceVersion,
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "risk-service",
	})
}

// handleAssessRisk runs one full assessment: score, level, factors,
// explanation, and recommendations.
func (s *Server) handleAssessRisk(c *gin.Context) {
	var req RiskAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "Malformed request body", err.Error(),
			c.GetString("correlation_id")))
		return
	}
	if err := req.PatientData.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "Invalid patient data", err.Error(),
			c.GetString("correlation_id")))
		return
	}

	assessment, err := s.assess(&req)
	if err != nil {
		s.logger.WithError(err).WithField("patient_id", req.PatientData.PatientID).
			Error("Risk assessment failed")
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrCodeAssessment, "Risk assessment failed", err.Error(),
			c.GetString("correlation_id")))
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// assess runs the scoring pipeline and composes the explanation output for
// one request.
func (s *Server) assess(req *RiskAssessmentRequest) (*domain.RiskAssessment, error) {
	patient := &req.PatientData

	calc, err := s.engine.Calculate(&patient.Vitals, patient.Age, patient.MedicalHistory, req.HistoricalVitals)
	if err != nil {
		return nil, err
	}

	return &domain.RiskAssessment{
		PatientID:           patient.PatientID,
		RiskScore:           roundScore(calc.Score),
		RiskLevel:           calc.Level,
		Explanation:         s.explainer.AssessmentExplanation(calc.Score, calc.Level, &patient.Vitals, calc.Factors),
		ContributingFactors: calc.Factors,
		Recommendations:     s.explainer.Recommendations(calc.Level, &patient.Vitals),
		Timestamp:           domain.NowTimestamp(),
	}, nil
}

// handleGenerateAlert produces one alert from vitals plus a precomputed
// score and level.
func (s *Server) handleGenerateAlert(c *gin.Context) {
	var req AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "Malformed request body", err.Error(),
			c.GetString("correlation_id")))
		return
	}
	if req.PatientID == "" {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "Invalid alert request", domain.ErrMissingPatientID.Error(),
			c.GetString("correlation_id")))
		return
	}
	level, err := domain.ParseRiskLevel(req.RiskLevel)
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "Invalid alert request", err.Error(),
			c.GetString("correlation_id")))
		return
	}

	alert, err := s.alerts.Generate(req.PatientID, &req.Vitals, req.RiskScore, level)
	if err != nil {
		s.logger.WithError(err).WithField("patient_id", req.PatientID).
			Error("Alert generation failed")
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrCodeAlert, "Alert generation failed", err.Error(),
			c.GetString("correlation_id")))
		return
	}

	c.JSON(http.StatusOK, alert)
}

// handleBatchAssessRisk assesses each patient independently. A failing item
// becomes a {patientId, error} marker in its slot while the rest proceed.
func (s *Server) handleBatchAssessRisk(c *gin.Context) {
	var requests []RiskAssessmentRequest
	if err := c.ShouldBindJSON(&requests); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "Malformed request body", err.Error(),
			c.GetString("correlation_id")))
		return
	}

	results := make([]any, 0, len(requests))
	for i := range requests {
		req := &requests[i]

		if err := req.PatientData.Validate(); err != nil {
			results = append(results, BatchItemError{
				PatientID: req.PatientData.PatientID,
				Error:     err.Error(),
			})
			continue
		}

		assessment, err := s.assess(req)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"patient_id": req.PatientData.PatientID,
				"batch_slot": i,
			}).Warn("Batch item failed, continuing")
			results = append(results, BatchItemError{
				PatientID: req.PatientData.PatientID,
				Error:     err.Error(),
			})
			continue
		}

		results = append(results, assessment)
	}

	c.JSON(http.StatusOK, BatchAssessmentResponse{
		Results: results,
		Total:   len(results),
	})
}

// handleExplainRules serves the rule catalog snapshot for audit and
// transparency.
func (s *Server) handleExplainRules(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Catalog().Snapshot())
}

// handleRiskHeatmap runs the scoring path only across a list of patients,
// silently skipping any patient whose scoring fails.
func (s *Server) handleRiskHeatmap(c *gin.Context) {
	var patients []domain.PatientData
	if err := c.ShouldBindJSON(&patients); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "Malformed request body", err.Error(),
			c.GetString("correlation_id")))
		return
	}

	heatmap := make([]HeatmapEntry, 0, len(patients))
	for i := range patients {
		patient := &patients[i]
		if err := patient.Validate(); err != nil {
			continue
		}

		calc, err := s.engine.Calculate(&patient.Vitals, patient.Age, patient.MedicalHistory, nil)
		if err != nil {
			s.logger.WithError(err).WithField("patient_id", patient.PatientID).
				Warn("Skipping patient in heatmap")
			continue
		}

		heatmap = append(heatmap, HeatmapEntry{
			PatientID: patient.PatientID,
			RiskScore: roundScore(calc.Score),
			RiskLevel: calc.Level,
			Vitals:    patient.Vitals,
		})
	}

	c.JSON(http.StatusOK, HeatmapResponse{Heatmap: heatmap})
}

// roundScore rounds to two decimals for the wire format.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
