package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradelens/marksheet_ocr_gemini/internal/models"
)

func field(value string, confidence float64) models.ExtractedField {
	return models.ExtractedField{Value: models.StringValue(value), Confidence: confidence}
}

func TestCalibrateAppliesFactorsAndFloor(t *testing.T) {
	cal := NewCalibrator(0.5)

	data := &models.MarksheetData{
		CandidateDetails: models.CandidateDetails{
			Name: field("RAHUL KUMAR", 0.9),
		},
		Subjects: []models.SubjectMark{
			{SubjectName: field("PHYSICS", 0.8)},
		},
		OverallResult: models.OverallResult{
			Grade: field("A", 0.9),
		},
		DocumentInfo: models.DocumentInfo{
			IssueDate: field("2023-06-01", 0.3),
		},
	}

	cal.Calibrate(data)

	assert.InDelta(t, 0.9, data.CandidateDetails.Name.Confidence, 1e-9)
	assert.InDelta(t, 0.8*0.95, data.Subjects[0].SubjectName.Confidence, 1e-9)
	assert.InDelta(t, 0.945, data.OverallResult.Grade.Confidence, 1e-9)
	// 0.3 * 0.9 = 0.27 lands below the threshold, so it is floored.
	assert.InDelta(t, 0.5, data.DocumentInfo.IssueDate.Confidence, 1e-9)
}

func TestCalibrateCapsAtOne(t *testing.T) {
	cal := NewCalibrator(0.5)

	data := &models.MarksheetData{
		OverallResult: models.OverallResult{
			TotalMarks: field("450", 0.99),
		},
	}

	cal.Calibrate(data)
	assert.Equal(t, 1.0, data.OverallResult.TotalMarks.Confidence)
}

func TestCalibrateSkipsEmptyFields(t *testing.T) {
	cal := NewCalibrator(0.5)

	data := &models.MarksheetData{
		CandidateDetails: models.CandidateDetails{
			Name: models.ExtractedField{Value: nil, Confidence: 0.0},
		},
	}

	cal.Calibrate(data)
	assert.Nil(t, data.CandidateDetails.Name.Value)
	assert.Equal(t, 0.0, data.CandidateDetails.Name.Confidence)
}

func TestConsistencyBoostWhenTotalsMatch(t *testing.T) {
	cal := NewCalibrator(0.5)

	data := &models.MarksheetData{
		Subjects: []models.SubjectMark{
			{ObtainedMarks: field("40", 0.8)},
			{ObtainedMarks: field("35", 0.8)},
			{ObtainedMarks: field("25", 0.8)},
		},
		OverallResult: models.OverallResult{
			TotalMarks: field("100", 0.8),
		},
	}

	cal.Calibrate(data)

	// 0.8 * 1.05 (section factor) * 1.1 (consistency boost)
	assert.InDelta(t, 0.8*1.05*1.1, data.OverallResult.TotalMarks.Confidence, 1e-9)
	for i := range data.Subjects {
		// 0.8 * 0.95 (section factor) * 1.05 (consistency boost)
		assert.InDelta(t, 0.8*0.95*1.05, data.Subjects[i].ObtainedMarks.Confidence, 1e-9)
	}
}

func TestConsistencyNoBoostWhenTotalsDiffer(t *testing.T) {
	cal := NewCalibrator(0.5)

	data := &models.MarksheetData{
		Subjects: []models.SubjectMark{
			{ObtainedMarks: field("40", 0.8)},
		},
		OverallResult: models.OverallResult{
			TotalMarks: field("10", 0.8),
		},
	}

	cal.Calibrate(data)

	assert.InDelta(t, 0.8*1.05, data.OverallResult.TotalMarks.Confidence, 1e-9)
	assert.InDelta(t, 0.8*0.95, data.Subjects[0].ObtainedMarks.Confidence, 1e-9)
}

func TestConsistencySkipsZeroTotal(t *testing.T) {
	cal := NewCalibrator(0.5)

	data := &models.MarksheetData{
		Subjects: []models.SubjectMark{
			{ObtainedMarks: field("0", 0.8)},
		},
		OverallResult: models.OverallResult{
			TotalMarks: field("0", 0.8),
		},
	}

	cal.Calibrate(data)
	assert.InDelta(t, 0.8*1.05, data.OverallResult.TotalMarks.Confidence, 1e-9)
}

func TestConsistencyIgnoresUnparseableMarks(t *testing.T) {
	cal := NewCalibrator(0.5)

	data := &models.MarksheetData{
		Subjects: []models.SubjectMark{
			{ObtainedMarks: field("40", 0.8)},
			{ObtainedMarks: field("AB", 0.8)},
			{ObtainedMarks: field("60", 0.8)},
		},
		OverallResult: models.OverallResult{
			TotalMarks: field("100", 0.8),
		},
	}

	cal.Calibrate(data)

	// The unparseable mark is skipped from the sum but still boosted
	// with the rest once the totals reconcile.
	assert.InDelta(t, 0.8*1.05*1.1, data.OverallResult.TotalMarks.Confidence, 1e-9)
	assert.InDelta(t, 0.8*0.95*1.05, data.Subjects[1].ObtainedMarks.Confidence, 1e-9)
}

func TestOverallConfidence(t *testing.T) {
	cal := NewCalibrator(0.5)

	data := &models.MarksheetData{
		CandidateDetails: models.CandidateDetails{
			Name:       field("RAHUL", 0.8),
			RollNumber: field("123", 0.6),
		},
	}

	assert.InDelta(t, 0.7, cal.OverallConfidence(data), 1e-9)
	assert.Equal(t, 0.0, cal.OverallConfidence(&models.MarksheetData{}))
	assert.Equal(t, 0.0, cal.OverallConfidence(nil))
}

func TestMethodInfo(t *testing.T) {
	cal := NewCalibrator(0.5)
	info := cal.MethodInfo()

	assert.Equal(t, "multi-factor-calibrated", info["method"])
	assert.Equal(t, "1.0", info["version"])
	assert.Equal(t, 0.5, info["min_threshold"])

	weights, ok := info["weights"].(ConfidenceWeights)
	require.True(t, ok)
	assert.Equal(t, 0.4, weights.TextClarity)

	features, ok := info["features"].([]string)
	require.True(t, ok)
	assert.Contains(t, features, "consistency_checks")
}
