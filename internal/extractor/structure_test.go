package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureFullDocument(t *testing.T) {
	raw := map[string]interface{}{
		"candidate_details": map[string]interface{}{
			"name":        map[string]interface{}{"value": "RAHUL KUMAR", "confidence": 0.95},
			"roll_number": "123456",
		},
		"subjects": []interface{}{
			map[string]interface{}{
				"subject_name":   map[string]interface{}{"value": "PHYSICS", "confidence": 0.9},
				"obtained_marks": float64(85),
				"max_marks":      map[string]interface{}{"value": "100", "confidence": 0.9},
			},
		},
		"overall_result": map[string]interface{}{
			"total_marks": map[string]interface{}{"value": "450", "confidence": 0.88},
		},
		"document_info": map[string]interface{}{
			"document_type": "marksheet",
		},
	}

	data, err := Structure(raw)
	require.NoError(t, err)

	require.NotNil(t, data.CandidateDetails.Name.Value)
	assert.Equal(t, "RAHUL KUMAR", *data.CandidateDetails.Name.Value)
	assert.Equal(t, 0.95, data.CandidateDetails.Name.Confidence)

	// Bare strings get the default confidence.
	require.NotNil(t, data.CandidateDetails.RollNumber.Value)
	assert.Equal(t, "123456", *data.CandidateDetails.RollNumber.Value)
	assert.Equal(t, 0.8, data.CandidateDetails.RollNumber.Confidence)

	require.Len(t, data.Subjects, 1)
	require.NotNil(t, data.Subjects[0].ObtainedMarks.Value)
	assert.Equal(t, "85", *data.Subjects[0].ObtainedMarks.Value)
	assert.Equal(t, 0.8, data.Subjects[0].ObtainedMarks.Confidence)

	require.NotNil(t, data.OverallResult.TotalMarks.Value)
	assert.Equal(t, "450", *data.OverallResult.TotalMarks.Value)

	require.NotNil(t, data.DocumentInfo.DocumentType.Value)
	assert.Equal(t, "marksheet", *data.DocumentInfo.DocumentType.Value)
}

func TestStructureMissingSectionsYieldEmptyFields(t *testing.T) {
	data, err := Structure(map[string]interface{}{})
	require.NoError(t, err)

	assert.Nil(t, data.CandidateDetails.Name.Value)
	assert.Equal(t, 0.0, data.CandidateDetails.Name.Confidence)
	assert.Empty(t, data.Subjects)
	assert.Nil(t, data.OverallResult.TotalMarks.Value)
	assert.Nil(t, data.DocumentInfo.IssueDate.Value)
}

func TestStructureRejectsMalformedSection(t *testing.T) {
	_, err := Structure(map[string]interface{}{
		"candidate_details": "not an object",
	})

	var sErr *StructuringError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "candidate_details", sErr.Section)
}

func TestStructureSubjectsWrongTypeTreatedAsAbsent(t *testing.T) {
	data, err := Structure(map[string]interface{}{
		"subjects": "oops",
	})
	require.NoError(t, err)
	assert.Empty(t, data.Subjects)
}

func TestToFieldSentinelValues(t *testing.T) {
	for _, sentinel := range []string{"n/a", "N/A", "null", "none", "  "} {
		field := toField(map[string]interface{}{"value": sentinel, "confidence": 0.9})
		assert.Nil(t, field.Value, "sentinel %q should yield nil value", sentinel)
		assert.Equal(t, 0.0, field.Confidence, "sentinel %q should yield zero confidence", sentinel)
	}
}

func TestToFieldNilValueDropsReportedConfidence(t *testing.T) {
	field := toField(map[string]interface{}{"confidence": 0.9})
	assert.Nil(t, field.Value)
	assert.Equal(t, 0.0, field.Confidence)

	field = toField(map[string]interface{}{"value": nil, "confidence": 0.9})
	assert.Nil(t, field.Value)
	assert.Equal(t, 0.0, field.Confidence)
}

func TestToFieldAbsentValues(t *testing.T) {
	for _, absent := range []interface{}{nil, "", float64(0), false, map[string]interface{}{}} {
		field := toField(absent)
		assert.Nil(t, field.Value)
		assert.Equal(t, 0.0, field.Confidence)
	}
}

func TestToFieldClampsConfidence(t *testing.T) {
	field := toField(map[string]interface{}{"value": "x", "confidence": 1.7})
	assert.Equal(t, 1.0, field.Confidence)

	field = toField(map[string]interface{}{"value": "x", "confidence": -0.3})
	assert.Equal(t, 0.0, field.Confidence)
}

func TestToFieldNonNumericConfidence(t *testing.T) {
	field := toField(map[string]interface{}{"value": "x", "confidence": "high"})
	assert.Equal(t, 0.0, field.Confidence)

	field = toField(map[string]interface{}{"value": "x", "confidence": "0.75"})
	assert.Equal(t, 0.75, field.Confidence)
}

func TestToFieldTrimsValue(t *testing.T) {
	field := toField(map[string]interface{}{"value": "  85  ", "confidence": 0.9})
	require.NotNil(t, field.Value)
	assert.Equal(t, "85", *field.Value)
}

func TestToFieldBoundingBox(t *testing.T) {
	field := toField(map[string]interface{}{
		"value":      "RAHUL",
		"confidence": 0.9,
		"bounding_box": map[string]interface{}{
			"x": 10.0, "y": 20.0, "width": 100.0, "height": 30.0,
		},
	})

	require.NotNil(t, field.BoundingBox)
	assert.Equal(t, 10.0, field.BoundingBox.X)
	assert.Equal(t, 30.0, field.BoundingBox.Height)
}

func TestToFieldNumericValueStringified(t *testing.T) {
	field := toField(float64(92.5))
	require.NotNil(t, field.Value)
	assert.Equal(t, "92.5", *field.Value)
	assert.Equal(t, 0.8, field.Confidence)
}
