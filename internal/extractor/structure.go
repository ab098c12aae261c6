// structure.go - Maps the recovered JSON object onto the typed marksheet model

package extractor

import (
	"strconv"
	"strings"

	"github.com/gradelens/marksheet_ocr_gemini/internal/models"
)

// Structure converts a recovered JSON object into MarksheetData. A
// top-level section that is present but not an object is a hard
// error; a missing section just yields empty fields.
func Structure(rawData map[string]interface{}) (*models.MarksheetData, error) {
	candidateRaw, err := sectionMap(rawData, "candidate_details")
	if err != nil {
		return nil, err
	}
	resultRaw, err := sectionMap(rawData, "overall_result")
	if err != nil {
		return nil, err
	}
	docRaw, err := sectionMap(rawData, "document_info")
	if err != nil {
		return nil, err
	}

	data := &models.MarksheetData{
		CandidateDetails: models.CandidateDetails{
			Name:               toField(candidateRaw["name"]),
			FatherName:         toField(candidateRaw["father_name"]),
			MotherName:         toField(candidateRaw["mother_name"]),
			RollNumber:         toField(candidateRaw["roll_number"]),
			RegistrationNumber: toField(candidateRaw["registration_number"]),
			DateOfBirth:        toField(candidateRaw["date_of_birth"]),
			ExamYear:           toField(candidateRaw["exam_year"]),
			BoardUniversity:    toField(candidateRaw["board_university"]),
			Institution:        toField(candidateRaw["institution"]),
		},
		Subjects: []models.SubjectMark{},
		OverallResult: models.OverallResult{
			TotalMarks:   toField(resultRaw["total_marks"]),
			TotalCredits: toField(resultRaw["total_credits"]),
			Percentage:   toField(resultRaw["percentage"]),
			CGPA:         toField(resultRaw["cgpa"]),
			Grade:        toField(resultRaw["grade"]),
			Division:     toField(resultRaw["division"]),
			ResultStatus: toField(resultRaw["result_status"]),
		},
		DocumentInfo: models.DocumentInfo{
			IssueDate:       toField(docRaw["issue_date"]),
			IssuePlace:      toField(docRaw["issue_place"]),
			DocumentType:    toField(docRaw["document_type"]),
			AcademicSession: toField(docRaw["academic_session"]),
		},
	}

	if subjectsRaw, ok := rawData["subjects"].([]interface{}); ok {
		for _, entry := range subjectsRaw {
			subjectRaw, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			data.Subjects = append(data.Subjects, models.SubjectMark{
				SubjectName:     toField(subjectRaw["subject_name"]),
				MaxMarks:        toField(subjectRaw["max_marks"]),
				MaxCredits:      toField(subjectRaw["max_credits"]),
				ObtainedMarks:   toField(subjectRaw["obtained_marks"]),
				ObtainedCredits: toField(subjectRaw["obtained_credits"]),
				Grade:           toField(subjectRaw["grade"]),
				Remarks:         toField(subjectRaw["remarks"]),
			})
		}
	}

	return data, nil
}

func sectionMap(rawData map[string]interface{}, key string) (map[string]interface{}, error) {
	section, present := rawData[key]
	if !present || section == nil {
		return map[string]interface{}{}, nil
	}
	m, ok := section.(map[string]interface{})
	if !ok {
		return nil, &StructuringError{Section: key, Cause: "is not an object"}
	}
	return m, nil
}

// toField coerces a raw field into an ExtractedField. Objects carry
// their own confidence and bounding box, bare values get a default
// confidence, sentinel strings resolve to a nil value.
func toField(fieldData interface{}) models.ExtractedField {
	if isEmptyField(fieldData) {
		return models.ExtractedField{Value: nil, Confidence: 0.0}
	}

	var (
		value      interface{}
		confidence float64
		box        *models.BoundingBox
	)

	switch v := fieldData.(type) {
	case map[string]interface{}:
		value = v["value"]
		confidence = toConfidence(v["confidence"])
		box = toBoundingBox(v["bounding_box"])
	case string:
		value = v
		confidence = 0.8
	default:
		value = stringify(v)
		confidence = 0.8
	}

	var strValue *string
	if value != nil {
		s := strings.TrimSpace(stringify(value))
		if missingSentinels[strings.ToLower(s)] {
			confidence = 0.0
		} else {
			strValue = &s
		}
	}
	// A nil value never carries a confidence, even when the model
	// reported one on an otherwise empty field object.
	if strValue == nil {
		confidence = 0.0
	}

	return models.ExtractedField{
		Value:       strValue,
		Confidence:  clampConfidence(confidence),
		BoundingBox: box,
	}
}

// isEmptyField mirrors a falsy check: nil, empty string, zero number,
// false, empty object or list all count as absent.
func isEmptyField(fieldData interface{}) bool {
	switch v := fieldData.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0
	case bool:
		return !v
	case map[string]interface{}:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func toConfidence(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return 0.0
	default:
		return 0.0
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func toBoundingBox(raw interface{}) *models.BoundingBox {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	box := &models.BoundingBox{}
	if x, ok := m["x"].(float64); ok {
		box.X = x
	}
	if y, ok := m["y"].(float64); ok {
		box.Y = y
	}
	if w, ok := m["width"].(float64); ok {
		box.Width = w
	}
	if h, ok := m["height"].(float64); ok {
		box.Height = h
	}
	return box
}
