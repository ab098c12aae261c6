// marksheet.go - Typed domain model for extracted marksheet data

package models

import "time"

// BoundingBox is the optional pixel region a value was read from
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExtractedField is the atomic unit of extracted data: a value with the
// model's confidence in it. A nil value always carries confidence 0.0.
type ExtractedField struct {
	Value       *string      `json:"value"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

// CandidateDetails holds identity fields of the examinee
type CandidateDetails struct {
	Name               ExtractedField `json:"name"`
	FatherName         ExtractedField `json:"father_name"`
	MotherName         ExtractedField `json:"mother_name"`
	RollNumber         ExtractedField `json:"roll_number"`
	RegistrationNumber ExtractedField `json:"registration_number"`
	DateOfBirth        ExtractedField `json:"date_of_birth"`
	ExamYear           ExtractedField `json:"exam_year"`
	BoardUniversity    ExtractedField `json:"board_university"`
	Institution        ExtractedField `json:"institution"`
}

// Fields returns the candidate fields in schema order
func (c *CandidateDetails) Fields() []*ExtractedField {
	return []*ExtractedField{
		&c.Name,
		&c.FatherName,
		&c.MotherName,
		&c.RollNumber,
		&c.RegistrationNumber,
		&c.DateOfBirth,
		&c.ExamYear,
		&c.BoardUniversity,
		&c.Institution,
	}
}

// SubjectMark is one row of the marks table. Position in the subjects
// slice is meaningful: repair and inference key off the row index.
type SubjectMark struct {
	SubjectName     ExtractedField `json:"subject_name"`
	MaxMarks        ExtractedField `json:"max_marks"`
	MaxCredits      ExtractedField `json:"max_credits"`
	ObtainedMarks   ExtractedField `json:"obtained_marks"`
	ObtainedCredits ExtractedField `json:"obtained_credits"`
	Grade           ExtractedField `json:"grade"`
	Remarks         ExtractedField `json:"remarks"`
}

// Fields returns the subject fields in schema order
func (s *SubjectMark) Fields() []*ExtractedField {
	return []*ExtractedField{
		&s.SubjectName,
		&s.MaxMarks,
		&s.MaxCredits,
		&s.ObtainedMarks,
		&s.ObtainedCredits,
		&s.Grade,
		&s.Remarks,
	}
}

// OverallResult holds aggregate result fields
type OverallResult struct {
	TotalMarks   ExtractedField `json:"total_marks"`
	TotalCredits ExtractedField `json:"total_credits"`
	Percentage   ExtractedField `json:"percentage"`
	CGPA         ExtractedField `json:"cgpa"`
	Grade        ExtractedField `json:"grade"`
	Division     ExtractedField `json:"division"`
	ResultStatus ExtractedField `json:"result_status"`
}

// Fields returns the result fields in schema order
func (o *OverallResult) Fields() []*ExtractedField {
	return []*ExtractedField{
		&o.TotalMarks,
		&o.TotalCredits,
		&o.Percentage,
		&o.CGPA,
		&o.Grade,
		&o.Division,
		&o.ResultStatus,
	}
}

// DocumentInfo holds document-level metadata fields
type DocumentInfo struct {
	IssueDate       ExtractedField `json:"issue_date"`
	IssuePlace      ExtractedField `json:"issue_place"`
	DocumentType    ExtractedField `json:"document_type"`
	AcademicSession ExtractedField `json:"academic_session"`
}

// Fields returns the document fields in schema order
func (d *DocumentInfo) Fields() []*ExtractedField {
	return []*ExtractedField{
		&d.IssueDate,
		&d.IssuePlace,
		&d.DocumentType,
		&d.AcademicSession,
	}
}

// MarksheetData is the complete structured extraction result
type MarksheetData struct {
	CandidateDetails CandidateDetails `json:"candidate_details"`
	Subjects         []SubjectMark    `json:"subjects"`
	OverallResult    OverallResult    `json:"overall_result"`
	DocumentInfo     DocumentInfo     `json:"document_info"`
}

// MarksheetResponse is the single-extraction API envelope
type MarksheetResponse struct {
	Success            bool                   `json:"success"`
	Message            string                 `json:"message"`
	Data               *MarksheetData         `json:"data"`
	ExtractionMetadata map[string]interface{} `json:"extraction_metadata,omitempty"`
	Timestamp          time.Time              `json:"timestamp"`
}

// ErrorResponse is the API error envelope
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ErrorCode string    `json:"error_code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FailedFile records a single failed item inside a batch
type FailedFile struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchResponse is the batch-extraction API envelope
type BatchResponse struct {
	Success         bool                `json:"success"`
	Results         []MarksheetResponse `json:"results"`
	FailedFiles     []FailedFile        `json:"failed_files"`
	TotalProcessed  int                 `json:"total_processed"`
	SuccessfulCount int                 `json:"successful_count"`
	FailedCount     int                 `json:"failed_count"`
	Timestamp       time.Time           `json:"timestamp"`
}

// StringValue returns a pointer to s, for building fields in place
func StringValue(s string) *string {
	return &s
}
