// prompt.go - Extraction prompt sent to the multimodal models

package ai

// GetExtractionPrompt returns the base prompt instructing the model to
// return the marksheet as strict JSON with per-field confidence scores
func GetExtractionPrompt() string {
	return `
You are an expert at extracting structured data from marksheet images.
Analyze this marksheet image and extract ALL information in strict JSON format.

CRITICAL INSTRUCTIONS:
1. ALWAYS extract subject names - look for subject titles in tables, rows, or separate columns
2. Subject names might be in: first column, header rows, or separate sections
3. Match each subject name with its corresponding marks/grades
4. If subjects are grouped (like LANGUAGE GROUP, SCIENCE GROUP), include the full subject name

Required JSON structure:
{
    "candidate_details": {
        "name": {"value": "EXACT_NAME", "confidence": 0.95},
        "father_name": {"value": "FATHER_NAME", "confidence": 0.90},
        "mother_name": {"value": "MOTHER_NAME_OR_NULL", "confidence": 0.85},
        "roll_number": {"value": "ROLL_NUMBER", "confidence": 0.95},
        "registration_number": {"value": "REG_NUMBER", "confidence": 0.90},
        "date_of_birth": {"value": "DOB_OR_NULL", "confidence": 0.85},
        "exam_year": {"value": "YEAR", "confidence": 0.95},
        "board_university": {"value": "BOARD_NAME", "confidence": 0.90},
        "institution": {"value": "SCHOOL_COLLEGE", "confidence": 0.85}
    },
    "subjects": [
        {
            "subject_name": {"value": "EXACT_SUBJECT_NAME", "confidence": 0.90},
            "max_marks": {"value": "MAX_MARKS", "confidence": 0.85},
            "obtained_marks": {"value": "OBTAINED_MARKS", "confidence": 0.90},
            "grade": {"value": "GRADE_IF_PRESENT", "confidence": 0.85}
        }
    ],
    "overall_result": {
        "total_marks": {"value": "TOTAL", "confidence": 0.95},
        "percentage": {"value": "PERCENTAGE_OR_NULL", "confidence": 0.85},
        "grade": {"value": "OVERALL_GRADE", "confidence": 0.90},
        "division": {"value": "DIVISION_OR_NULL", "confidence": 0.85},
        "result_status": {"value": "PASS/FAIL", "confidence": 0.95}
    },
    "document_info": {
        "issue_date": {"value": "DATE_OR_NULL", "confidence": 0.80},
        "document_type": {"value": "MARKSHEET_TYPE", "confidence": 0.85}
    }
}

EXTRACTION GUIDELINES:
- State boards: Look for subjects like "FL-(WRITTEN)", "MATHEMATICS", "PHYSICAL SCIENCE", "LIFE SCIENCE", etc.
- Universities: Look for subjects like "Environmental Studies", "Indian Writing in English", etc.
- CBSE/UP Board: Look for subjects like "HINDI", "ENGLISH", "MATHEMATICS", "SOCIAL SCIENCE", etc.
- Extract COMPLETE subject names, not abbreviations
- Match marks/grades to correct subjects
- Set confidence based on text clarity (0.0-1.0)

Respond ONLY with valid JSON, no explanations.
`
}

// GetSubjectEmphasisPrompt returns extra instructions appended to the base
// prompt. Vision models routinely drop subject names from table columns,
// so the prompt hammers on that one failure mode.
func GetSubjectEmphasisPrompt() string {
	return `
ENHANCED INSTRUCTIONS FOR SUBJECT NAME EXTRACTION:

1. NEVER use "N/A" for subject names
2. Look carefully at table structures - subject names are usually in:
   - Left column of marks tables
   - Header rows above marks
   - Text labels before numerical values

3. For different marksheet formats:
   - Traditional boards: Look for subjects like "MATHEMATICS", "ENGLISH", "SCIENCE"
   - Universities: Look for course titles like "Environmental Studies", "Indian Writing in English"

4. Extract COMPLETE subject names with proper capitalization
5. If oral/written components exist, include the full description

FOCUS: Your primary task is extracting accurate, complete subject names along with their marks.
`
}
