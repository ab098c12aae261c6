// subjects.go - Subject name repair: inference and cleanup for subject rows

package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var missingSentinels = map[string]bool{
	"":     true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// commonSubjects is the positional master list used when no marks or
// grade pattern gives a better hint.
var commonSubjects = []string{
	"MATHEMATICS", "ENGLISH", "HINDI", "SCIENCE", "SOCIAL SCIENCE",
	"PHYSICS", "CHEMISTRY", "BIOLOGY", "HISTORY", "GEOGRAPHY",
	"FIRST LANGUAGE", "SECOND LANGUAGE", "PHYSICAL SCIENCE", "LIFE SCIENCE",
	"Environmental Studies", "Indian Writing in English", "British Poetry",
	"Feminism Theory", "DRAWING", "COMPUTER SCIENCE", "ECONOMICS",
}

var hundredMarkSubjects = []string{
	"MATHEMATICS", "ENGLISH", "SCIENCE", "SOCIAL SCIENCE",
	"PHYSICS", "CHEMISTRY", "BIOLOGY", "HISTORY", "GEOGRAPHY",
}

var cbseSubjects = []string{"HINDI", "ENGLISH", "MATHEMATICS", "SCIENCE", "SOCIAL SCIENCE"}

var universitySubjects = []string{"Environmental Studies", "Literature", "Core Subject", "Elective"}

// abbreviation expansions applied to leading tokens of subject names.
// Order matters: longer prefixes shadow shorter ones (PHYS before
// checking would match PHYSICS already expanded, so the guard below
// skips names that already start with the full form).
var subjectExpansions = []struct {
	abbrev string
	full   string
}{
	{"MATH", "MATHEMATICS"},
	{"ENG", "ENGLISH"},
	{"SCI", "SCIENCE"},
	{"SOC", "SOCIAL SCIENCE"},
	{"PHYS", "PHYSICS"},
	{"CHEM", "CHEMISTRY"},
	{"BIO", "BIOLOGY"},
	{"HIST", "HISTORY"},
	{"GEO", "GEOGRAPHY"},
	{"FL", "FIRST LANGUAGE"},
	{"SL", "SECOND LANGUAGE"},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// RepairSubjects fills in missing subject names and standardizes the
// ones that are present. Entries that are not objects are dropped;
// positional inference uses each entry's index in the original list.
func RepairSubjects(rawData map[string]interface{}) map[string]interface{} {
	subjectsRaw, ok := rawData["subjects"].([]interface{})
	if !ok {
		return rawData
	}

	fixed := make([]interface{}, 0, len(subjectsRaw))

	for i, entry := range subjectsRaw {
		subject, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		nameData := subject["subject_name"]
		name := fieldValueString(nameData)

		if missingSentinels[strings.ToLower(strings.TrimSpace(name))] {
			inferred := inferSubjectName(subject, i)
			if inferred != "" {
				subject["subject_name"] = map[string]interface{}{
					"value":      inferred,
					"confidence": 0.6,
				}
			} else {
				subject["subject_name"] = map[string]interface{}{
					"value":      fmt.Sprintf("Subject %d", i+1),
					"confidence": 0.3,
				}
			}
		} else {
			cleaned := cleanSubjectName(name)
			if cleaned != name {
				if nameMap, ok := nameData.(map[string]interface{}); ok {
					nameMap["value"] = cleaned
				} else {
					subject["subject_name"] = map[string]interface{}{
						"value":      cleaned,
						"confidence": 0.8,
					}
				}
			}
		}

		fixed = append(fixed, subject)
	}

	rawData["subjects"] = fixed
	return rawData
}

// inferSubjectName guesses a subject name from marks and grade
// patterns, falling back to the positional master list. Returns ""
// when no guess applies.
func inferSubjectName(subject map[string]interface{}, index int) string {
	maxMarks := fieldValueString(subject["max_marks"])
	grade := fieldValueString(subject["grade"])

	if maxMarks != "" {
		if f, err := strconv.ParseFloat(maxMarks, 64); err == nil {
			switch int(f) {
			case 200:
				return "FIRST LANGUAGE"
			case 100:
				if index < len(hundredMarkSubjects) {
					return hundredMarkSubjects[index]
				}
			case 90:
				return fmt.Sprintf("WRITTEN COMPONENT %d", index+1)
			case 10, 20:
				return fmt.Sprintf("ORAL COMPONENT %d", index+1)
			}
		}
	}

	if grade != "" {
		switch strings.ToUpper(grade) {
		case "A1", "A2", "B1", "B2":
			if index < len(cbseSubjects) {
				return cbseSubjects[index]
			}
		case "A+", "A", "B+", "B":
			if index < len(universitySubjects) {
				return universitySubjects[index]
			}
		}
	}

	if index < len(commonSubjects) {
		return commonSubjects[index]
	}

	return ""
}

// cleanSubjectName collapses whitespace and expands leading
// abbreviations. Names that already start with a full form are left
// alone so expansion never mangles them.
func cleanSubjectName(name string) string {
	if name == "" {
		return name
	}

	cleaned := whitespacePattern.ReplaceAllString(strings.TrimSpace(name), " ")
	upper := strings.ToUpper(cleaned)

	for _, exp := range subjectExpansions {
		if strings.HasPrefix(upper, exp.full) {
			break
		}
		if strings.HasPrefix(upper, exp.abbrev) {
			cleaned = exp.full + upper[len(exp.abbrev):]
			break
		}
	}

	return cleaned
}

// fieldValueString pulls the string value out of a field regardless of
// whether it arrived as an object, a scalar, or nothing.
func fieldValueString(fieldData interface{}) string {
	switch v := fieldData.(type) {
	case map[string]interface{}:
		return stringify(v["value"])
	case nil:
		return ""
	default:
		return stringify(v)
	}
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
