// validation.go - Upload validation for extraction endpoints

package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".webp": true,
}

var contentTypeMapping = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".webp": {"image/webp"},
	".pdf":  {"application/pdf"},
}

// ValidationError carries the HTTP status a failed validation maps to.
type ValidationError struct {
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AllowedExtensionList returns the supported extensions for API info
// responses.
func AllowedExtensionList() []string {
	return []string{".jpg", ".jpeg", ".png", ".pdf", ".webp"}
}

// ValidateFile checks a single uploaded file: extension whitelist,
// size cap and content-type match.
func ValidateFile(header *multipart.FileHeader) error {
	if header == nil || header.Filename == "" {
		return &ValidationError{StatusCode: http.StatusBadRequest, Message: "No file provided"}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return &ValidationError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("File type %s not supported. Allowed types: %s", ext, strings.Join(AllowedExtensionList(), ", ")),
		}
	}

	if header.Size > configs.MAX_FILE_SIZE {
		maxMB := float64(configs.MAX_FILE_SIZE) / (1024 * 1024)
		return &ValidationError{
			StatusCode: http.StatusRequestEntityTooLarge,
			Message:    fmt.Sprintf("File size exceeds maximum allowed size of %.1fMB", maxMB),
		}
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && !contentTypeMatches(contentType, ext) {
		return &ValidationError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("Content type %s doesn't match file extension %s", contentType, ext),
		}
	}

	return nil
}

func contentTypeMatches(contentType string, ext string) bool {
	expected, ok := contentTypeMapping[ext]
	if !ok {
		return false
	}
	// Strip parameters like "; charset=utf-8" before comparing.
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, t := range expected {
		if mediaType == t {
			return true
		}
	}
	return false
}

// ValidateBatchFiles checks the batch size cap and then every file,
// prefixing per-file failures with their position in the batch.
func ValidateBatchFiles(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return &ValidationError{StatusCode: http.StatusBadRequest, Message: "No files provided"}
	}

	if len(files) > configs.MAX_BATCH_FILES {
		return &ValidationError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("Too many files. Maximum %d files allowed per batch", configs.MAX_BATCH_FILES),
		}
	}

	for i, header := range files {
		if err := ValidateFile(header); err != nil {
			var vErr *ValidationError
			if e, ok := err.(*ValidationError); ok {
				vErr = e
			} else {
				vErr = &ValidationError{StatusCode: http.StatusBadRequest, Message: err.Error()}
			}
			return &ValidationError{
				StatusCode: vErr.StatusCode,
				Message:    fmt.Sprintf("File %d (%s): %s", i+1, header.Filename, vErr.Message),
			}
		}
	}

	return nil
}
