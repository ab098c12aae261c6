// handlers.go - HTTP handlers for marksheet extraction endpoints

package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
	"github.com/gradelens/marksheet_ocr_gemini/internal/common"
	"github.com/gradelens/marksheet_ocr_gemini/internal/extractor"
	"github.com/gradelens/marksheet_ocr_gemini/internal/models"
	"github.com/gradelens/marksheet_ocr_gemini/internal/processor"
	"github.com/gradelens/marksheet_ocr_gemini/internal/storage"
)

// Handler bundles the extraction pipeline behind the HTTP endpoints.
type Handler struct {
	extractor *extractor.Extractor
}

func NewHandler(extr *extractor.Extractor) *Handler {
	return &Handler{extractor: extr}
}

func errorJSON(c *gin.Context, status int, message string, errorCode string) {
	c.JSON(status, models.ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: errorCode,
		Timestamp: time.Now().UTC(),
	})
}

// AuthMiddleware enforces bearer token auth when enabled.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !configs.ENABLE_AUTH {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			errorJSON(c, http.StatusUnauthorized,
				"API key required. Use 'Bearer YOUR_API_KEY' in Authorization header", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		apiKey := strings.TrimPrefix(authHeader, "Bearer ")
		if apiKey != configs.API_KEY {
			errorJSON(c, http.StatusUnauthorized, "Invalid API key", "INVALID_API_KEY")
			c.Abort()
			return
		}

		c.Next()
	}
}

// HealthHandler reports service status and active configuration.
func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"services": gin.H{
			"api":     "running",
			"llm":     configs.LLM_PROVIDER,
			"storage": storage.Enabled(),
		},
		"config": gin.H{
			"max_file_size":      fmt.Sprintf("%.1fMB", float64(configs.MAX_FILE_SIZE)/(1024*1024)),
			"allowed_extensions": AllowedExtensionList(),
			"auth_enabled":       configs.ENABLE_AUTH,
			"provider":           configs.LLM_PROVIDER,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// InfoHandler describes the API capabilities.
func (h *Handler) InfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_version":            "1.0.0",
		"llm_provider":           configs.LLM_PROVIDER,
		"supported_formats":      AllowedExtensionList(),
		"max_file_size_mb":       float64(configs.MAX_FILE_SIZE) / (1024 * 1024),
		"max_batch_files":        configs.MAX_BATCH_FILES,
		"authentication_enabled": configs.ENABLE_AUTH,
		"features": gin.H{
			"single_extraction":  true,
			"batch_processing":   true,
			"confidence_scoring": true,
			"extraction_history": storage.Enabled(),
			"multiple_formats":   true,
		},
	})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

func validationStatus(err error) (int, string) {
	if vErr, ok := err.(*ValidationError); ok {
		return vErr.StatusCode, vErr.Message
	}
	return http.StatusBadRequest, err.Error()
}

// ExtractHandler processes a single marksheet upload.
func (h *Handler) ExtractHandler(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "No file provided", "VALIDATION_ERROR")
		return
	}

	reqCtx := common.NewRequestContext(header.Filename)

	reqCtx.StartStep("file_validation")
	if err := ValidateFile(header); err != nil {
		reqCtx.EndStep("failed", nil, err)
		status, message := validationStatus(err)
		errorJSON(c, status, message, "VALIDATION_ERROR")
		return
	}
	reqCtx.EndStep("success", nil, nil)

	data, err := readUpload(header)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, fmt.Sprintf("Failed to process %s: %v", header.Filename, err), "VALIDATION_ERROR")
		return
	}

	reqCtx.StartStep("image_preprocessing")
	processed, mimeType, err := processor.PreprocessImage(data, header.Filename)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		errorJSON(c, http.StatusInternalServerError, fmt.Sprintf("Failed to process %s: %v", header.Filename, err), "PREPROCESSING_FAILED")
		return
	}
	reqCtx.EndStep("success", nil, nil)

	reqCtx.StartStep("marksheet_extraction")
	extracted, metadata, err := h.extractor.ExtractData(c.Request.Context(), processed, mimeType, header.Filename, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		errorJSON(c, http.StatusInternalServerError, fmt.Sprintf("Extraction failed: %v", err), "EXTRACTION_FAILED")
		return
	}
	reqCtx.EndStep("success", nil, nil)

	h.saveRecord(reqCtx, header.Filename, extracted, metadata)

	reqCtx.GetSummary()

	c.JSON(http.StatusOK, models.MarksheetResponse{
		Success:            true,
		Message:            "Data extracted successfully",
		Data:               extracted,
		ExtractionMetadata: metadata,
		Timestamp:          time.Now().UTC(),
	})
}

// saveRecord stores the extraction when history is enabled. Failures
// are logged, never surfaced to the client.
func (h *Handler) saveRecord(reqCtx *common.RequestContext, filename string, data *models.MarksheetData, metadata map[string]interface{}) {
	if !storage.Enabled() {
		return
	}

	reqCtx.StartStep("save_extraction_record")
	record := storage.ExtractionRecord{
		RequestID:  reqCtx.RequestID,
		Filename:   filename,
		Provider:   configs.LLM_PROVIDER,
		Data:       data,
		Metadata:   metadata,
		DurationMs: time.Since(reqCtx.StartTime).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := storage.SaveExtractionRecord(record); err != nil {
		reqCtx.EndStep("failed", nil, err)
		reqCtx.LogWarning("Failed to save extraction record: %v", err)
		return
	}
	reqCtx.EndStep("success", nil, nil)
}

// ExtractBatchHandler processes up to MAX_BATCH_FILES uploads in one
// request. Validation failures reject the whole batch up front;
// extraction failures are isolated per file.
func (h *Handler) ExtractBatchHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "No files provided", "VALIDATION_ERROR")
		return
	}

	files := form.File["files"]
	if err := ValidateBatchFiles(files); err != nil {
		status, message := validationStatus(err)
		errorJSON(c, status, message, "VALIDATION_ERROR")
		return
	}

	reqCtx := common.NewRequestContext(fmt.Sprintf("batch of %d files", len(files)))

	inputs := make([]extractor.BatchInput, 0, len(files))
	for _, header := range files {
		data, err := readUpload(header)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, fmt.Sprintf("Failed to process %s: %v", header.Filename, err), "VALIDATION_ERROR")
			return
		}

		processed, mimeType, err := processor.PreprocessImage(data, header.Filename)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, fmt.Sprintf("Failed to process %s: %v", header.Filename, err), "VALIDATION_ERROR")
			return
		}

		inputs = append(inputs, extractor.BatchInput{
			Filename: header.Filename,
			MimeType: mimeType,
			Data:     processed,
		})
	}

	reqCtx.StartStep("batch_extraction")
	results := h.extractor.ExtractBatch(c.Request.Context(), inputs, reqCtx)
	reqCtx.EndStep("success", nil, nil)

	successful := make([]models.MarksheetResponse, 0, len(results))
	failed := make([]models.FailedFile, 0)

	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, models.FailedFile{
				Filename: result.Filename,
				Error:    result.Err.Error(),
			})
			continue
		}
		successful = append(successful, models.MarksheetResponse{
			Success:            true,
			Message:            "Data extracted successfully",
			Data:               result.Data,
			ExtractionMetadata: result.Metadata,
			Timestamp:          time.Now().UTC(),
		})
	}

	reqCtx.LogInfo("Batch processing completed: %d successful, %d failed", len(successful), len(failed))
	reqCtx.GetSummary()

	c.JSON(http.StatusOK, models.BatchResponse{
		Success:         true,
		Results:         successful,
		FailedFiles:     failed,
		TotalProcessed:  len(files),
		SuccessfulCount: len(successful),
		FailedCount:     len(failed),
		Timestamp:       time.Now().UTC(),
	})
}

// HistoryHandler returns recent extraction records from storage.
func (h *Handler) HistoryHandler(c *gin.Context) {
	if !storage.Enabled() {
		errorJSON(c, http.StatusServiceUnavailable, "Extraction history is not enabled", "HISTORY_DISABLED")
		return
	}

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	records, err := storage.GetRecentExtractions(limit)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load extraction history", "INTERNAL_ERROR")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"records": records,
	})
}
