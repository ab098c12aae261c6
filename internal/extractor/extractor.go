// extractor.go - Extraction pipeline orchestrator

package extractor

import (
	"context"
	"fmt"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
	"github.com/gradelens/marksheet_ocr_gemini/internal/ai"
	"github.com/gradelens/marksheet_ocr_gemini/internal/common"
	"github.com/gradelens/marksheet_ocr_gemini/internal/models"
)

// ModelGateway is what the pipeline needs from the AI layer.
type ModelGateway interface {
	ExtractFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, reqCtx *common.RequestContext) (*ai.ModelResponse, error)
	ProviderName() string
}

// Extractor runs the full pipeline: model call, response recovery,
// subject repair, structuring and confidence calibration.
type Extractor struct {
	gateway    ModelGateway
	calibrator *Calibrator
	prompt     string
}

func NewExtractor(gateway ModelGateway) *Extractor {
	return &Extractor{
		gateway:    gateway,
		calibrator: NewCalibrator(configs.MIN_CONFIDENCE_THRESHOLD),
		prompt:     ai.GetExtractionPrompt(),
	}
}

// ExtractData processes a single document and returns the structured
// marksheet data plus extraction metadata.
func (e *Extractor) ExtractData(ctx context.Context, imageData []byte, mimeType string, filename string, reqCtx *common.RequestContext) (*models.MarksheetData, map[string]interface{}, error) {
	reqCtx.StartSubStep("call_llm_api")
	response, err := e.gateway.ExtractFromImage(ctx, imageData, mimeType, e.prompt, reqCtx)
	if err != nil {
		reqCtx.EndSubStep(fmt.Sprintf("error: %v", err))
		return nil, nil, err
	}
	reqCtx.EndSubStep(fmt.Sprintf("model: %s, response length: %d", response.Model, len(response.Content)))

	reqCtx.StartSubStep("parse_llm_response")
	rawData, err := ParseResponse(response.Content)
	if err != nil {
		reqCtx.EndSubStep(fmt.Sprintf("error: %v", err))
		return nil, nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if _, fallback := rawData["raw_content"]; fallback {
		reqCtx.LogWarning("Response was not valid JSON, using fallback structure")
	}
	reqCtx.EndSubStep("")

	reqCtx.StartSubStep("repair_subjects")
	rawData = RepairSubjects(rawData)
	reqCtx.EndSubStep("")

	reqCtx.StartSubStep("structure_data")
	data, err := Structure(rawData)
	if err != nil {
		reqCtx.EndSubStep(fmt.Sprintf("error: %v", err))
		return nil, nil, err
	}
	reqCtx.EndSubStep(fmt.Sprintf("subjects: %d", len(data.Subjects)))

	reqCtx.StartSubStep("calibrate_confidence")
	data = e.calibrator.Calibrate(data)
	reqCtx.EndSubStep(fmt.Sprintf("overall confidence: %.2f", e.calibrator.OverallConfidence(data)))

	metadata := e.extractionMetadata(filename, response)
	return data, metadata, nil
}

func (e *Extractor) extractionMetadata(filename string, response *ai.ModelResponse) map[string]interface{} {
	return map[string]interface{}{
		"filename":     filename,
		"llm_provider": response.Provider,
		"model_info": map[string]interface{}{
			"provider": response.Provider,
			"model":    response.Model,
		},
		"extraction_version": "1.1.0",
		"confidence_method":  e.calibrator.MethodInfo(),
		"features": []string{
			"subject_name_validation",
			"intelligent_inference",
			"fallback_parsing",
			"enhanced_cleaning",
		},
	}
}

// BatchInput is one document in a batch request.
type BatchInput struct {
	Filename string
	MimeType string
	Data     []byte
}

// BatchItemResult pairs a batch input with its outcome. Err is set
// when that document failed; the rest of the batch is unaffected.
type BatchItemResult struct {
	Filename string
	Data     *models.MarksheetData
	Metadata map[string]interface{}
	Err      error
}

// ExtractBatch processes documents sequentially, isolating failures so
// one bad document never aborts the batch. Results keep input order.
func (e *Extractor) ExtractBatch(ctx context.Context, inputs []BatchInput, reqCtx *common.RequestContext) []BatchItemResult {
	results := make([]BatchItemResult, 0, len(inputs))

	for _, input := range inputs {
		data, metadata, err := e.ExtractData(ctx, input.Data, input.MimeType, input.Filename, reqCtx)
		if err != nil {
			reqCtx.LogError("Batch item %s failed: %v", input.Filename, err)
			results = append(results, BatchItemResult{Filename: input.Filename, Err: err})
			continue
		}
		results = append(results, BatchItemResult{
			Filename: input.Filename,
			Data:     data,
			Metadata: metadata,
		})
	}

	return results
}
