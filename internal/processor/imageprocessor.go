// imageprocessor.go - Image preprocessing for better marksheet OCR accuracy

package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
)

// PreprocessImage enhances an uploaded document for OCR. PDFs are
// passed through untouched because the vision models accept them
// directly. Images that cannot be decoded are also passed through so
// the model still gets a chance at the original bytes.
func PreprocessImage(data []byte, filename string) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		return data, "application/pdf", nil
	}
	if !configs.ENABLE_IMAGE_PREPROCESSING {
		return data, mimeTypeForExtension(ext), nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data, mimeTypeForExtension(ext), nil
	}

	img = enhanceForOCR(img)

	var buf bytes.Buffer
	mimeType := "image/jpeg"
	switch ext {
	case ".png":
		err = png.Encode(&buf, img)
		mimeType = "image/png"
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode processed image: %w", err)
	}

	return buf.Bytes(), mimeType, nil
}

// enhanceForOCR upscales small scans, boosts contrast and sharpness
// for printed tables, then caps the longest side for API limits.
func enhanceForOCR(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Small scans lose table detail; upscale so the shortest side
	// reaches the minimum dimension before enhancement.
	minSide := width
	if height < minSide {
		minSide = height
	}
	if minSide < configs.MIN_IMAGE_DIMENSION && minSide > 0 {
		scale := float64(configs.MIN_IMAGE_DIMENSION) / float64(minSide)
		img = imaging.Resize(img, int(float64(width)*scale), int(float64(height)*scale), imaging.Lanczos)
	}

	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.8)
	img = imaging.AdjustBrightness(img, 10)

	bounds = img.Bounds()
	width = bounds.Dx()
	height = bounds.Dy()
	maxDimension := configs.MAX_IMAGE_DIMENSION

	if width > maxDimension || height > maxDimension {
		if width > height {
			img = imaging.Resize(img, maxDimension, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDimension, imaging.Lanczos)
		}
	}

	return img
}

func mimeTypeForExtension(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}
