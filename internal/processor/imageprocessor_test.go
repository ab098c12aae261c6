package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
)

func setTestConfig(t *testing.T) {
	t.Helper()
	configs.ENABLE_IMAGE_PREPROCESSING = true
	configs.MIN_IMAGE_DIMENSION = 200
	configs.MAX_IMAGE_DIMENSION = 400
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessImagePDFPassthrough(t *testing.T) {
	setTestConfig(t)

	pdf := []byte("%PDF-1.4 fake content")
	out, mimeType, err := PreprocessImage(pdf, "marksheet.pdf")
	require.NoError(t, err)
	assert.Equal(t, pdf, out)
	assert.Equal(t, "application/pdf", mimeType)
}

func TestPreprocessImageUpscalesSmallScan(t *testing.T) {
	setTestConfig(t)

	out, mimeType, err := PreprocessImage(encodePNG(t, 100, 80), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// Shortest side reaches the minimum, but the cap clips the longer one.
	bounds := decoded.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), configs.MAX_IMAGE_DIMENSION)
	assert.Greater(t, bounds.Dy(), 80)
}

func TestPreprocessImageDownscalesLargeScan(t *testing.T) {
	setTestConfig(t)

	out, _, err := PreprocessImage(encodePNG(t, 600, 500), "scan.png")
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	bounds := decoded.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), configs.MAX_IMAGE_DIMENSION)
	assert.LessOrEqual(t, bounds.Dy(), configs.MAX_IMAGE_DIMENSION)
}

func TestPreprocessImageJPEGOutput(t *testing.T) {
	setTestConfig(t)

	img := image.NewRGBA(image.Rect(0, 0, 300, 300))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))

	out, mimeType, err := PreprocessImage(buf.Bytes(), "scan.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.NotEmpty(t, out)
}

func TestPreprocessImageUndecodableFallsThrough(t *testing.T) {
	setTestConfig(t)

	junk := []byte("not an image at all")
	out, mimeType, err := PreprocessImage(junk, "scan.webp")
	require.NoError(t, err)
	assert.Equal(t, junk, out)
	assert.Equal(t, "image/webp", mimeType)
}

func TestPreprocessImageDisabled(t *testing.T) {
	setTestConfig(t)
	configs.ENABLE_IMAGE_PREPROCESSING = false
	defer func() { configs.ENABLE_IMAGE_PREPROCESSING = true }()

	data := encodePNG(t, 100, 80)
	out, mimeType, err := PreprocessImage(data, "scan.png")
	require.NoError(t, err)
	assert.Equal(t, data, out)
	assert.Equal(t, "image/png", mimeType)
}
