package imageproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

const (
	// Canvas is fixed 4:3: height = width * 3/4
	canvasWidth  = 1024
	canvasHeight = canvasWidth * 3 / 4

	jpegQuality = 85
)

// letterboxFill is the constant fill behind letterboxed photos.
var letterboxFill = color.NRGBA{R: 245, G: 242, B: 234, A: 255}

// Normalize decodes a user photo and letterboxes it onto the fixed-ratio
// canvas: center-scaled to preserve aspect without cropping, constant
// fill on the remaining area, JPEG output.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	fitted := imaging.Fit(img, canvasWidth, canvasHeight, imaging.Lanczos)
	canvas := imaging.New(canvasWidth, canvasHeight, letterboxFill)
	result := imaging.PasteCenter(canvas, fitted)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, result, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	return buf.Bytes(), nil
}

// DataURI wraps JPEG bytes as a data URI for the remote pipeline.
func DataURI(data []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}
