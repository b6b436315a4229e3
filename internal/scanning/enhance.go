package scanning

import (
	"image"

	"github.com/disintegration/imaging"
)

// MRZ glyphs need roughly 20px height for reliable OCR; small photos are
// upscaled to this width first.
const minOCRWidth = 1600

// enhanceForOCR applies grayscale, contrast and sharpening tuned for the
// OCR-B font of the MRZ.
func enhanceForOCR(src image.Image) image.Image {
	img := src
	if w := src.Bounds().Dx(); w > 0 && w < minOCRWidth {
		img = imaging.Resize(img, minOCRWidth, 0, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 30)
	gray = imaging.Sharpen(gray, 1.5)
	return imaging.AdjustGamma(gray, 1.2)
}
