package document

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// imageSize returns the pixel size of the image at path. When maxWidth is
// positive the result is scaled so the width is maxWidth, keeping the aspect
// ratio.
func imageSize(path string, maxWidth float64) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, fmt.Errorf("decode image: empty")
	}
	w, h := float64(cfg.Width), float64(cfg.Height)
	if maxWidth > 0 {
		h = h * maxWidth / w
		w = maxWidth
	}
	return w, h, nil
}
