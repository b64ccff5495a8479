package mappreview

import (
	"fmt"
	"image"
)

// maxSourceDimension rejects previews OpenCV would refuse or that would
// stall the UI while decoding.
const maxSourceDimension = 32768

func validateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid preview dimensions %dx%d", width, height)
	}
	if width > maxSourceDimension || height > maxSourceDimension {
		return fmt.Errorf("preview dimensions %dx%d exceed maximum size", width, height)
	}
	return nil
}

// fitWithin scales src down or up to the largest size inside box that keeps
// its aspect ratio. Neither side drops below one pixel.
func fitWithin(src, box image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 || box.X <= 0 || box.Y <= 0 {
		return box
	}
	w, h := box.X, src.Y*box.X/src.X
	if h > box.Y {
		w, h = src.X*box.Y/src.Y, box.Y
	}
	return image.Pt(max(w, 1), max(h, 1))
}
