package texthumb

import (
	"fmt"
	"math"
)

// ThumbnailSize computes the preview dimensions for a width x height texture
// and a requested edge cx.
//
// Wide images (aspect > 1) are scaled so their height becomes cx, all others
// so their width becomes cx. The requested edge therefore bounds the shorter
// side of wide images and the width of tall ones. Arithmetic is float32 and
// results are truncated, then clamped to at least one pixel. Results that do not
// fit in an int32 fail with ErrSizeOverflow.
func ThumbnailSize(width, height, cx int) (int, int, error) {
	if cx <= 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidEdge, cx)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	w := float32(width)
	h := float32(height)
	edge := float32(cx)

	aspect := w / h
	factor := w / edge
	if aspect > 1 {
		factor = h / edge
	}

	scaledW := w / factor
	scaledH := h / factor
	if scaledW >= math.MaxInt32 || scaledH >= math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: %dx%d at edge %d", ErrSizeOverflow, width, height, cx)
	}

	newWidth := int(scaledW)
	newHeight := int(scaledH)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	return newWidth, newHeight, nil
}
