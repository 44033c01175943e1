package texthumb

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// AlphaType tells the caller how to interpret the bitmap alpha channel.
type AlphaType int

// Alpha types, numbered like WTS_ALPHATYPE.
const (
	AlphaUnknown AlphaType = iota
	AlphaRGB
	AlphaARGB
)

func (a AlphaType) String() string {
	switch a {
	case AlphaRGB:
		return "rgb"
	case AlphaARGB:
		return "argb"
	default:
		return "unknown"
	}
}

// Bitmap is a top-down 32-bit BGRA bitmap with premultiplied alpha.
type Bitmap struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewBitmap builds a bitmap over width x height straight-alpha BGRA pixels
// laid out with stride bytes per row, composited over background.
func NewBitmap(width, height, stride int, pix []byte, background color.NRGBA) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if stride < width*4 {
		return nil, fmt.Errorf("%w: stride %d for width %d", ErrSizeOverflow, stride, width)
	}
	if need := stride*(height-1) + width*4; len(pix) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrPayloadTruncated, need, len(pix))
	}

	src := surfaceToNRGBA(&Surface{
		Width:    width,
		Height:   height,
		RowPitch: stride,
		Format:   DXGIFormatB8G8R8A8Unorm,
		Pix:      pix,
	})

	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Over)

	out := make([]byte, width*height*4)
	for i := 0; i < len(out); i += 4 {
		out[i+0] = dst.Pix[i+2]
		out[i+1] = dst.Pix[i+1]
		out[i+2] = dst.Pix[i+0]
		out[i+3] = dst.Pix[i+3]
	}

	return &Bitmap{Width: width, Height: height, Stride: width * 4, Pix: out}, nil
}

// Image returns the bitmap as a premultiplied *image.RGBA.
func (b *Bitmap) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		src := b.Pix[y*b.Stride : y*b.Stride+b.Width*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for i := 0; i < len(src); i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}

	return img
}

// EncodeBMP writes the bitmap as a BMP file.
func (b *Bitmap) EncodeBMP(w io.Writer) error {
	return bmp.Encode(w, b.Image())
}

// EncodePNG writes the bitmap as a PNG file.
func (b *Bitmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, b.Image())
}
