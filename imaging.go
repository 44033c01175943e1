package texthumb

import (
	"bytes"
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
	"golang.org/x/image/draw"
)

// Filter selects the resampling kernel used by Resize.
type Filter int

// Resize filters.
const (
	FilterDefault Filter = iota
	FilterPoint
	FilterLinear
	FilterCubic
)

func (f Filter) String() string {
	switch f {
	case FilterDefault:
		return "default"
	case FilterPoint:
		return "point"
	case FilterLinear:
		return "linear"
	case FilterCubic:
		return "cubic"
	default:
		return fmt.Sprintf("Filter(%d)", int(f))
	}
}

// ParseFilter resolves a filter name as printed by Filter.String.
func ParseFilter(name string) (Filter, error) {
	for _, f := range []Filter{FilterDefault, FilterPoint, FilterLinear, FilterCubic} {
		if f.String() == name {
			return f, nil
		}
	}

	return FilterDefault, fmt.Errorf("unknown filter %q", name)
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case FilterPoint:
		return draw.NearestNeighbor
	case FilterLinear:
		return draw.ApproxBiLinear
	case FilterCubic:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// Metadata describes the images held by a Scratch.
type Metadata struct {
	Width     int
	Height    int
	MipLevels int
	Format    DXGIFormat
	// DeclaredMipLevels is the mip count of the source header; only the top
	// level is loaded.
	DeclaredMipLevels int
}

// Surface is one 2D image plane.
type Surface struct {
	Width    int
	Height   int
	RowPitch int
	Format   DXGIFormat
	Pix      []byte
}

// Scratch owns the planes produced by an imaging operation, indexed by mip level.
type Scratch struct {
	Metadata Metadata
	Images   []*Surface
}

// Image returns the plane for mip level and array item, or nil when absent.
func (s *Scratch) Image(mip, item int) *Surface {
	if s == nil || item != 0 || mip < 0 || mip >= len(s.Images) {
		return nil
	}

	return s.Images[mip]
}

// Imaging is the decode/convert/resize backend the renderer delegates to.
type Imaging interface {
	// Decode parses a DDS buffer.
	Decode(data []byte) (*Metadata, *Scratch, error)
	// IsCompressed reports whether format stores texel blocks.
	IsCompressed(format DXGIFormat) bool
	// Decompress expands block-compressed images into target.
	Decompress(s *Scratch, md *Metadata, target DXGIFormat) (*Scratch, error)
	// Convert changes the pixel format of uncompressed images.
	Convert(s *Scratch, md *Metadata, target DXGIFormat, filter Filter, threshold float32) (*Scratch, error)
	// Resize scales images to width x height.
	Resize(s *Scratch, md *Metadata, width, height int, filter Filter) (*Scratch, error)
}

// BCNImaging is the default Imaging backend. It decodes BC1-BC5 and 8-bit
// RGBA/BGRA with github.com/woozymasta/bcn and resamples with
// golang.org/x/image/draw. BC6H and BC7 are not supported.
type BCNImaging struct {
	// DecodeOptions are passed to the BCn decoder (e.g. Workers).
	DecodeOptions *bcn.DecodeOptions
}

var _ Imaging = (*BCNImaging)(nil)

// Decode reads the DDS headers from data and loads the top-level plane.
func (b *BCNImaging) Decode(data []byte) (*Metadata, *Scratch, error) {
	if len(data) < ddsMagicSize || string(data[:ddsMagicSize]) != "DDS " {
		return nil, nil, ErrDDSMagic
	}

	r := bytes.NewReader(data)
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDDSHeaderRead, err)
	}
	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDDSDX10Read, err)
	}

	format := detectFormat(header, dx10)
	if format == DXGIFormatUnknown {
		return nil, nil, fmt.Errorf("%w: fourcc %q", ErrUnsupportedFormat, intToFourCC(header.PixelFormat.FourCC))
	}

	width := int(header.Width)
	height := int(header.Height)
	if width == 0 || height == 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	size, err := planeSize(format, width, height)
	if err != nil {
		return nil, nil, err
	}
	if _, err := mulInt(width, height, 4); err != nil {
		return nil, nil, fmt.Errorf("%w: decoded %dx%d plane", err, width, height)
	}

	payload := data[len(data)-r.Len():]
	if len(payload) < size {
		return nil, nil, fmt.Errorf("%w: %s %dx%d needs %d bytes, have %d",
			ErrPayloadTruncated, format, width, height, size, len(payload))
	}

	md := Metadata{
		Width:             width,
		Height:            height,
		MipLevels:         1,
		Format:            format,
		DeclaredMipLevels: int(header.MipMapCount),
	}
	surface := &Surface{
		Width:    width,
		Height:   height,
		RowPitch: size / blockRows(format, height),
		Format:   format,
		Pix:      payload[:size],
	}

	return &md, &Scratch{Metadata: md, Images: []*Surface{surface}}, nil
}

// IsCompressed reports whether format stores texel blocks.
func (b *BCNImaging) IsCompressed(format DXGIFormat) bool {
	return isCompressed(format)
}

// Decompress expands BC1-BC5 planes into B8G8R8A8.
func (b *BCNImaging) Decompress(s *Scratch, md *Metadata, target DXGIFormat) (*Scratch, error) {
	if target != DXGIFormatB8G8R8A8Unorm {
		return nil, fmt.Errorf("%w: target %s", ErrUnsupportedFormat, target)
	}
	if !isCompressed(md.Format) {
		return nil, fmt.Errorf("%w: %s is not block compressed", ErrUnsupportedFormat, md.Format)
	}

	return mapSurfaces(s, md, target, func(src *Surface) (*Surface, error) {
		return b.decodeBGRA(src)
	})
}

// Convert turns uncompressed planes into B8G8R8A8. Filter and threshold only
// matter for targets with fewer bits per channel and are ignored here.
func (b *BCNImaging) Convert(s *Scratch, md *Metadata, target DXGIFormat, _ Filter, _ float32) (*Scratch, error) {
	if target != DXGIFormatB8G8R8A8Unorm {
		return nil, fmt.Errorf("%w: target %s", ErrUnsupportedFormat, target)
	}
	if isCompressed(md.Format) {
		return nil, fmt.Errorf("%w: %s is block compressed", ErrUnsupportedFormat, md.Format)
	}

	return mapSurfaces(s, md, target, func(src *Surface) (*Surface, error) {
		switch src.Format {
		case DXGIFormatB8G8R8A8Unorm:
			pix := make([]byte, len(src.Pix))
			copy(pix, src.Pix)
			return &Surface{Width: src.Width, Height: src.Height, RowPitch: src.RowPitch, Format: target, Pix: pix}, nil
		case DXGIFormatR8G8Unorm:
			return expandRG8(src)
		default:
			return b.decodeBGRA(src)
		}
	})
}

// Resize scales B8G8R8A8 planes to width x height.
func (b *BCNImaging) Resize(s *Scratch, md *Metadata, width, height int, filter Filter) (*Scratch, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if _, err := mulInt(width, height, 4); err != nil {
		return nil, fmt.Errorf("%w: resize to %dx%d", err, width, height)
	}
	if md.Format != DXGIFormatB8G8R8A8Unorm {
		return nil, fmt.Errorf("%w: resize needs %s, got %s", ErrUnsupportedFormat, DXGIFormatB8G8R8A8Unorm, md.Format)
	}

	out, err := mapSurfaces(s, md, md.Format, func(src *Surface) (*Surface, error) {
		srcImg := surfaceToNRGBA(src)
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		filter.interpolator().Scale(dst, dst.Bounds(), srcImg, srcImg.Bounds(), draw.Src, nil)
		return nrgbaToSurface(dst), nil
	})
	if err != nil {
		return nil, err
	}
	out.Metadata.Width = width
	out.Metadata.Height = height

	return out, nil
}

// decodeBGRA runs the bcn decoder over src and returns a B8G8R8A8 plane.
func (b *BCNImaging) decodeBGRA(src *Surface) (*Surface, error) {
	format := bcnFormat(src.Format)
	if format == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Format)
	}

	img, err := bcn.DecodeImageWithOptions(src.Pix, src.Width, src.Height, format, b.DecodeOptions)
	if err != nil {
		return nil, err
	}

	return nrgbaToSurface(toNRGBA(img)), nil
}

// mapSurfaces applies fn to every plane of s and returns a scratch in target.
func mapSurfaces(s *Scratch, md *Metadata, target DXGIFormat, fn func(*Surface) (*Surface, error)) (*Scratch, error) {
	if s == nil || len(s.Images) == 0 {
		return nil, ErrNoImage
	}

	out := &Scratch{Metadata: *md, Images: make([]*Surface, len(s.Images))}
	out.Metadata.Format = target
	for i, src := range s.Images {
		dst, err := fn(src)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		out.Images[i] = dst
	}

	return out, nil
}

// detectFormat resolves the DXGI format described by DDS headers.
func detectFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) DXGIFormat {
	if dx10 != nil {
		return DXGIFormat(dx10.DXGIFormat)
	}

	pf := header.PixelFormat
	if (pf.Flags & bcn.DDSPFFourCC) != 0 {
		return dxgiFromFourCC(intToFourCC(pf.FourCC))
	}

	if (pf.Flags&bcn.DDSPFRGB) != 0 && pf.RGBBitCount == 32 {
		if pf.RBitMask == 0x000000ff && pf.GBitMask == 0x0000ff00 && pf.BBitMask == 0x00ff0000 {
			return DXGIFormatR8G8B8A8Unorm
		}
		if pf.RBitMask == 0x00ff0000 && pf.GBitMask == 0x0000ff00 && pf.BBitMask == 0x000000ff {
			return DXGIFormatB8G8R8A8Unorm
		}
	}

	return DXGIFormatUnknown
}

// blockRows returns the number of rows of blocks (or pixels) in a plane.
func blockRows(f DXGIFormat, height int) int {
	if isCompressed(f) {
		return (height + 3) / 4
	}

	return height
}

// expandRG8 widens a two-channel plane to BGRA with blue zero and opaque alpha.
func expandRG8(src *Surface) (*Surface, error) {
	size, err := mulInt(src.Width, src.Height, 4)
	if err != nil {
		return nil, err
	}
	if need := src.RowPitch*(src.Height-1) + src.Width*2; src.Height > 0 && len(src.Pix) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrPayloadTruncated, need, len(src.Pix))
	}

	pix := make([]byte, size)
	for y := 0; y < src.Height; y++ {
		row := src.Pix[y*src.RowPitch:]
		out := pix[y*src.Width*4:]
		for x := 0; x < src.Width; x++ {
			out[x*4+0] = 0
			out[x*4+1] = row[x*2+1]
			out[x*4+2] = row[x*2+0]
			out[x*4+3] = 0xff
		}
	}

	return &Surface{
		Width:    src.Width,
		Height:   src.Height,
		RowPitch: src.Width * 4,
		Format:   DXGIFormatB8G8R8A8Unorm,
		Pix:      pix,
	}, nil
}

// toNRGBA returns img as a zero-origin *image.NRGBA, copying when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*4 {
		return n
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// nrgbaToSurface swizzles RGBA byte order into a B8G8R8A8 plane.
func nrgbaToSurface(img *image.NRGBA) *Surface {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := pix[y*w*4 : (y+1)*w*4]
		for i := 0; i < len(src); i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}

	return &Surface{Width: w, Height: h, RowPitch: w * 4, Format: DXGIFormatB8G8R8A8Unorm, Pix: pix}
}

// surfaceToNRGBA swizzles a B8G8R8A8 plane into an *image.NRGBA.
func surfaceToNRGBA(s *Surface) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		src := s.Pix[y*s.RowPitch : y*s.RowPitch+s.Width*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+s.Width*4]
		for i := 0; i < len(src); i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}

	return img
}
