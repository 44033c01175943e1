package texthumb

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/woozymasta/bcn"
)

// TexFormat is the pixel format tag stored in the .tex header.
type TexFormat uint32

// Known .tex pixel formats.
const (
	TexFormatUnknown           TexFormat = 0
	TexFormatR8G8B8A8Unorm     TexFormat = 7
	TexFormatR8G8B8A8UnormSRGB TexFormat = 9
	TexFormatR8G8Unorm         TexFormat = 19
	TexFormatBC1Unorm          TexFormat = 22
	TexFormatBC1UnormSRGB      TexFormat = 23
	TexFormatBC4Unorm          TexFormat = 24
	TexFormatBC5Unorm          TexFormat = 26
	TexFormatBC6HUF16          TexFormat = 28
	TexFormatBC7Unorm          TexFormat = 30
	TexFormatBC7UnormSRGB      TexFormat = 31
)

var texFormatNames = map[TexFormat]string{
	TexFormatR8G8B8A8Unorm:     "R8G8B8A8_UNORM",
	TexFormatR8G8B8A8UnormSRGB: "R8G8B8A8_UNORM_SRGB",
	TexFormatR8G8Unorm:         "R8G8_UNORM",
	TexFormatBC1Unorm:          "BC1_UNORM",
	TexFormatBC1UnormSRGB:      "BC1_UNORM_SRGB",
	TexFormatBC4Unorm:          "BC4_UNORM",
	TexFormatBC5Unorm:          "BC5_UNORM",
	TexFormatBC6HUF16:          "BC6H_UF16",
	TexFormatBC7Unorm:          "BC7_UNORM",
	TexFormatBC7UnormSRGB:      "BC7_UNORM_SRGB",
}

func (f TexFormat) String() string {
	if name, ok := texFormatNames[f]; ok {
		return name
	}
	if f == TexFormatUnknown {
		return "UNKNOWN"
	}

	return fmt.Sprintf("TexFormat(%d)", uint32(f))
}

// Known reports whether f is one of the recognized formats.
func (f TexFormat) Known() bool {
	_, ok := texFormatNames[f]
	return ok
}

// SupportedFormats returns every recognized .tex format in ascending order.
func SupportedFormats() []TexFormat {
	formats := lo.Keys(texFormatNames)
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// DXGIFormat is a DXGI_FORMAT enumerant as stored in the DDS DX10 header.
type DXGIFormat uint32

// DXGI formats reachable from .tex files and the classic FourCC codes.
const (
	DXGIFormatUnknown           DXGIFormat = 0
	DXGIFormatR8G8B8A8Unorm     DXGIFormat = 28
	DXGIFormatR8G8B8A8UnormSRGB DXGIFormat = 29
	DXGIFormatR8G8Unorm         DXGIFormat = 49
	DXGIFormatBC1Unorm          DXGIFormat = 71
	DXGIFormatBC1UnormSRGB      DXGIFormat = 72
	DXGIFormatBC2Unorm          DXGIFormat = 74
	DXGIFormatBC3Unorm          DXGIFormat = 77
	DXGIFormatBC4Unorm          DXGIFormat = 80
	DXGIFormatBC4Snorm          DXGIFormat = 81
	DXGIFormatBC5Unorm          DXGIFormat = 83
	DXGIFormatBC5Snorm          DXGIFormat = 84
	DXGIFormatB8G8R8A8Unorm     DXGIFormat = 87
	DXGIFormatBC6HUF16          DXGIFormat = 95
	DXGIFormatBC7Unorm          DXGIFormat = 98
	DXGIFormatBC7UnormSRGB      DXGIFormat = 99
)

var dxgiFormatNames = map[DXGIFormat]string{
	DXGIFormatUnknown:           "UNKNOWN",
	DXGIFormatR8G8B8A8Unorm:     "R8G8B8A8_UNORM",
	DXGIFormatR8G8B8A8UnormSRGB: "R8G8B8A8_UNORM_SRGB",
	DXGIFormatR8G8Unorm:         "R8G8_UNORM",
	DXGIFormatBC1Unorm:          "BC1_UNORM",
	DXGIFormatBC1UnormSRGB:      "BC1_UNORM_SRGB",
	DXGIFormatBC2Unorm:          "BC2_UNORM",
	DXGIFormatBC3Unorm:          "BC3_UNORM",
	DXGIFormatBC4Unorm:          "BC4_UNORM",
	DXGIFormatBC4Snorm:          "BC4_SNORM",
	DXGIFormatBC5Unorm:          "BC5_UNORM",
	DXGIFormatBC5Snorm:          "BC5_SNORM",
	DXGIFormatB8G8R8A8Unorm:     "B8G8R8A8_UNORM",
	DXGIFormatBC6HUF16:          "BC6H_UF16",
	DXGIFormatBC7Unorm:          "BC7_UNORM",
	DXGIFormatBC7UnormSRGB:      "BC7_UNORM_SRGB",
}

func (f DXGIFormat) String() string {
	if name, ok := dxgiFormatNames[f]; ok {
		return name
	}

	return fmt.Sprintf("DXGI(%d)", uint32(f))
}

// Four-character codes written into the classic header pixel format.
const (
	FourCCDX10    = "DX10"
	FourCCDXT1    = "DXT1"
	FourCCBC4U    = "BC4U"
	FourCCBC5U    = "BC5U"
	FourCCUnknown = "UNKN"
)

// FourCC returns the classic DDS compression tag for f. Formats the legacy
// tags cannot express map to FourCCDX10.
func (f TexFormat) FourCC() string {
	switch f {
	case TexFormatR8G8B8A8Unorm, TexFormatR8G8B8A8UnormSRGB, TexFormatBC6HUF16,
		TexFormatBC7Unorm, TexFormatR8G8Unorm, TexFormatBC1UnormSRGB,
		TexFormatBC7UnormSRGB:
		return FourCCDX10
	case TexFormatBC1Unorm:
		return FourCCDXT1
	case TexFormatBC4Unorm:
		return FourCCBC4U
	case TexFormatBC5Unorm:
		return FourCCBC5U
	default:
		return FourCCUnknown
	}
}

// Extended reports whether f needs the DX10 header.
func (f TexFormat) Extended() bool {
	return f.FourCC() == FourCCDX10
}

// DXGI maps f to its DXGI_FORMAT.
func (f TexFormat) DXGI() DXGIFormat {
	switch f {
	case TexFormatR8G8B8A8Unorm:
		return DXGIFormatR8G8B8A8Unorm
	case TexFormatR8G8B8A8UnormSRGB:
		return DXGIFormatR8G8B8A8UnormSRGB
	case TexFormatR8G8Unorm:
		return DXGIFormatR8G8Unorm
	case TexFormatBC1Unorm:
		return DXGIFormatBC1Unorm
	case TexFormatBC1UnormSRGB:
		return DXGIFormatBC1UnormSRGB
	case TexFormatBC4Unorm:
		return DXGIFormatBC4Unorm
	case TexFormatBC5Unorm:
		return DXGIFormatBC5Unorm
	case TexFormatBC6HUF16:
		return DXGIFormatBC6HUF16
	case TexFormatBC7Unorm:
		return DXGIFormatBC7Unorm
	case TexFormatBC7UnormSRGB:
		return DXGIFormatBC7UnormSRGB
	default:
		return DXGIFormatUnknown
	}
}

// is4bpp and is16bpp classify formats for the pitch/linear-size field.
// Everything else is treated as one byte per pixel, which is only exact for
// BC5/BC7/BC6H at 8 bpp; the value is advisory for DDS readers.
func (f TexFormat) is4bpp() bool {
	return f == TexFormatBC1Unorm || f == TexFormatBC1UnormSRGB || f == TexFormatBC4Unorm
}

func (f TexFormat) is16bpp() bool {
	return f == TexFormatR8G8Unorm
}

// LinearSize returns the pitchOrLinearSize value written for a width x height texture.
func (f TexFormat) LinearSize(width, height uint32) uint32 {
	switch {
	case f.is4bpp():
		return width * height / 2
	case f.is16bpp():
		return width * height * 2
	default:
		return width * height
	}
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

func fourCCFromString(s string) uint32 {
	return makeFourCC(s[0], s[1], s[2], s[3])
}

func intToFourCC(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

// dxgiFromFourCC resolves a classic FourCC tag to a DXGI format.
func dxgiFromFourCC(fourCC string) DXGIFormat {
	switch fourCC {
	case "DXT1":
		return DXGIFormatBC1Unorm
	case "DXT2", "DXT3":
		return DXGIFormatBC2Unorm
	case "DXT4", "DXT5":
		return DXGIFormatBC3Unorm
	case "ATI1", "BC4U":
		return DXGIFormatBC4Unorm
	case "BC4S":
		return DXGIFormatBC4Snorm
	case "ATI2", "BC5U":
		return DXGIFormatBC5Unorm
	case "BC5S":
		return DXGIFormatBC5Snorm
	default:
		return DXGIFormatUnknown
	}
}

// bcnFormat maps a DXGI format to the bcn decoder format. sRGB variants share
// the texel layout of their linear counterparts.
func bcnFormat(f DXGIFormat) bcn.Format {
	switch f {
	case DXGIFormatBC1Unorm, DXGIFormatBC1UnormSRGB:
		return bcn.FormatDXT1
	case DXGIFormatBC2Unorm:
		return bcn.FormatDXT3
	case DXGIFormatBC3Unorm:
		return bcn.FormatDXT5
	case DXGIFormatBC4Unorm:
		return bcn.FormatBC4
	case DXGIFormatBC5Unorm:
		return bcn.FormatBC5
	case DXGIFormatR8G8B8A8Unorm, DXGIFormatR8G8B8A8UnormSRGB:
		return bcn.FormatRGBA8
	case DXGIFormatB8G8R8A8Unorm:
		return bcn.FormatBGRA8
	default:
		return bcn.FormatUnknown
	}
}

// isCompressed reports whether f stores 4x4 texel blocks.
func isCompressed(f DXGIFormat) bool {
	switch f {
	case DXGIFormatBC1Unorm, DXGIFormatBC1UnormSRGB, DXGIFormatBC2Unorm,
		DXGIFormatBC3Unorm, DXGIFormatBC4Unorm, DXGIFormatBC4Snorm,
		DXGIFormatBC5Unorm, DXGIFormatBC5Snorm, DXGIFormatBC6HUF16,
		DXGIFormatBC7Unorm, DXGIFormatBC7UnormSRGB:
		return true
	default:
		return false
	}
}

// planeSize returns the byte size of a width x height surface in f.
func planeSize(f DXGIFormat, width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	blocksW := width/4 + min(width%4, 1)
	blocksH := height/4 + min(height%4, 1)

	var (
		size int
		err  error
	)
	switch f {
	case DXGIFormatBC1Unorm, DXGIFormatBC1UnormSRGB, DXGIFormatBC4Unorm, DXGIFormatBC4Snorm:
		size, err = mulInt(blocksW, blocksH, 8)
	case DXGIFormatBC2Unorm, DXGIFormatBC3Unorm, DXGIFormatBC5Unorm, DXGIFormatBC5Snorm,
		DXGIFormatBC6HUF16, DXGIFormatBC7Unorm, DXGIFormatBC7UnormSRGB:
		size, err = mulInt(blocksW, blocksH, 16)
	case DXGIFormatR8G8B8A8Unorm, DXGIFormatR8G8B8A8UnormSRGB, DXGIFormatB8G8R8A8Unorm:
		size, err = mulInt(width, height, 4)
	case DXGIFormatR8G8Unorm:
		size, err = mulInt(width, height, 2)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s %dx%d", err, f, width, height)
	}

	return size, nil
}
