//go:build windows

package texthumb

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	gdi32 = windows.NewLazySystemDLL("gdi32.dll")

	procCreateDIBSection = gdi32.NewProc("CreateDIBSection")
	procDeleteObject     = gdi32.NewProc("DeleteObject")
)

const dibRGBColors = 0

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// HBITMAP creates a top-down 32-bit GDI DIB section holding the bitmap pixels.
// The caller owns the handle and frees it with DeleteHBITMAP.
func (b *Bitmap) HBITMAP() (windows.Handle, error) {
	if b.Width <= 0 || b.Height <= 0 || b.Width > math.MaxInt32 || b.Height > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %dx%d", ErrBitmap, b.Width, b.Height)
	}
	size, err := mulInt(b.Width, b.Height, 4)
	if err != nil || uint64(size) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %dx%d", ErrSizeOverflow, b.Width, b.Height)
	}
	if need := b.Stride*(b.Height-1) + b.Width*4; b.Stride < b.Width*4 || len(b.Pix) < need {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrPayloadTruncated, need, len(b.Pix))
	}

	bmi := bitmapInfoHeader{
		Size:      uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		Width:     int32(b.Width),   // #nosec G115 -- bounded above.
		Height:    -int32(b.Height), // #nosec G115 -- negative height selects top-down rows.
		Planes:    1,
		BitCount:  32,
		SizeImage: uint32(size), // #nosec G115 -- bounded above.
	}

	var bits unsafe.Pointer
	r, _, callErr := procCreateDIBSection.Call(
		0,
		uintptr(unsafe.Pointer(&bmi)),
		dibRGBColors,
		uintptr(unsafe.Pointer(&bits)),
		0,
		0,
	)
	if r == 0 || bits == nil {
		return 0, fmt.Errorf("%w: CreateDIBSection: %v", ErrBitmap, callErr)
	}

	dst := unsafe.Slice((*byte)(bits), size)
	for y := 0; y < b.Height; y++ {
		copy(dst[y*b.Width*4:(y+1)*b.Width*4], b.Pix[y*b.Stride:y*b.Stride+b.Width*4])
	}

	return windows.Handle(r), nil
}

// DeleteHBITMAP frees a handle returned by Bitmap.HBITMAP.
func DeleteHBITMAP(h windows.Handle) {
	_, _, _ = procDeleteObject.Call(uintptr(h))
}
