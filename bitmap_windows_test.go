//go:build windows

package texthumb

import (
	"bytes"
	"errors"
	"testing"
)

func TestBitmapHBITMAP(t *testing.T) {
	t.Parallel()

	b, err := NewBitmap(4, 2, 16, bytes.Repeat([]byte{10, 20, 30, 255}, 8), TransparentBlack)
	if err != nil {
		t.Fatalf("NewBitmap: %v", err)
	}

	h, err := b.HBITMAP()
	if err != nil {
		t.Fatalf("HBITMAP: %v", err)
	}
	if h == 0 {
		t.Fatal("HBITMAP returned a zero handle")
	}
	DeleteHBITMAP(h)

	if _, err := (&Bitmap{}).HBITMAP(); !errors.Is(err, ErrBitmap) {
		t.Fatalf("expected ErrBitmap, got %v", err)
	}
	short := &Bitmap{Width: 4, Height: 2, Stride: 16, Pix: make([]byte, 8)}
	if _, err := short.HBITMAP(); !errors.Is(err, ErrPayloadTruncated) {
		t.Fatalf("expected ErrPayloadTruncated, got %v", err)
	}
}

// Observes the process-wide instance counter; not parallel.
func TestProviderGetThumbnailHBITMAP(t *testing.T) {
	before := ActiveInstances()

	p := NewProvider(nil)
	src := buildTex(t, TexFormatR8G8B8A8Unorm, 8, 4, 1, bytes.Repeat([]byte{0, 0, 255, 255}, 8*4))
	if err := p.Initialize(bytes.NewReader(src)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	h, alpha, err := p.GetThumbnailHBITMAP(4)
	if err != nil {
		t.Fatalf("GetThumbnailHBITMAP: %v", err)
	}
	if h == 0 || alpha != AlphaARGB {
		t.Fatalf("handle=%v alpha=%s", h, alpha)
	}
	DeleteHBITMAP(h)

	p.Release()
	if got := ActiveInstances(); got != before {
		t.Fatalf("ActiveInstances = %d, want %d", got, before)
	}
}
