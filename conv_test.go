package texthumb

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestMulInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		factors []int
		want    int
		wantErr error
	}{
		{name: "empty", factors: nil, want: 1},
		{name: "small", factors: []int{64, 32, 4}, want: 8192},
		{name: "zero", factors: []int{0, math.MaxInt}, want: 0},
		{name: "max", factors: []int{math.MaxInt, 1}, want: math.MaxInt},
		{name: "negative", factors: []int{-1, 4}, wantErr: ErrSizeOverflow},
		{name: "wraps", factors: []int{math.MaxInt/2 + 1, 2}, wantErr: ErrSizeOverflow},
		{name: "past-max", factors: []int{math.MaxInt, 2}, wantErr: ErrSizeOverflow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := mulInt(tc.factors...)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && got != tc.want {
				t.Fatalf("mulInt = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIntFromI64(t *testing.T) {
	t.Parallel()

	if n, err := intFromI64(1 << 20); err != nil || n != 1<<20 {
		t.Fatalf("intFromI64 = %d, %v", n, err)
	}
	if _, err := intFromI64(-1); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}
}

func TestPlaneSizeTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		format        DXGIFormat
		width, height int
		want          int
		wantErr       error
	}{
		{name: "bc1-partial-blocks", format: DXGIFormatBC1Unorm, width: 5, height: 3, want: 2 * 1 * 8},
		{name: "bc7", format: DXGIFormatBC7Unorm, width: 8, height: 8, want: 4 * 16},
		{name: "rgba8", format: DXGIFormatR8G8B8A8Unorm, width: 3, height: 2, want: 24},
		{name: "rg8", format: DXGIFormatR8G8Unorm, width: 3, height: 2, want: 12},
		{name: "unsupported", format: DXGIFormatUnknown, width: 4, height: 4, wantErr: ErrUnsupportedFormat},
		{name: "negative", format: DXGIFormatBC1Unorm, width: -4, height: 4, wantErr: ErrInvalidDimensions},
		{name: "rgba8-wraps", format: DXGIFormatR8G8B8A8Unorm, width: math.MaxInt / 2, height: 3, wantErr: ErrSizeOverflow},
		{name: "bc3-wraps", format: DXGIFormatBC3Unorm, width: math.MaxInt, height: math.MaxInt, wantErr: ErrSizeOverflow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := planeSize(tc.format, tc.width, tc.height)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && got != tc.want {
				t.Fatalf("planeSize = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestThumbnailRejectsOverflowingDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		format        TexFormat
		width, height uint32
	}{
		{name: "rgba8", format: TexFormatR8G8B8A8Unorm, width: 4 * (1<<29 + 1<<15 + 1), height: 4 * (1<<29 - 1<<15 + 1)},
		{name: "bc1", format: TexFormatBC1Unorm, width: math.MaxUint32 - 3, height: math.MaxUint32 - 3},
		{name: "bc7", format: TexFormatBC7Unorm, width: math.MaxUint32, height: math.MaxUint32},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := buildTex(t, tc.format, tc.width, tc.height, 1, make([]byte, 64))
			b, _, err := Thumbnail(bytes.NewReader(src), 96, nil)
			if b != nil {
				t.Fatal("bitmap returned for overflowing dimensions")
			}
			if !errors.Is(err, ErrDecode) || !errors.Is(err, ErrSizeOverflow) {
				t.Fatalf("expected ErrDecode wrapping ErrSizeOverflow, got %v", err)
			}
		})
	}
}

func TestExpandRG8Bounds(t *testing.T) {
	t.Parallel()

	if _, err := expandRG8(&Surface{Width: math.MaxInt / 2, Height: 2, RowPitch: 0}); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}
	if _, err := expandRG8(&Surface{Width: 4, Height: 4, RowPitch: 8, Pix: make([]byte, 16)}); !errors.Is(err, ErrPayloadTruncated) {
		t.Fatalf("expected ErrPayloadTruncated, got %v", err)
	}
}

func TestThumbnailSizeOverflow(t *testing.T) {
	t.Parallel()

	if _, _, err := ThumbnailSize(1, 1<<30, 1<<16); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}
}

func TestFailuresAreLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := &Options{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	src := buildTex(t, TexFormatBC1Unorm, 4, 4, 1, make([]byte, 8))
	badOffset := bytes.Clone(src)
	badOffset[DataOffsetPosition] = 0xFF
	if _, err := Translate(bytes.NewReader(badOffset), opts); !errors.Is(err, ErrDataOffsetOutOfRange) {
		t.Fatalf("expected ErrDataOffsetOutOfRange, got %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "payload bounds") {
		t.Fatalf("failure not logged: %q", out)
	}

	buf.Reset()
	src = buildTex(t, TexFormatBC1Unorm, 8, 8, 3, make([]byte, 32))
	if _, _, err := Thumbnail(bytes.NewReader(src), 4, opts); err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "declared_mips=3") {
		t.Fatalf("declared mip count not logged: %q", out)
	}
}
