package texthumb

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
	"io/fs"
	"testing"

	"github.com/woozymasta/bcn"
)

const testDataOffset = 0xC0

// buildTex assembles a .tex stream with the payload stored at testDataOffset.
func buildTex(t testing.TB, format TexFormat, width, height uint32, mips int32, payload []byte) []byte {
	t.Helper()

	h := Header{
		Magic:        [4]byte{'T', 'E', 'X', 0},
		Version:      0x0102,
		DataBlock:    1,
		Type:         2,
		MipCount:     mips,
		Width:        width,
		Height:       height,
		MipListCount: mips,
		Format:       format,
	}
	hdr, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	buf := make([]byte, testDataOffset, testDataOffset+len(payload))
	copy(buf, hdr)
	for i := HeaderSize; i < DataOffsetPosition; i++ {
		buf[i] = 0xEE // metadata skipped by the translator
	}
	binary.LittleEndian.PutUint64(buf[DataOffsetPosition:], testDataOffset)

	return append(buf, payload...)
}

// solidImage returns a width x height image filled with c.
func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	return img
}

// encodeBlocks compresses img with the bcn encoder.
func encodeBlocks(t testing.TB, img image.Image, format bcn.Format) []byte {
	t.Helper()

	data, _, _, err := bcn.EncodeImageWithOptions(img, format, nil)
	if err != nil {
		t.Fatalf("EncodeImageWithOptions(%v): %v", format, err)
	}

	return data
}

// countingReadSeeker records calls made against the wrapped stream.
type countingReadSeeker struct {
	rs    io.ReadSeeker
	reads int
	seeks int
}

func (c *countingReadSeeker) Read(p []byte) (int, error) {
	c.reads++
	return c.rs.Read(p)
}

func (c *countingReadSeeker) Seek(offset int64, whence int) (int64, error) {
	c.seeks++
	return c.rs.Seek(offset, whence)
}

var errInjected = errors.New("injected failure")

// failingSeeker reads normally but fails every seek.
type failingSeeker struct {
	io.Reader
}

func (failingSeeker) Seek(int64, int) (int64, error) {
	return 0, errInjected
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}

	return int(b - a)
}

// flakyStream fails the failRead-th Read or failSeek-th Seek (1-based).
type flakyStream struct {
	rs       io.ReadSeeker
	reads    int
	seeks    int
	failRead int
	failSeek int
}

func (f *flakyStream) Read(p []byte) (int, error) {
	f.reads++
	if f.reads == f.failRead {
		return 0, errInjected
	}
	return f.rs.Read(p)
}

func (f *flakyStream) Seek(offset int64, whence int) (int64, error) {
	f.seeks++
	if f.seeks == f.failSeek {
		return 0, errInjected
	}
	return f.rs.Seek(offset, whence)
}

// statFailStream exposes a Stat method that always fails.
type statFailStream struct {
	io.ReadSeeker
}

func (statFailStream) Stat() (fs.FileInfo, error) {
	return nil, errInjected
}
