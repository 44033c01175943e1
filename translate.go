package texthumb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pierrec/lz4/v4"
	"github.com/woozymasta/bcn"
)

const (
	ddsMagicSize       = 4
	ddsHeaderSize      = 124
	ddsPixelFormatSize = 32
	dx10HeaderSize     = 20

	// ClassicHeaderSize is the "DDS " magic plus the classic header.
	ClassicHeaderSize = ddsMagicSize + ddsHeaderSize
	// ExtendedHeaderSize adds the DX10 header to ClassicHeaderSize.
	ExtendedHeaderSize = ClassicHeaderSize + dx10HeaderSize

	resourceDimensionTexture2D = 3
)

// dx10Header mirrors DDS_HEADER_DXT10.
type dx10Header struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// Container is a DDS image synthesized from a .tex stream: the DDS magic,
// the classic header, the optional DX10 header and the raw payload.
type Container struct {
	source     Header
	dataOffset int64
	headerSize int
	data       []byte
}

// Bytes returns the full DDS buffer. The slice is shared with c.
func (c *Container) Bytes() []byte { return c.data }

// Payload returns the raw pixel bytes following the DDS headers.
func (c *Container) Payload() []byte { return c.data[c.headerSize:] }

// HeaderSize returns the size of the synthesized DDS headers including magic.
func (c *Container) HeaderSize() int { return c.headerSize }

// Extended reports whether the container carries a DX10 header.
func (c *Container) Extended() bool { return c.headerSize == ExtendedHeaderSize }

// Source returns the .tex header the container was built from.
func (c *Container) Source() Header { return c.source }

// DataOffset returns the payload offset read from the .tex stream.
func (c *Container) DataOffset() int64 { return c.dataOffset }

// WriteTo writes the DDS buffer to w.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.data)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrWriteContainer, err)
	}

	return int64(n), nil
}

// WriteLZ4 writes the DDS buffer to w as an LZ4 frame.
func (c *Container) WriteLZ4(w io.Writer) error {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
		return fmt.Errorf("%w: %w", ErrLZ4Compress, err)
	}
	if _, err := zw.Write(c.data); err != nil {
		return fmt.Errorf("%w: %w", ErrLZ4Compress, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrLZ4Compress, err)
	}

	return nil
}

// TranslateFile opens path and translates it with Translate.
func TranslateFile(path string, opts *Options) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return Translate(f, opts)
}

// Translate reads a .tex header and payload from r and builds the equivalent
// DDS container. The header is read from the current position of r; the
// data offset and payload are located with absolute seeks.
func Translate(r io.ReadSeeker, opts *Options) (*Container, error) {
	log := opts.logger()

	header, err := ReadHeader(r)
	if err != nil {
		log.Error("read tex header", slog.Any("error", err))
		return nil, err
	}
	if err := header.Validate(); err != nil {
		log.Error("validate tex header", slog.String("format", header.Format.String()), slog.Any("error", err))
		return nil, err
	}

	offset, err := readDataOffset(r)
	if err != nil {
		log.Error("read data offset", slog.Any("error", err))
		return nil, err
	}

	total, err := streamLength(r)
	if err != nil {
		log.Error("stat stream", slog.Any("error", err))
		return nil, err
	}
	if offset < 0 || offset > total {
		err := fmt.Errorf("%w: offset %d, stream length %d", ErrDataOffsetOutOfRange, offset, total)
		log.Error("payload bounds", slog.Any("error", err))
		return nil, err
	}

	payloadSize, err := intFromI64(total - offset)
	if err != nil {
		err = fmt.Errorf("%w: payload of %d bytes", err, total-offset)
		log.Error("payload size", slog.Any("error", err))
		return nil, err
	}

	headerSize := ClassicHeaderSize
	if header.Format.Extended() {
		headerSize = ExtendedHeaderSize
	}

	data := make([]byte, headerSize+payloadSize)
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		err = fmt.Errorf("%w: %w", ErrSeekPayload, err)
		log.Error("seek payload", slog.Any("error", err))
		return nil, err
	}
	if _, err := io.ReadFull(r, data[headerSize:]); err != nil {
		err = fmt.Errorf("%w: %w", ErrReadPayload, err)
		log.Error("read payload", slog.Any("error", err))
		return nil, err
	}

	hdr, err := encodeDDSHeaders(header)
	if err != nil {
		log.Error("encode DDS header", slog.Any("error", err))
		return nil, err
	}
	copy(data, hdr)

	log.Debug("translated tex header",
		slog.String("format", header.Format.String()),
		slog.String("fourcc", header.Format.FourCC()),
		slog.Uint64("width", uint64(header.Width)),
		slog.Uint64("height", uint64(header.Height)),
		slog.Int64("data_offset", offset),
		slog.Int("payload", payloadSize),
	)

	return &Container{
		source:     *header,
		dataOffset: offset,
		headerSize: headerSize,
		data:       data,
	}, nil
}

// makeDDSHeader fills the classic DDS header for a .tex header.
func makeDDSHeader(h *Header) *bcn.DDSHeader {
	hdr := &bcn.DDSHeader{
		Size: ddsHeaderSize,
		Flags: uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth |
			bcn.DDSFlagPixelFormat | bcn.DDSFlagMipmapCount | bcn.DDSFlagLinearSize),
		Height:            h.Height,
		Width:             h.Width,
		PitchOrLinearSize: h.Format.LinearSize(h.Width, h.Height),
		Depth:             1,
		MipMapCount:       uint32(h.MipCount), // #nosec G115 -- copied verbatim.
		Caps:              uint32(bcn.DDSCapsComplex | bcn.DDSCapsMipmap | bcn.DDSCapsTexture),
	}
	hdr.PixelFormat.Size = ddsPixelFormatSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC
	hdr.PixelFormat.FourCC = fourCCFromString(h.Format.FourCC())

	return hdr
}

// encodeDDSHeaders returns the DDS magic, classic header and, for extended
// formats, the DX10 header.
func encodeDDSHeaders(h *Header) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(ExtendedHeaderSize)

	if err := bcn.WriteDDSMagic(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteDDSMagic, err)
	}
	if err := bcn.WriteDDSHeader(&buf, makeDDSHeader(h)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteDDSHeader, err)
	}
	if buf.Len() != ClassicHeaderSize {
		return nil, fmt.Errorf("%w: wrote %d bytes, want %d", ErrWriteDDSHeader, buf.Len(), ClassicHeaderSize)
	}

	if h.Format.Extended() {
		ext := dx10Header{
			DXGIFormat:        uint32(h.Format.DXGI()),
			ResourceDimension: resourceDimensionTexture2D,
			ArraySize:         1,
		}
		if err := binary.Write(&buf, binary.LittleEndian, &ext); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteDX10Header, err)
		}
	}

	return buf.Bytes(), nil
}
