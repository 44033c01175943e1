package texthumb

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
)

const (
	// HeaderSize is the packed size of the .tex header.
	HeaderSize = 40
	// DataOffsetPosition is the absolute position of the int64 payload offset.
	DataOffsetPosition = 0xB8
)

// Header is the fixed .tex header found at the start of the stream.
type Header struct {
	Magic        [4]byte
	Version      int64
	DataBlock    int32
	Type         int32
	MipCount     int32
	Width        uint32
	Height       uint32
	MipListCount int32
	Format       TexFormat
}

// ReadHeader reads the packed .tex header from the current position of r.
func ReadHeader(r io.Reader) (*Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadHeader, err)
	}

	h := &Header{
		Version:      int64(binary.LittleEndian.Uint64(buf[4:12])),  // #nosec G115 -- bit cast.
		DataBlock:    int32(binary.LittleEndian.Uint32(buf[12:16])), // #nosec G115 -- bit cast.
		Type:         int32(binary.LittleEndian.Uint32(buf[16:20])), // #nosec G115 -- bit cast.
		MipCount:     int32(binary.LittleEndian.Uint32(buf[20:24])), // #nosec G115 -- bit cast.
		Width:        binary.LittleEndian.Uint32(buf[24:28]),
		Height:       binary.LittleEndian.Uint32(buf[28:32]),
		MipListCount: int32(binary.LittleEndian.Uint32(buf[32:36])), // #nosec G115 -- bit cast.
		Format:       TexFormat(binary.LittleEndian.Uint32(buf[36:40])),
	}
	copy(h.Magic[:], buf[0:4])

	return h, nil
}

// MarshalBinary encodes h in the packed on-disk layout.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint64(buf[4:12], uint64(h.Version))    // #nosec G115 -- bit cast.
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.DataBlock)) // #nosec G115 -- bit cast.
	binary.LittleEndian.PutUint32(buf[16:20], uint32(h.Type))      // #nosec G115 -- bit cast.
	binary.LittleEndian.PutUint32(buf[20:24], uint32(h.MipCount))  // #nosec G115 -- bit cast.
	binary.LittleEndian.PutUint32(buf[24:28], h.Width)
	binary.LittleEndian.PutUint32(buf[28:32], h.Height)
	binary.LittleEndian.PutUint32(buf[32:36], uint32(h.MipListCount)) // #nosec G115 -- bit cast.
	binary.LittleEndian.PutUint32(buf[36:40], uint32(h.Format))

	return buf, nil
}

// Validate rejects headers the pipeline cannot translate.
func (h *Header) Validate() error {
	if !h.Format.Known() {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, h.Format)
	}
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}

	return nil
}

// MipLevel describes the dimensions of one mip level.
type MipLevel struct {
	Level  int
	Width  int
	Height int
}

// MipLevels lists the mip chain declared by the header, largest first.
// A non-positive MipCount is reported as a single level.
func (h *Header) MipLevels() []MipLevel {
	count := int(h.MipCount)
	if count < 1 {
		count = 1
	}
	if limit := calculateMipMapCount(int(h.Width), int(h.Height)); count > limit {
		count = limit
	}

	levels := make([]MipLevel, count)
	for i := range levels {
		levels[i] = MipLevel{
			Level:  i,
			Width:  mipDimension(int(h.Width), i),
			Height: mipDimension(int(h.Height), i),
		}
	}

	return levels
}

// readDataOffset seeks to DataOffsetPosition and reads the payload offset.
func readDataOffset(r io.ReadSeeker) (int64, error) {
	if _, err := r.Seek(DataOffsetPosition, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSeekDataOffset, err)
	}

	var offset int64
	if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrReadDataOffset, err)
	}

	return offset, nil
}

// streamLength returns the total size of r. Streams exposing Stat (such as
// *os.File) are asked directly, others are measured by seeking to the end.
func streamLength(r io.Seeker) (int64, error) {
	if st, ok := r.(interface{ Stat() (fs.FileInfo, error) }); ok {
		fi, err := st.Stat()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrStatStream, err)
		}
		return fi.Size(), nil
	}

	n, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStatStream, err)
	}

	return n, nil
}
