package texthumb

import "errors"

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrOpenFile indicates opening a .tex file failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrSeekStart indicates rewinding the stream to its start failed.
	ErrSeekStart = errors.New("seek to stream start failed")
	// ErrReadHeader indicates the .tex header read failed.
	ErrReadHeader = errors.New("reading tex header failed")
	// ErrUnknownFormat indicates the .tex header carries the unknown pixel format.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrInvalidDimensions indicates a zero texture width or height.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrSeekDataOffset indicates seeking to the data offset field failed.
	ErrSeekDataOffset = errors.New("seek to data offset failed")
	// ErrReadDataOffset indicates reading the data offset field failed.
	ErrReadDataOffset = errors.New("reading data offset failed")
	// ErrStatStream indicates the stream length could not be determined.
	ErrStatStream = errors.New("stat stream failed")
	// ErrDataOffsetOutOfRange indicates the data offset points outside the stream.
	ErrDataOffsetOutOfRange = errors.New("data offset out of range")
	// ErrSeekPayload indicates seeking to the pixel payload failed.
	ErrSeekPayload = errors.New("seek to payload failed")
	// ErrReadPayload indicates reading the pixel payload failed.
	ErrReadPayload = errors.New("reading payload failed")
	// ErrWriteDDSMagic indicates DDS magic write failed.
	ErrWriteDDSMagic = errors.New("writing DDS magic failed")
	// ErrWriteDDSHeader indicates DDS header write failed.
	ErrWriteDDSHeader = errors.New("writing DDS header failed")
	// ErrWriteDX10Header indicates DDS DX10 header write failed.
	ErrWriteDX10Header = errors.New("writing DDS DX10 header failed")
	// ErrWriteContainer indicates writing the container bytes failed.
	ErrWriteContainer = errors.New("writing container failed")
	// ErrLZ4Compress indicates LZ4 frame compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")

	// ErrDDSMagic indicates the buffer does not start with "DDS ".
	ErrDDSMagic = errors.New("missing DDS magic")
	// ErrDDSHeaderRead indicates DDS header read failed.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSDX10Read indicates DDS DX10 header read failed.
	ErrDDSDX10Read = errors.New("reading DDS DX10 header failed")
	// ErrUnsupportedFormat indicates the imaging backend cannot handle a format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrPayloadTruncated indicates the payload is shorter than the top-level plane.
	ErrPayloadTruncated = errors.New("payload truncated")
	// ErrDecode indicates the container could not be decoded.
	ErrDecode = errors.New("decode image failed")
	// ErrDecompress indicates block decompression failed.
	ErrDecompress = errors.New("decompress image failed")
	// ErrConvert indicates pixel format conversion failed.
	ErrConvert = errors.New("convert image failed")
	// ErrResize indicates resizing failed.
	ErrResize = errors.New("resize image failed")
	// ErrInvalidEdge indicates a non-positive requested edge length.
	ErrInvalidEdge = errors.New("invalid thumbnail edge")
	// ErrNoImage indicates the resized result has no top-level plane.
	ErrNoImage = errors.New("failed to get image")
	// ErrBitmap indicates the output bitmap could not be created.
	ErrBitmap = errors.New("failed to create bitmap")

	// ErrAlreadyInitialized indicates Initialize was called twice.
	ErrAlreadyInitialized = errors.New("already initialized")
	// ErrNotInitialized indicates GetThumbnail was called before Initialize.
	ErrNotInitialized = errors.New("not initialized")
	// ErrNilStream indicates Initialize received a nil stream.
	ErrNilStream = errors.New("nil stream")
	// ErrNoInterface indicates a capability the object does not provide.
	ErrNoInterface = errors.New("no such interface")
	// ErrNoAggregation indicates an aggregating outer object was passed.
	ErrNoAggregation = errors.New("class does not support aggregation")
	// ErrReleased indicates use of an object whose reference count reached zero.
	ErrReleased = errors.New("object released")
)

// IsIOError reports whether err is a stream read, seek or stat failure.
func IsIOError(err error) bool {
	for _, target := range []error{
		ErrSeekStart, ErrReadHeader, ErrSeekDataOffset, ErrReadDataOffset,
		ErrStatStream, ErrSeekPayload, ErrReadPayload,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// IsFormatError reports whether err comes from an unrecognized or unusable
// source header.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrInvalidDimensions) ||
		errors.Is(err, ErrDataOffsetOutOfRange)
}

// IsUsageError reports whether err is a lifecycle misuse.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrAlreadyInitialized) ||
		errors.Is(err, ErrNotInitialized) ||
		errors.Is(err, ErrNilStream) ||
		errors.Is(err, ErrReleased)
}
