package texthumb

import (
	"fmt"
	"io"
	"log/slog"
)

// Renderer turns a synthesized DDS container into a thumbnail bitmap.
type Renderer struct {
	opts *Options
}

// NewRenderer creates a renderer. Nil opts uses DefaultOptions.
func NewRenderer(opts *Options) *Renderer {
	if opts == nil {
		opts = DefaultOptions()
	}

	return &Renderer{opts: opts}
}

// Render decodes data, normalizes it to BGRA8, scales it with ThumbnailSize
// and returns the bitmap together with its alpha interpretation. Every stage
// fails fast; no partial preview is returned.
func (r *Renderer) Render(data []byte, cx int) (*Bitmap, AlphaType, error) {
	log := r.opts.logger()
	img := r.opts.imaging()

	md, scratch, err := img.Decode(data)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrDecode, err)
		log.Error("failed to load DDS", slog.Any("error", err))
		return nil, AlphaUnknown, err
	}

	log.Debug("converting image",
		slog.String("format", md.Format.String()),
		slog.Int("width", md.Width),
		slog.Int("height", md.Height),
		slog.Int("declared_mips", md.DeclaredMipLevels),
	)

	var converted *Scratch
	if img.IsCompressed(md.Format) {
		converted, err = img.Decompress(scratch, md, DXGIFormatB8G8R8A8Unorm)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrDecompress, err)
			log.Error("failed to decompress image", slog.Any("error", err))
			return nil, AlphaUnknown, err
		}
	} else {
		converted, err = img.Convert(scratch, md, DXGIFormatB8G8R8A8Unorm, FilterDefault, r.opts.threshold())
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrConvert, err)
			log.Error("failed to convert image", slog.Any("error", err))
			return nil, AlphaUnknown, err
		}
	}

	width, height, err := ThumbnailSize(md.Width, md.Height, cx)
	if err != nil {
		log.Error("thumbnail size", slog.Int("cx", cx), slog.Any("error", err))
		return nil, AlphaUnknown, err
	}

	log.Debug("resizing image", slog.Int("width", width), slog.Int("height", height))

	resized, err := img.Resize(converted, &converted.Metadata, width, height, r.opts.filter())
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrResize, err)
		log.Error("failed to resize image", slog.Any("error", err))
		return nil, AlphaUnknown, err
	}

	plane := resized.Image(0, 0)
	if plane == nil {
		log.Error("failed to get image")
		return nil, AlphaUnknown, ErrNoImage
	}

	bmp, err := NewBitmap(width, height, width*4, plane.Pix, r.opts.background())
	if err != nil {
		log.Error("failed to create bitmap", slog.Any("error", err))
		return nil, AlphaUnknown, ErrBitmap
	}

	log.Debug("thumbnail done", slog.Int("width", width), slog.Int("height", height))

	return bmp, AlphaARGB, nil
}

// RenderContainer renders a container produced by Translate.
func (r *Renderer) RenderContainer(c *Container, cx int) (*Bitmap, AlphaType, error) {
	return r.Render(c.Bytes(), cx)
}

// Thumbnail translates the .tex stream rs and renders a thumbnail bounded by cx.
func Thumbnail(rs io.ReadSeeker, cx int, opts *Options) (*Bitmap, AlphaType, error) {
	c, err := Translate(rs, opts)
	if err != nil {
		return nil, AlphaUnknown, err
	}

	return NewRenderer(opts).RenderContainer(c, cx)
}
