//go:build windows

package texthumb

import (
	"log/slog"

	"golang.org/x/sys/windows"
)

// GetThumbnailHBITMAP renders like GetThumbnail and returns the result as a
// GDI bitmap handle. The caller frees it with DeleteHBITMAP.
func (p *Provider) GetThumbnailHBITMAP(cx int) (windows.Handle, AlphaType, error) {
	bmp, alpha, err := p.GetThumbnail(cx)
	if err != nil {
		return 0, AlphaUnknown, err
	}

	h, err := bmp.HBITMAP()
	if err != nil {
		p.opts.logger().Error("create HBITMAP", slog.Any("error", err))
		return 0, AlphaUnknown, err
	}

	return h, alpha, nil
}
