package texthumb

import (
	"image/color"
	"log/slog"

	"github.com/woozymasta/bcn"
)

// DefaultThreshold is the alpha threshold passed to Convert, matching the
// 0.5 cut-off used when quantizing alpha to one bit.
const DefaultThreshold float32 = 0.5

// TransparentBlack is the background the thumbnail is composited over.
var TransparentBlack = color.NRGBA{}

// Options configures translation and rendering. A nil *Options and zero
// fields select the defaults.
type Options struct {
	// Logger receives stage diagnostics. Nil discards them.
	Logger *slog.Logger
	// Imaging is the decode/convert/resize backend. Nil uses BCNImaging.
	Imaging Imaging
	// DecodeOptions are passed to the BCn decoder of the default backend.
	DecodeOptions *bcn.DecodeOptions
	// Filter selects the resize filter.
	Filter Filter
	// Threshold is the alpha threshold handed to Convert. Zero uses DefaultThreshold.
	Threshold float32
	// Background is the color the bitmap is composited over.
	Background color.NRGBA
}

// DefaultOptions returns options with every default spelled out.
func DefaultOptions() *Options {
	return &Options{
		Imaging:    &BCNImaging{},
		Filter:     FilterDefault,
		Threshold:  DefaultThreshold,
		Background: TransparentBlack,
	}
}

var discardLogger = slog.New(slog.DiscardHandler)

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return discardLogger
	}

	return o.Logger
}

func (o *Options) imaging() Imaging {
	if o == nil || o.Imaging == nil {
		var decOpts *bcn.DecodeOptions
		if o != nil {
			decOpts = o.DecodeOptions
		}
		return &BCNImaging{DecodeOptions: decOpts}
	}

	return o.Imaging
}

func (o *Options) filter() Filter {
	if o == nil {
		return FilterDefault
	}

	return o.Filter
}

func (o *Options) threshold() float32 {
	if o == nil || o.Threshold == 0 {
		return DefaultThreshold
	}

	return o.Threshold
}

func (o *Options) background() color.NRGBA {
	if o == nil {
		return TransparentBlack
	}

	return o.Background
}
