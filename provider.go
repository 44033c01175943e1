package texthumb

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// activeInstances counts live providers, factories and server locks.
var activeInstances atomic.Int64

// ActiveInstances returns the number of live providers and factories plus
// outstanding LockServer calls.
func ActiveInstances() int64 {
	return activeInstances.Load()
}

// CanUnload reports whether nothing keeps the module in use.
func CanUnload() bool {
	return ActiveInstances() == 0
}

// Capability names an interface an object can be queried for.
type Capability int

// Capabilities exposed by Provider and Factory.
const (
	CapabilityImageSource Capability = iota + 1
	CapabilityThumbnailProducer
	CapabilityClassFactory
)

func (c Capability) String() string {
	switch c {
	case CapabilityImageSource:
		return "ImageSource"
	case CapabilityThumbnailProducer:
		return "ThumbnailProducer"
	case CapabilityClassFactory:
		return "ClassFactory"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

// ImageSource binds the input stream of a preview request.
type ImageSource interface {
	Initialize(rs io.ReadSeeker) error
}

// ThumbnailProducer renders a thumbnail bounded by cx.
type ThumbnailProducer interface {
	GetThumbnail(cx int) (*Bitmap, AlphaType, error)
}

// Provider serves thumbnails for one .tex stream. It starts with a reference
// count of one; the final Release unbinds the stream.
type Provider struct {
	opts *Options
	refs atomic.Int64

	mu          sync.Mutex
	stream      io.ReadSeeker
	initialized bool
}

var (
	_ ImageSource       = (*Provider)(nil)
	_ ThumbnailProducer = (*Provider)(nil)
)

// NewProvider creates a provider holding one reference.
func NewProvider(opts *Options) *Provider {
	p := &Provider{opts: opts}
	p.refs.Store(1)
	activeInstances.Add(1)
	opts.logger().Debug("provider created")

	return p
}

// Initialize binds rs. A provider can be initialized only once.
func (p *Provider) Initialize(rs io.ReadSeeker) error {
	if rs == nil {
		return ErrNilStream
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.refs.Load() <= 0 {
		return ErrReleased
	}
	if p.initialized {
		p.opts.logger().Error("initialize called twice", slog.Any("error", ErrAlreadyInitialized))
		return ErrAlreadyInitialized
	}

	p.stream = rs
	p.initialized = true

	return nil
}

// GetThumbnail translates the bound stream and renders it bounded by cx.
func (p *Provider) GetThumbnail(cx int) (*Bitmap, AlphaType, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := p.opts.logger()
	log.Debug("get thumbnail", slog.Int("cx", cx))

	if p.refs.Load() <= 0 {
		return nil, AlphaUnknown, ErrReleased
	}
	if !p.initialized {
		return nil, AlphaUnknown, ErrNotInitialized
	}

	if _, err := p.stream.Seek(0, io.SeekStart); err != nil {
		err = fmt.Errorf("%w: %w", ErrSeekStart, err)
		log.Error("rewind stream", slog.Any("error", err))
		return nil, AlphaUnknown, err
	}

	return Thumbnail(p.stream, cx, p.opts)
}

// Query returns the object implementing c and takes a reference on success.
func (p *Provider) Query(c Capability) (any, error) {
	switch c {
	case CapabilityImageSource, CapabilityThumbnailProducer:
		p.AddRef()
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoInterface, c)
	}
}

// AddRef takes a reference and returns the new count.
func (p *Provider) AddRef() int64 {
	return p.refs.Add(1)
}

// Release drops a reference and returns the new count. Dropping the last
// reference unbinds the stream and decrements ActiveInstances.
func (p *Provider) Release() int64 {
	n := p.refs.Add(-1)
	if n == 0 {
		p.mu.Lock()
		p.stream = nil
		p.mu.Unlock()
		activeInstances.Add(-1)
	}

	return n
}

// Factory creates providers, mirroring a class factory.
type Factory struct {
	opts *Options
	refs atomic.Int64
}

// NewFactory creates a factory holding one reference.
func NewFactory(opts *Options) *Factory {
	f := &Factory{opts: opts}
	f.refs.Store(1)
	activeInstances.Add(1)

	return f
}

// CreateInstance creates a provider and returns it queried for c. Aggregation
// is not supported: outer must be nil.
func (f *Factory) CreateInstance(outer any, c Capability) (any, error) {
	if outer != nil {
		return nil, ErrNoAggregation
	}

	p := NewProvider(f.opts)
	obj, err := p.Query(c)
	p.Release()

	return obj, err
}

// LockServer pins or unpins the module in memory.
func (f *Factory) LockServer(lock bool) {
	if lock {
		activeInstances.Add(1)
	} else {
		activeInstances.Add(-1)
	}
}

// Query returns the factory for CapabilityClassFactory and takes a reference.
func (f *Factory) Query(c Capability) (any, error) {
	if c != CapabilityClassFactory {
		return nil, fmt.Errorf("%w: %s", ErrNoInterface, c)
	}
	f.AddRef()

	return f, nil
}

// AddRef takes a reference and returns the new count.
func (f *Factory) AddRef() int64 {
	return f.refs.Add(1)
}

// Release drops a reference and returns the new count.
func (f *Factory) Release() int64 {
	n := f.refs.Add(-1)
	if n == 0 {
		activeInstances.Add(-1)
	}

	return n
}
