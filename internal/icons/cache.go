package icons

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Options configures a Cache
type Options struct {
	Host   string
	Width  int
	Height int
}

// DefaultOptions returns the stock Material icon settings
func DefaultOptions() Options {
	return Options{
		Host:   DefaultHost,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Store maps icon keys to their rendered variants. Entries are never evicted.
type Store struct {
	mu    sync.RWMutex
	icons map[Key]RasterIcon
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{icons: make(map[Key]RasterIcon)}
}

// Load returns the icon stored under key
func (s *Store) Load(key Key) (RasterIcon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	icon, ok := s.icons[key]
	return icon, ok
}

// Save stores icon under key
func (s *Store) Save(key Key, icon RasterIcon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.icons[key] = icon
}

// Len returns the number of stored icons
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.icons)
}

// Cache resolves icon keys to themed bitmaps, loading each key at most once.
// Concurrent misses on the same key share a single fetch.
type Cache struct {
	logger     zerolog.Logger
	fetcher    Fetcher
	rasterizer Rasterizer
	opts       Options
	store      *Store
	flights    singleflight.Group
}

// New creates an icon cache backed by its own empty store
func New(logger zerolog.Logger, fetcher Fetcher, rasterizer Rasterizer, opts Options) *Cache {
	return NewWithStore(logger, fetcher, rasterizer, opts, NewStore())
}

// NewWithStore creates an icon cache over an existing store
func NewWithStore(logger zerolog.Logger, fetcher Fetcher, rasterizer Rasterizer, opts Options, store *Store) *Cache {
	def := DefaultOptions()
	if opts.Host == "" {
		opts.Host = def.Host
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if fetcher == nil {
		fetcher = NewHTTPFetcher(0)
	}
	if rasterizer == nil {
		rasterizer = SVGRasterizer{}
	}

	return &Cache{
		logger:     logger.With().Str("component", "icons").Logger(),
		fetcher:    fetcher,
		rasterizer: rasterizer,
		opts:       opts,
		store:      store,
	}
}

// Get returns the dark or light variant of the icon named key
func (c *Cache) Get(ctx context.Context, key Key, dark bool) (Image, error) {
	icon, err := c.Icon(ctx, key)
	if err != nil {
		return Image{}, err
	}
	return icon.Variant(dark), nil
}

// Icon returns both variants of the icon named key, loading it on first use
func (c *Cache) Icon(ctx context.Context, key Key) (RasterIcon, error) {
	if err := key.Validate(); err != nil {
		return RasterIcon{}, err
	}

	if icon, ok := c.store.Load(key); ok {
		return icon, nil
	}

	// The flight must not die with whichever caller started it
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(string(key), func() (interface{}, error) {
		return c.load(flightCtx, key)
	})

	select {
	case <-ctx.Done():
		return RasterIcon{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return RasterIcon{}, res.Err
		}
		return res.Val.(RasterIcon), nil
	}
}

// Has reports whether key is already cached
func (c *Cache) Has(key Key) bool {
	_, ok := c.store.Load(key)
	return ok
}

// Len returns the number of cached icons
func (c *Cache) Len() int {
	return c.store.Len()
}

func (c *Cache) load(ctx context.Context, key Key) (RasterIcon, error) {
	// A previous flight may have finished between the lookup and this one
	if icon, ok := c.store.Load(key); ok {
		return icon, nil
	}

	url := URL(c.opts.Host, key)
	c.logger.Debug().
		Str("icon", string(key)).
		Str("url", url).
		Msg("fetching icon")

	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		c.logger.Warn().Err(err).Str("icon", string(key)).Msg("icon fetch failed")
		return RasterIcon{}, &FetchError{Key: key, URL: url, Err: err}
	}

	img, err := c.rasterizer.Rasterize(data, c.opts.Width, c.opts.Height)
	if err != nil {
		c.logger.Warn().Err(err).Str("icon", string(key)).Msg("icon decode failed")
		return RasterIcon{}, &FetchError{Key: key, URL: url, Err: err}
	}

	icon, err := render(key, img)
	if err != nil {
		return RasterIcon{}, err
	}

	c.store.Save(key, icon)
	c.logger.Debug().
		Str("icon", string(key)).
		Int("cached", c.store.Len()).
		Msg("icon cached")

	return icon, nil
}

// render encodes img as the light variant and its negative as the dark one
func render(key Key, img *image.NRGBA) (RasterIcon, error) {
	light, err := Encode(string(key)+".png", img)
	if err != nil {
		return RasterIcon{}, err
	}

	neg := &image.NRGBA{
		Pix:    append([]uint8(nil), img.Pix...),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	Invert(neg)
	dark, err := Encode(string(key)+"_dark.png", neg)
	if err != nil {
		return RasterIcon{}, fmt.Errorf("dark variant: %w", err)
	}

	return RasterIcon{Light: light, Dark: dark}, nil
}
