package icons

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

// DefaultHost serves the Material icon set
const DefaultHost = "fonts.gstatic.com"

// Default raster size for toolbar icons
const (
	DefaultWidth  = 18
	DefaultHeight = 18
)

// Key identifies a Material icon, e.g. "play_arrow"
type Key string

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ErrInvalidKey is returned for empty or malformed icon keys
var ErrInvalidKey = errors.New("invalid icon key")

// Validate rejects keys that cannot name a Material icon
func (k Key) Validate() error {
	if k == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if !keyPattern.MatchString(string(k)) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, string(k))
	}
	return nil
}

// URL returns the download address of the SVG source for key
func URL(host string, key Key) string {
	if host == "" {
		host = DefaultHost
	}
	return fmt.Sprintf("https://%s/s/i/materialicons/%s/v6/24px.svg?download=true",
		host, url.PathEscape(string(key)))
}

// Image is one encoded icon variant
type Image struct {
	Name string
	PNG  []byte
}

// DataURL renders the image as an embeddable data URL
func (i Image) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(i.PNG)
}

// RasterIcon holds both theme variants of one icon.
// Light is the icon as drawn (dark glyph), Dark is its negative for dark themes.
type RasterIcon struct {
	Light Image
	Dark  Image
}

// Variant picks the image for the requested theme
func (r RasterIcon) Variant(dark bool) Image {
	if dark {
		return r.Dark
	}
	return r.Light
}

// FetchError reports a failed fetch or decode of an icon source
type FetchError struct {
	Key Key
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch icon %q from %s: %v", string(e.Key), e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
