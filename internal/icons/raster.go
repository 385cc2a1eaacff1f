package icons

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
)

// Rasterizer decodes an icon source into a fixed-size pixel grid
type Rasterizer interface {
	Rasterize(data []byte, width, height int) (*image.NRGBA, error)
}

// SVGRasterizer draws SVG payloads and scales bitmap payloads
type SVGRasterizer struct{}

// Rasterize implements Rasterizer
func (SVGRasterizer) Rasterize(data []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty image data")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		return rasterizeBitmap(data, width, height)
	}
	if isSVG(data) {
		return rasterizeSVG(data, width, height)
	}
	return nil, fmt.Errorf("failed to decode image: %w", image.ErrFormat)
}

// isSVG reports whether the first element of data is <svg>, skipping any
// prolog, doctype or comments before it
func isSVG(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if el, ok := tok.(xml.StartElement); ok {
			return el.Name.Local == "svg"
		}
	}
}

func rasterizeSVG(data []byte, width, height int) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, errors.New("svg has no view box")
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return toNRGBA(rgba), nil
}

func rasterizeBitmap(data []byte, width, height int) (*image.NRGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if src.Bounds().Dx() != width || src.Bounds().Dy() != height {
		src = resize.Resize(uint(width), uint(height), src, resize.Bilinear)
	}
	return toNRGBA(src), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

// Invert replaces R, G and B of every pixel with 255-c, keeping alpha.
// Pixels are visited row by row.
func Invert(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			px[0] = 255 - px[0]
			px[1] = 255 - px[1]
			px[2] = 255 - px[2]
		}
	}
}

// Encode writes img as PNG
func Encode(name string, img image.Image) (Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return Image{Name: name, PNG: buf.Bytes()}, nil
}

// Decode reads an encoded variant back into pixels
func Decode(img Image) (*image.NRGBA, error) {
	src, err := png.Decode(bytes.NewReader(img.PNG))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", img.Name, err)
	}
	if n, ok := src.(*image.NRGBA); ok {
		return n, nil
	}
	return toNRGBA(src), nil
}
