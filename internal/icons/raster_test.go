package icons

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const halfSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
<path d="M0 0h12v24H0z"/>
</svg>`

func TestRasterizeSVG(t *testing.T) {
	img, err := SVGRasterizer{}.Rasterize([]byte(halfSVG), 18, 18)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 18, 18), img.Bounds())

	left := img.NRGBAAt(3, 9)
	assert.Equal(t, uint8(255), left.A)
	assert.Equal(t, uint8(0), left.R)

	right := img.NRGBAAt(15, 9)
	assert.Equal(t, uint8(0), right.A)
}

func TestRasterizeSVGAfterLongProlog(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		"<!-- " + strings.Repeat("x", 600) + " -->\n" +
		`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` + "\n" +
		halfSVG
	require.Greater(t, strings.Index(doc, "<svg"), 512)

	img, err := SVGRasterizer{}.Rasterize([]byte(doc), 18, 18)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.NRGBAAt(3, 9).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(15, 9).A)
}

func TestIsSVG(t *testing.T) {
	assert.True(t, isSVG([]byte(halfSVG)))
	assert.False(t, isSVG([]byte(`<?xml version="1.0"?><html><svg/></html>`)))
	assert.False(t, isSVG([]byte("plain text")))
}

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRasterizeBitmap(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}

	same, err := SVGRasterizer{}.Rasterize(pngBytes(t, 2, 2, red), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, red, same.NRGBAAt(1, 1))

	scaled, err := SVGRasterizer{}.Rasterize(pngBytes(t, 8, 8, red), 4, 4)
	require.NoError(t, err)
	require.Equal(t, 4, scaled.Bounds().Dx())
	px := scaled.NRGBAAt(2, 2)
	assert.InDelta(t, 255, int(px.R), 2)
	assert.InDelta(t, 0, int(px.G), 2)
	assert.InDelta(t, 255, int(px.A), 2)
}

func TestRasterizeRejectsBadInput(t *testing.T) {
	cases := map[string][]byte{
		"empty":   nil,
		"blank":   []byte("   \n"),
		"garbage": []byte("definitely not an image"),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := SVGRasterizer{}.Rasterize(data, 18, 18)
			assert.Error(t, err)
		})
	}

	_, err := SVGRasterizer{}.Rasterize([]byte(halfSVG), 0, 18)
	assert.Error(t, err)
}

func TestInvert(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 10)
	}
	orig := append([]uint8(nil), img.Pix...)

	Invert(img)

	for i := range img.Pix {
		if i%4 == 3 {
			assert.Equal(t, orig[i], img.Pix[i], "alpha at %d", i)
		} else {
			assert.Equal(t, 255-orig[i], img.Pix[i], "channel at %d", i)
		}
	}
}

func TestInvertSubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	Invert(sub)

	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255}, img.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(3, 3))
}

func TestEncodeDataURL(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	enc, err := Encode("dot.png", img)
	require.NoError(t, err)

	assert.Equal(t, "dot.png", enc.Name)
	assert.Contains(t, enc.DataURL(), "data:image/png;base64,")

	back, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), back.Bounds())
}
