package diagram

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Canvas size of the PNG rendering, 5 x 2.2 inches at 160 dpi
const (
	Width  = 800
	Height = 352

	nodeRadius  = 46
	edgeWidth   = 6
	arrowLength = 26
	arrowWidth  = 24
	nodeMargin  = 10
)

// Image rasterizes the diagram
func (d Diagram) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	x1, y1 := d.From.X*Width, d.From.Y*Height
	x2, y2 := d.To.X*Width, d.To.Y*Height

	// Edge from the rim of A to the tip of the arrow at the rim of B
	start := x1 + nodeRadius + nodeMargin
	tip := x2 - nodeRadius - nodeMargin
	fillPolygon(img, nodeColor,
		[2]float64{start, y1 - edgeWidth/2},
		[2]float64{tip - arrowLength, y2 - edgeWidth/2},
		[2]float64{tip - arrowLength, y2 + edgeWidth/2},
		[2]float64{start, y1 + edgeWidth/2},
	)
	fillPolygon(img, nodeColor,
		[2]float64{tip - arrowLength, y2 - arrowWidth/2},
		[2]float64{tip, y2},
		[2]float64{tip - arrowLength, y2 + arrowWidth/2},
	)

	fillCircle(img, nodeColor, x1, y1, nodeRadius)
	fillCircle(img, nodeColor, x2, y2, nodeRadius)

	drawText(img, d.Title, Width/2, 34, 3, textColor, nil)
	drawText(img, d.From.Label, int(x1), int(y1), 3, nodeLabelColor, nil)
	drawText(img, d.To.Label, int(x2), int(y2), 3, nodeLabelColor, nil)

	drawText(img, d.EdgeLabel(), int((x1+x2)/2), int((y1+y2)/2), 3, textColor, backgroundColor)

	return img
}

// PNG encodes the diagram as a PNG image
func (d Diagram) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, d.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode route diagram: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the PNG as an inline data: URL suitable for an <img> src
func (d Diagram) DataURL() (string, error) {
	b, err := d.PNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b), nil
}

func fillPolygon(dst draw.Image, c color.Color, pts ...[2]float64) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		z.LineTo(float32(p[0]), float32(p[1]))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// fillCircle approximates a circle with four cubic Béziers
func fillCircle(dst draw.Image, c color.Color, cx, cy, r float64) {
	const k = 0.5522847498
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	f := func(v float64) float32 { return float32(v) }

	z.MoveTo(f(cx+r), f(cy))
	z.CubeTo(f(cx+r), f(cy+k*r), f(cx+k*r), f(cy+r), f(cx), f(cy+r))
	z.CubeTo(f(cx-k*r), f(cy+r), f(cx-r), f(cy+k*r), f(cx-r), f(cy))
	z.CubeTo(f(cx-r), f(cy-k*r), f(cx-k*r), f(cy-r), f(cx), f(cy-r))
	z.CubeTo(f(cx+k*r), f(cy-r), f(cx+r), f(cy-k*r), f(cx+r), f(cy))
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// drawText renders s centred on (cx, cy) using the 7x13 bitmap face magnified by scale.
// A non-nil box paints a padded background behind the text.
func drawText(dst draw.Image, s string, cx, cy, scale int, c color.Color, box color.Color) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Metrics().Height.Ceil()

	src := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	sw, sh := w*scale, h*scale
	r := image.Rect(cx-sw/2, cy-sh/2, cx-sw/2+sw, cy-sh/2+sh)

	if box != nil {
		pad := 2 * scale
		draw.Draw(dst, r.Inset(-pad), image.NewUniform(box), image.Point{}, draw.Src)
	}
	xdraw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), xdraw.Over, nil)
}
