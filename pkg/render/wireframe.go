package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/kataras/figma-prototype/pkg/figma"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// maxSide caps the size of a wireframe image in pixels.
const maxSide = 8192

// Wireframe draws a placeholder screen for a frame without contacting Figma:
// a white canvas the size of the frame, an outline around every child,
// a highlighted box around every node with reactions and the frame name.
// It is meant for offline exports of saved documents.
type Wireframe struct {
	// Boundary stops the walk at a node, as the hotspot extraction does,
	// so only the hotspots listed in the graph are highlighted. Nil means component instances.
	Boundary func(*figma.Node) bool
}

var (
	backgroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	hotspotColor    = color.RGBA{R: 24, G: 160, B: 251, A: 255}
	labelColor      = color.RGBA{R: 51, G: 51, B: 51, A: 255}
)

// Render encodes the wireframe of node as PNG or JPG.
func (wf Wireframe) Render(ctx context.Context, node *figma.Node, setting figma.ExportSetting) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := strings.ToUpper(setting.Format)
	if format != figma.FormatPNG && format != figma.FormatJPG {
		return nil, fmt.Errorf("wireframe: unsupported format %q", setting.Format)
	}

	img := wf.Draw(node, setting.Scale())

	var buf bytes.Buffer
	var err error
	if format == figma.FormatJPG {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("wireframe: encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// Draw returns the wireframe image of node at the given scale.
func (wf Wireframe) Draw(node *figma.Node, scale float64) *image.RGBA {
	origin := node.Bounds()
	w := side(origin.Width * scale)
	h := side(origin.Height * scale)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	project := func(r figma.Rectangle) image.Rectangle {
		return image.Rect(
			int((r.X-origin.X)*scale),
			int((r.Y-origin.Y)*scale),
			int((r.X-origin.X+r.Width)*scale),
			int((r.Y-origin.Y+r.Height)*scale),
		)
	}

	var walk func(n *figma.Node)
	walk = func(n *figma.Node) {
		if wf.isBoundary(n) {
			return
		}
		for i := range n.Children {
			child := &n.Children[i]
			if child.AbsoluteBoundingBox != nil {
				c := outlineColor
				if len(child.Reactions) > 0 {
					c = hotspotColor
				}
				drawRectangle(img, project(*child.AbsoluteBoundingBox), c)
			}
			walk(child)
		}
	}
	walk(node)

	drawLabel(img, node.Name, 8, 8+basicfont.Face7x13.Ascent)
	return img
}

func (wf Wireframe) isBoundary(n *figma.Node) bool {
	if wf.Boundary == nil {
		return n.Type == figma.NodeTypeInstance
	}
	return wf.Boundary(n)
}

func side(v float64) int {
	s := int(math.Ceil(v))
	if s < 1 {
		return 1
	}
	if s > maxSide {
		return maxSide
	}
	return s
}

// drawRectangle draws a 2px rectangle outline clamped to the image bounds.
func drawRectangle(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}

	src := &image.Uniform{C: c}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+2),
		image.Rect(r.Min.X, r.Max.Y-2, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+2, r.Max.Y),
		image.Rect(r.Max.X-2, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(r), src, image.Point{}, draw.Over)
	}
}

func drawLabel(img *image.RGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
