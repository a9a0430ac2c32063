package tilewave

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// ColourScheme defines how the map's features should be coloured.
type ColourScheme struct {
	Field         color.RGBA
	Road          color.RGBA
	City          color.RGBA
	Shield        color.RGBA
	River         color.RGBA
	Monastery     color.RGBA
	Open          color.RGBA
	Contradiction color.RGBA
	GridLine      color.RGBA
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Field:         colornames.Darkseagreen,
		Road:          colornames.Floralwhite,
		City:          colornames.Peru,
		Shield:        colornames.Royalblue,
		River:         colornames.Steelblue,
		Monastery:     colornames.Firebrick,
		Open:          colornames.Whitesmoke,
		Contradiction: colornames.Crimson,
		GridLine:      colornames.Darkslategray,
	}
}

// Image renders the grid at the given cell scale in pixels. Committed
// cells draw their tile; open cells stay blank except contradictions,
// which are flagged in their own colour. A nil scheme uses the default.
func (g *Grid) Image(scale int, scheme *ColourScheme) image.Image {
	if scale < 4 {
		scale = 4
	}
	if scheme == nil {
		scheme = DefaultScheme()
	}

	ctx := gg.NewContext(g.width*scale, g.height*scale)
	ctx.SetColor(scheme.Open)
	ctx.Clear()

	fresh := float64(newCell(Pos{}, g.kinds).Len())
	g.Each(func(p Pos, c *Cell) {
		// Up is +Y on the grid, so flip rows into image space
		ox, oy := float64(p.X*scale), float64((g.height-1-p.Y)*scale)
		t, ok := c.Tile()
		if !ok {
			if c.Len() == 0 {
				ctx.SetColor(scheme.Contradiction)
				ctx.DrawRectangle(ox, oy, float64(scale), float64(scale))
				ctx.Fill()
				return
			}
			// shade cells on the frontier by how constrained they
			// already are; darker means closer to committed
			if g.Visible(p) {
				a := 1 - float64(c.Len())/fresh
				ctx.SetRGBA(0, 0, 0, 0.35*a)
				ctx.DrawRectangle(ox, oy, float64(scale), float64(scale))
				ctx.Fill()
			}
			return
		}
		drawTile(ctx, t, ox, oy, float64(scale), scheme)
	})

	ctx.SetColor(scheme.GridLine)
	ctx.SetLineWidth(1)
	for x := 0; x <= g.width; x++ {
		ctx.DrawLine(float64(x*scale), 0, float64(x*scale), float64(g.height*scale))
	}
	for y := 0; y <= g.height; y++ {
		ctx.DrawLine(0, float64(y*scale), float64(g.width*scale), float64(y*scale))
	}
	ctx.Stroke()

	return ctx.Image()
}

// edgeMid returns the midpoint of a cell edge in image space, where Up
// is the top of the cell.
func edgeMid(d Direction, ox, oy, s float64) (float64, float64) {
	switch d {
	case Up:
		return ox + s/2, oy
	case Right:
		return ox + s, oy + s/2
	case Down:
		return ox + s/2, oy + s
	}
	return ox, oy + s/2
}

// edgeCorners returns both corners of a cell edge in image space.
func edgeCorners(d Direction, ox, oy, s float64) (float64, float64, float64, float64) {
	switch d {
	case Up:
		return ox, oy, ox + s, oy
	case Right:
		return ox + s, oy, ox + s, oy + s
	case Down:
		return ox, oy + s, ox + s, oy + s
	}
	return ox, oy, ox, oy + s
}

// drawTile paints one committed tile; field underneath, city wedges,
// then river and road strokes, then centre marks.
func drawTile(ctx *gg.Context, t Tile, ox, oy, s float64, scheme *ColourScheme) {
	cx, cy := ox+s/2, oy+s/2

	ctx.SetColor(scheme.Field)
	ctx.DrawRectangle(ox, oy, s, s)
	ctx.Fill()

	ctx.SetColor(scheme.City)
	for _, d := range AllDirections() {
		if !t.HasCity(d) {
			continue
		}
		x0, y0, x1, y1 := edgeCorners(d, ox, oy, s)
		ctx.MoveTo(x0, y0)
		ctx.LineTo(x1, y1)
		ctx.LineTo(cx, cy)
		ctx.ClosePath()
		ctx.Fill()
	}

	ctx.SetColor(scheme.River)
	ctx.SetLineWidth(s / 4)
	ctx.SetLineCapSquare()
	for _, d := range AllDirections() {
		if t.HasRiver(d) {
			mx, my := edgeMid(d, ox, oy, s)
			ctx.DrawLine(mx, my, cx, cy)
			ctx.Stroke()
		}
	}

	ctx.SetColor(scheme.Road)
	ctx.SetLineWidth(s / 8)
	for _, d := range AllDirections() {
		if t.HasRoad(d) {
			mx, my := edgeMid(d, ox, oy, s)
			ctx.DrawLine(mx, my, cx, cy)
			ctx.Stroke()
		}
	}

	if t.Kind.Monastery {
		ctx.SetColor(scheme.Monastery)
		ctx.DrawRectangle(cx-s/6, cy-s/6, s/3, s/3)
		ctx.Fill()
	}
	if t.Kind.Shield {
		ctx.SetColor(scheme.Shield)
		ctx.DrawRectangle(ox+s/12, oy+s/12, s/6, s/6)
		ctx.Fill()
	}
}

// SavePNG renders the grid and writes it to the given path.
func (g *Grid) SavePNG(fpath string, scale int, scheme *ColourScheme) error {
	buff := new(bytes.Buffer)
	if err := png.Encode(buff, g.Image(scale, scheme)); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(fpath, buff.Bytes(), 0644), "failed to write %s", fpath)
}
