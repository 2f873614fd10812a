package tunnelgrid

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"
)

// ColourScheme defines how the map should be coloured when exported.
type ColourScheme struct {
	// entrance markers by what the structure carries
	Rail  color.Color
	Road  color.Color
	Water color.Color

	// bridge ramps
	Bridge color.Color

	// outline for entrances sitting in snow / desert
	SnowOrDesert color.Color

	// ground is shaded between these two by elevation
	Lowland  color.Color
	Highland color.Color
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Rail:         colornames.Crimson,
		Road:         colornames.Dimgray,
		Water:        colornames.Royalblue,
		Bridge:       colornames.Darkgray,
		SnowOrDesert: colornames.Whitesmoke,
		Lowland:      colornames.Darkolivegreen,
		Highland:     colornames.Wheat,
	}
}

// Save the raw per-cell records as is to disk.
// Mostly useful for eyeballing that fields land in the channels we expect.
func (m *TileMap) Save(fpath string) error {
	return savePNG(fpath, m.im)
}

// CustomImage returns the map coloured with the given Scheme: ground shaded
// by elevation with every live entrance / ramp marked & a short tick showing
// which way it faces.
func (m *TileMap) CustomImage(scheme *ColourScheme) (image.Image, error) {
	if scheme == nil {
		scheme = DefaultScheme()
	}

	bnds := m.im.Bounds()
	im := image.NewRGBA(bnds)

	// highest ground level, for shading
	zmax := 1
	for dy := bnds.Min.Y; dy < bnds.Max.Y; dy++ {
		for dx := bnds.Min.X; dx < bnds.Max.X; dx++ {
			zmax = maxint(zmax, m.Elevation(dx, dy))
		}
	}

	for dy := bnds.Min.Y; dy < bnds.Max.Y; dy++ {
		for dx := bnds.Min.X; dx < bnds.Max.X; dx++ {
			t := float64(m.Elevation(dx, dy)) / float64(zmax)
			im.Set(dx, dy, lerpColour(scheme.Lowland, scheme.Highland, t))
		}
	}

	// markers drawn over the top with gg, much easier than pixel fiddling
	ctx := gg.NewContextForRGBA(im)
	for _, p := range m.entrances {
		col := scheme.Bridge
		if m.IsTunnel(p.X, p.Y) {
			switch m.TransportMode(p.X, p.Y) {
			case TransportRail:
				col = scheme.Rail
			case TransportRoad:
				col = scheme.Road
			case TransportWater:
				col = scheme.Water
			}
		}

		if m.HasSnowOrDesert(p.X, p.Y) {
			ctx.SetColor(scheme.SnowOrDesert)
			ctx.DrawRectangle(float64(p.X)-2, float64(p.Y)-2, 5, 5)
			ctx.Fill()
		}

		ctx.SetColor(col)
		ctx.DrawRectangle(float64(p.X)-1, float64(p.Y)-1, 3, 3)
		ctx.Fill()

		step := m.FullDirection(p.X, p.Y).Step()
		ctx.SetLineWidth(1)
		ctx.DrawLine(
			float64(p.X), float64(p.Y),
			float64(p.X+step.X*3), float64(p.Y+step.Y*3),
		)
		ctx.Stroke()
	}

	return im, nil
}

// SaveAdv essentially saves the map using the given scheme to disk.
// Essentially sugar around "CustomImage()" followed by writing out a PNG.
func (m *TileMap) SaveAdv(fpath string, scheme *ColourScheme) error {
	im, err := m.CustomImage(scheme)
	if err != nil {
		return err
	}
	ctx := gg.NewContextForRGBA(im.(*image.RGBA))
	return ctx.SavePNG(fpath)
}
