package tunnelgrid

import (
	"image"
)

// Terrain tells tunnelgrid about the ground underneath the grid.
// Elevation is deliberately *not* stored in tile records -- it belongs to
// whatever owns the heightmap -- so we ask for it whenever a search needs it.
type Terrain interface {
	// Elevation of the ground at the given (x,y), in height levels.
	Elevation(x, y int) int
}

// WorldMap is the read side of a tunnel/bridge grid. The searches in
// locator.go are written against this rather than a concrete map so they
// can run over any synthetic grid (see the tests).
type WorldMap interface {
	// Contains reports whether (x,y) is a valid grid position.
	Contains(x, y int) bool

	// MaxX / MaxY are the highest valid co-ordinates.
	MaxX() int
	MaxY() int

	// Elevation of the ground at (x,y) (see Terrain).
	Elevation(x, y int) int

	// IsTunnelBridge reports whether (x,y) is a tunnel/bridge cell at all.
	// The remaining accessors require that it is.
	IsTunnelBridge(x, y int) bool

	// IsTunnel distinguishes a tunnel entrance from a bridge ramp.
	IsTunnel(x, y int) bool

	// IsTunnelTile is IsTunnelBridge && IsTunnel with no precondition.
	IsTunnelTile(x, y int) bool

	// Direction is the legacy 2-bit diagonal direction, valid for every
	// tunnel/bridge cell regardless of format.
	Direction(x, y int) DiagDirection

	// FullDirection is the format-aware 8-way direction.
	FullDirection(x, y int) Direction

	// TransportMode carried through the structure at (x,y).
	TransportMode(x, y int) TransportMode

	// Save as a raw image of the underlying records.
	Save(fpath string) error

	// SaveAdv saves a rendered map with the given colour scheme.
	SaveAdv(fpath string, scheme *ColourScheme) error

	// CustomImage returns a rendered map with the given colour scheme.
	CustomImage(scheme *ColourScheme) (image.Image, error)
}
