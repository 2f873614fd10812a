package tunnelgrid

import (
	"image"
	"image/color"

	"github.com/voidshard/tunnelgrid/internal/encoding"

	"github.com/boljen/go-bitmap"
	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
)

// TileKind says what broadly occupies a cell. Only the tunnel/bridge kind
// belongs to this library; everything else is (to us) just "not ours".
type TileKind uint8

const (
	KindClear TileKind = iota
	KindTunnelBridge
)

// TransportMode is what travels through a structure.
type TransportMode uint8

const (
	TransportRail TransportMode = iota
	TransportRoad
	TransportWater
	TransportNone
)

func (t TransportMode) String() string {
	switch t {
	case TransportRail:
		return "rail"
	case TransportRoad:
		return "road"
	case TransportWater:
		return "water"
	}
	return "none"
}

// Owner identifies who built a structure. Ownership rules live elsewhere;
// we only store & return the id.
type Owner uint16

// OwnerNone is the zero owner (unowned / world owned).
const OwnerNone Owner = 0

// RailType / RoadType index external sub-type tables (rolling stock, road
// surfaces ..). Opaque to us, stored & returned as-is.
type RailType uint8
type RoadType uint8

// state byte layout (A channel, low 8 bits)
const (
	shiftDir       = 0 // bits 0-1: legacy diagonal direction
	shiftTransport = 2 // bits 2-3: transport mode
	bitReserved    = 4 // rail reservation
	bitExtended    = 5 // extended (8-way) direction format
	// bit 6 unused
	bitBridgeRamp = 7 // bridge ramp rather than tunnel entrance
)

// flags byte layout (B channel, low 8 bits)
const (
	shiftExtDir     = 0 // bits 0-1: extension direction bits (extended format only)
	bitSnowOrDesert = 5 // entrance renders with snow / desert overlay
)

// TileMap is the concrete tunnel/bridge grid, one record per cell packed
// into the 64 bits of an RGBA64 pixel.
type TileMap struct {
	// Map is an RGBA64 image where each pixel of 64 bits is split via
	//
	// nb. helpful
	//  8  bits 0-255
	//  16 bits 0-65,535
	//
	// R [16 bits] -> owner id
	// G [16 bits]
	//   16-9 [8 bits] -> rail subtype (rail) or road subtype (road)
	//    8-1 [8 bits] -> tram subtype (road only)
	// B [16 bits]
	//   16-9 [8 bits] -> unused
	//    8-1 [8 bits] -> flags byte (true if set, false if not)
	//       bit 0-1 -> extension direction bits (extended rail tunnels)
	//       bit 5   -> snow / desert overlay
	//       others  -> unused
	// A [16 bits]
	//   16-9 [8 bits] -> tile kind
	//    8-1 [8 bits] -> state byte
	//       bit 0-1 -> legacy diagonal direction (bit 0 doubles as the
	//                  low direction bit under the extended format)
	//       bit 2-3 -> transport mode
	//       bit 4   -> rail reservation
	//       bit 5   -> extended format discriminator
	//       bit 6   -> unused
	//       bit 7   -> bridge ramp (clear means tunnel entrance)
	//
	// The extension bits live in the flags byte rather than next to the
	// bridge bit so that no legal direction value can ever masquerade as
	// a ramp.
	//
	im *image.RGBA64

	terrain Terrain

	// every live entrance / ramp, for iteration & rendering
	entrances []image.Point
}

// NewTileMap returns an empty grid covering bounds, reading ground height
// from the given Terrain.
func NewTileMap(bounds image.Rectangle, t Terrain) *TileMap {
	return &TileMap{
		im:        image.NewRGBA64(bounds),
		terrain:   t,
		entrances: []image.Point{},
	}
}

// Contains reports whether (x,y) is on the grid.
func (m *TileMap) Contains(x, y int) bool {
	bnds := m.im.Bounds()
	return x >= bnds.Min.X && x < bnds.Max.X && y >= bnds.Min.Y && y < bnds.Max.Y
}

// MaxX is the highest valid x co-ordinate.
func (m *TileMap) MaxX() int {
	return m.im.Bounds().Max.X - 1
}

// MaxY is the highest valid y co-ordinate.
func (m *TileMap) MaxY() int {
	return m.im.Bounds().Max.Y - 1
}

// Elevation of the ground at (x,y).
func (m *TileMap) Elevation(x, y int) int {
	return m.terrain.Elevation(x, y)
}

// Entrances returns the positions of all live entrances & ramps.
// Callers should not modify the returned slice.
func (m *TileMap) Entrances() []image.Point {
	return m.entrances
}

// kind returns the TileKind at (x,y)
func (m *TileMap) kind(x, y int) TileKind {
	k, _ := encoding.Split16(m.im.RGBA64At(x, y).A)
	return TileKind(k)
}

// state returns the 8 bit state byte at (x,y)
func (m *TileMap) state(x, y int) uint8 {
	_, s := encoding.Split16(m.im.RGBA64At(x, y).A)
	return s
}

// setState sets the 8 bit state byte at (x,y)
func (m *TileMap) setState(x, y int, s uint8) {
	v := m.im.RGBA64At(x, y)
	k, _ := encoding.Split16(v.A)
	v.A = encoding.Merge8(k, s)
	m.im.SetRGBA64(x, y, v)
}

// flags returns the 8 bit flags byte at (x,y)
func (m *TileMap) flags(x, y int) uint8 {
	_, f := encoding.Split16(m.im.RGBA64At(x, y).B)
	return f
}

// setFlags sets the 8 bit flags byte at (x,y)
func (m *TileMap) setFlags(x, y int, f uint8) {
	v := m.im.RGBA64At(x, y)
	hi, _ := encoding.Split16(v.B)
	v.B = encoding.Merge8(hi, f)
	m.im.SetRGBA64(x, y, v)
}

// stateBM gets the state byte at (x,y) as a bitmap
func (m *TileMap) stateBM(x, y int) bitmap.Bitmap {
	return bitmap.Bitmap(encoding.ToBytes8(m.state(x, y)))
}

// flagsBM gets the flags byte at (x,y) as a bitmap
func (m *TileMap) flagsBM(x, y int) bitmap.Bitmap {
	return bitmap.Bitmap(encoding.ToBytes8(m.flags(x, y)))
}

// assertTunnelBridge panics (wrapping ErrPrecondition) unless (x,y) is a
// tunnel/bridge cell. Matches the corrupted-call semantics of the original:
// this is a caller bug, never a recoverable condition.
func (m *TileMap) assertTunnelBridge(x, y int) {
	if !m.IsTunnelBridge(x, y) {
		panic(errors.Wrapf(ErrPrecondition, "(%d,%d) is not a tunnel/bridge tile", x, y))
	}
}

// assertRail panics unless (x,y) is a rail tunnel/bridge cell.
func (m *TileMap) assertRail(x, y int) {
	m.assertTunnelBridge(x, y)
	if m.TransportMode(x, y) != TransportRail {
		panic(errors.Wrapf(ErrPrecondition, "(%d,%d) is not a rail tunnel/bridge tile", x, y))
	}
}

// IsTunnelBridge reports whether (x,y) holds a tunnel entrance or bridge
// ramp. No precondition; safe on any position.
func (m *TileMap) IsTunnelBridge(x, y int) bool {
	return m.Contains(x, y) && m.kind(x, y) == KindTunnelBridge
}

// IsTunnel reports whether the tunnel/bridge cell at (x,y) is a tunnel
// entrance (as opposed to a bridge ramp).
func (m *TileMap) IsTunnel(x, y int) bool {
	m.assertTunnelBridge(x, y)
	return !m.stateBM(x, y).Get(bitBridgeRamp)
}

// IsTunnelTile is IsTunnelBridge && IsTunnel, with no precondition.
func (m *TileMap) IsTunnelTile(x, y int) bool {
	return m.IsTunnelBridge(x, y) && m.IsTunnel(x, y)
}

// Direction returns the legacy 2-bit diagonal direction, valid for every
// tunnel/bridge cell whatever its format.
func (m *TileMap) Direction(x, y int) DiagDirection {
	m.assertTunnelBridge(x, y)
	return DiagDirection(encoding.Bits(m.state(x, y), shiftDir, 2))
}

// FullDirection returns the 8-way direction at (x,y).
// Only a rail tunnel carrying the extended discriminator decodes the
// extension bits; everything else -- road, water, bridges and every record
// written before the extension existed -- takes the widen path and decodes
// exactly as it always has. The discriminator must be checked first or
// legacy diagonal data could be misread as an orthogonal direction.
func (m *TileMap) FullDirection(x, y int) Direction {
	s := m.stateBM(x, y)
	if m.IsTunnel(x, y) && m.TransportMode(x, y) == TransportRail && s.Get(bitExtended) {
		lo := encoding.Bits(m.state(x, y), shiftDir, 1)
		hi := encoding.Bits(m.flags(x, y), shiftExtDir, 2)
		return Direction(hi<<1 | lo)
	}
	return m.Direction(x, y).Widen()
}

// TransportMode returns what travels through the structure at (x,y).
func (m *TileMap) TransportMode(x, y int) TransportMode {
	m.assertTunnelBridge(x, y)
	return TransportMode(encoding.Bits(m.state(x, y), shiftTransport, 2))
}

// Owner returns who built the structure at (x,y).
func (m *TileMap) Owner(x, y int) Owner {
	m.assertTunnelBridge(x, y)
	return Owner(m.im.RGBA64At(x, y).R)
}

// RailSubtype returns the rail sub-type index at (x,y).
func (m *TileMap) RailSubtype(x, y int) RailType {
	m.assertRail(x, y)
	hi, _ := encoding.Split16(m.im.RGBA64At(x, y).G)
	return RailType(hi)
}

// RoadSubtype returns the road sub-type index at (x,y).
func (m *TileMap) RoadSubtype(x, y int) RoadType {
	m.assertTunnelBridge(x, y)
	hi, _ := encoding.Split16(m.im.RGBA64At(x, y).G)
	return RoadType(hi)
}

// TramSubtype returns the tram sub-type index at (x,y).
func (m *TileMap) TramSubtype(x, y int) RoadType {
	m.assertTunnelBridge(x, y)
	_, lo := encoding.Split16(m.im.RGBA64At(x, y).G)
	return RoadType(lo)
}

// HasReservation reports whether the rail structure at (x,y) is reserved
// by an in-progress movement.
func (m *TileMap) HasReservation(x, y int) bool {
	m.assertRail(x, y)
	return m.stateBM(x, y).Get(bitReserved)
}

// SetReservation marks / unmarks the rail structure at (x,y) as reserved.
// Touches only the reservation bit.
func (m *TileMap) SetReservation(x, y int, b bool) {
	m.assertRail(x, y)
	bm := m.stateBM(x, y)
	bm.Set(bitReserved, b)
	m.setState(x, y, encoding.FromBytes8(bm.Data(true)))
}

// HasSnowOrDesert reports whether the entrance / ramp at (x,y) renders
// with the snow or desert overlay.
func (m *TileMap) HasSnowOrDesert(x, y int) bool {
	m.assertTunnelBridge(x, y)
	return m.flagsBM(x, y).Get(bitSnowOrDesert)
}

// SetSnowOrDesert places the entrance / ramp at (x,y) in or out of a snowy
// or desert area. Touches only the overlay bit.
func (m *TileMap) SetSnowOrDesert(x, y int, b bool) {
	m.assertTunnelBridge(x, y)
	bm := m.flagsBM(x, y)
	bm.Set(bitSnowOrDesert, b)
	m.setFlags(x, y, encoding.FromBytes8(bm.Data(true)))
}

// ReservationTrackBits returns the track pieces reserved at (x,y),
// TrackBitNone if the cell holds no reservation.
func (m *TileMap) ReservationTrackBits(x, y int) TrackBits {
	if !m.HasReservation(x, y) {
		return TrackBitNone
	}
	if m.IsTunnel(x, y) {
		return trackBitsByDir(m.FullDirection(x, y))
	}
	return trackBitsByDiagDir(m.Direction(x, y))
}

// reset fully re-initialises the record at (x,y): kind & owner set,
// every other field zeroed. All Make* constructors go through here so no
// partial state from a previous occupant can survive.
func (m *TileMap) reset(x, y int, k TileKind, o Owner) {
	m.im.SetRGBA64(x, y, color.RGBA64{R: uint16(o), A: encoding.Merge8(uint8(k), 0)})
}

// setRailType stores the rail sub-type at (x,y)
func (m *TileMap) setRailType(x, y int, rt RailType) {
	v := m.im.RGBA64At(x, y)
	_, lo := encoding.Split16(v.G)
	v.G = encoding.Merge8(uint8(rt), lo)
	m.im.SetRGBA64(x, y, v)
}

// setRoadTypes stores the road & tram sub-types at (x,y)
func (m *TileMap) setRoadTypes(x, y int, road, tram RoadType) {
	v := m.im.RGBA64At(x, y)
	v.G = encoding.Merge8(uint8(road), uint8(tram))
	m.im.SetRGBA64(x, y, v)
}

// addEntrance records (x,y) in the entrance registry (once)
func (m *TileMap) addEntrance(x, y int) {
	for _, p := range m.entrances {
		if p.X == x && p.Y == y {
			return
		}
	}
	m.entrances = append(m.entrances, image.Pt(x, y))
}

// MakeRoadTunnel writes a road tunnel entrance at (x,y) facing d.
// Road tunnels only ever use the legacy diagonal format.
func (m *TileMap) MakeRoadTunnel(x, y int, o Owner, d DiagDirection, road, tram RoadType) {
	m.reset(x, y, KindTunnelBridge, o)
	s := encoding.SetBits(0, shiftDir, 2, uint8(d))
	s = encoding.SetBits(s, shiftTransport, 2, uint8(TransportRoad))
	m.setState(x, y, s)
	m.setRoadTypes(x, y, road, tram)
	m.addEntrance(x, y)
}

// MakeRailTunnel writes a rail tunnel entrance at (x,y) facing d, any of
// the eight compass points. An orthogonal d takes the extended format:
// the discriminator is set, the low direction bit goes to the usual
// direction field and the high two bits to the flags byte. A diagonal d
// writes a plain legacy record, so structures that never need the
// extension stay readable by anything that predates it.
// The reservation bit starts clear.
func (m *TileMap) MakeRailTunnel(x, y int, o Owner, d Direction, rt RailType) {
	m.reset(x, y, KindTunnelBridge, o)
	var s uint8
	if d.IsOrthogonal() {
		s = encoding.SetBits(0, shiftDir, 1, uint8(d)&1)
		s = encoding.SetBits(s, bitExtended, 1, 1)
		m.setFlags(x, y, encoding.SetBits(0, shiftExtDir, 2, uint8(d>>1)))
	} else {
		s = encoding.SetBits(0, shiftDir, 2, uint8(d.Narrow()))
	}
	s = encoding.SetBits(s, shiftTransport, 2, uint8(TransportRail))
	m.setState(x, y, s)
	m.setRailType(x, y, rt)
	m.addEntrance(x, y)
}

// MakeRailTunnelDiag writes a rail tunnel entrance in the legacy diagonal
// format. Kept alongside MakeRailTunnel for callers that still think in
// the 4-way space; the records it writes are identical to pre-extension
// ones.
func (m *TileMap) MakeRailTunnelDiag(x, y int, o Owner, d DiagDirection, rt RailType) {
	m.MakeRailTunnel(x, y, o, d.Widen(), rt)
}

// MakeBridgeRamp writes a bridge ramp at (x,y) facing d (along the span).
func (m *TileMap) MakeBridgeRamp(x, y int, o Owner, d DiagDirection, mode TransportMode) {
	m.reset(x, y, KindTunnelBridge, o)
	s := encoding.SetBits(0, shiftDir, 2, uint8(d))
	s = encoding.SetBits(s, shiftTransport, 2, uint8(mode))
	s = encoding.SetBits(s, bitBridgeRamp, 1, 1)
	m.setState(x, y, s)
	m.addEntrance(x, y)
}

// Demolish resets (x,y) back to a clear cell & drops it from the
// entrance registry.
func (m *TileMap) Demolish(x, y int) {
	m.assertTunnelBridge(x, y)
	m.reset(x, y, KindClear, OwnerNone)
	for i, p := range m.entrances {
		if p.X == x && p.Y == y {
			essentials.UnorderedDelete(&m.entrances, i)
			return
		}
	}
}
