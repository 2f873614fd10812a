package tunnelgrid

import (
	"image"

	"github.com/pkg/errors"
)

// maxTunnelLength bounds the endpoint walk. No legitimate structure is
// anywhere near this long, so blowing through it means the paired entrance
// simply is not there.
const maxTunnelLength = 1000

// OtherTunnelEnd returns the paired entrance of the tunnel entered at tile;
// where a vehicle going in at tile would come back out.
//
// We step through the interior in the entrance's facing direction until we
// hit a tunnel entrance facing exactly back at us on the same ground level.
// For a well formed structure that cell is unique & is the true other end
// (the interior is a straight, level run by construction). Walking off the
// grid, or further than any structure can be, returns an error wrapping
// ErrCorruptWorld -- never a plausible-looking wrong tile, since pathing
// decisions are made off this result.
func OtherTunnelEnd(m WorldMap, tile image.Point) (image.Point, error) {
	if !m.IsTunnelTile(tile.X, tile.Y) {
		panic(errors.Wrapf(ErrPrecondition, "(%d,%d) is not a tunnel entrance", tile.X, tile.Y))
	}

	dir := m.FullDirection(tile.X, tile.Y)
	delta := dir.Step()
	reverse := dir.Reverse()
	z := m.Elevation(tile.X, tile.Y)

	cur := tile
	for steps := 0; ; {
		cur = cur.Add(delta)
		steps++
		if !m.Contains(cur.X, cur.Y) || steps > maxTunnelLength {
			return image.Point{}, errors.Wrapf(
				ErrCorruptWorld,
				"no paired entrance for (%d,%d) heading %s at z=%d",
				tile.X, tile.Y, dir, z,
			)
		}
		if m.IsTunnelTile(cur.X, cur.Y) &&
			m.FullDirection(cur.X, cur.Y) == reverse &&
			m.Elevation(cur.X, cur.Y) == z {
			return cur, nil
		}
	}
}

// otherBridgeEnd returns the paired ramp of the bridge entered at tile.
// Bridges are flat spans, so unlike the tunnel walk there is no ground to
// compare against; the terminal cell is the first ramp facing back at us.
func otherBridgeEnd(m WorldMap, tile image.Point) (image.Point, error) {
	dir := m.Direction(tile.X, tile.Y)
	delta := dir.Step()
	reverse := dir.Reverse()

	cur := tile
	for steps := 0; ; {
		cur = cur.Add(delta)
		steps++
		if !m.Contains(cur.X, cur.Y) || steps > maxTunnelLength {
			return image.Point{}, errors.Wrapf(
				ErrCorruptWorld,
				"no paired ramp for (%d,%d) heading %s",
				tile.X, tile.Y, dir,
			)
		}
		if m.IsTunnelBridge(cur.X, cur.Y) &&
			!m.IsTunnel(cur.X, cur.Y) &&
			m.Direction(cur.X, cur.Y) == reverse {
			return cur, nil
		}
	}
}

// OtherTunnelBridgeEnd determines the kind of structure at tile & returns
// its other end.
func OtherTunnelBridgeEnd(m WorldMap, tile image.Point) (image.Point, error) {
	if !m.IsTunnelBridge(tile.X, tile.Y) {
		panic(errors.Wrapf(ErrPrecondition, "(%d,%d) is not a tunnel/bridge tile", tile.X, tile.Y))
	}
	if m.IsTunnel(tile.X, tile.Y) {
		return OtherTunnelEnd(m, tile)
	}
	return otherBridgeEnd(m, tile)
}

// IsTunnelInWayDir reports whether a tunnel at level z blocks tile when
// scanning in the given direction.
//
// We step backward (opposite dir) one cell at a time. The moment the
// ground climbs above z nothing further along can block us at this level
// -- an entrance can only face us if it sits at our probe height with no
// higher ground overtopping it first -- and running off the grid is a
// clean negative. This scan never fails; there is nothing to corrupt.
func IsTunnelInWayDir(m WorldMap, tile image.Point, z int, dir DiagDirection) bool {
	delta := dir.Step()

	for {
		tile = tile.Sub(delta)
		if !m.Contains(tile.X, tile.Y) {
			return false
		}
		height := m.Elevation(tile.X, tile.Y)
		if height > z {
			return false
		}
		if height == z && m.IsTunnelTile(tile.X, tile.Y) && m.Direction(tile.X, tile.Y) == dir {
			return true
		}
	}
}

// IsTunnelInWay reports whether a tunnel at level z blocks tile from any
// direction. A tunnel can approach along either diagonal axis depending on
// which half of the map tile sits in, so we scan both, each picked by
// quadrant so the walk heads in toward the map rather than straight off it.
func IsTunnelInWay(m WorldMap, tile image.Point, z int) bool {
	dx := DiagSW
	if tile.X > m.MaxX()/2 {
		dx = DiagNE
	}
	dy := DiagNW
	if tile.Y > m.MaxY()/2 {
		dy = DiagSE
	}
	return IsTunnelInWayDir(m, tile, z, dx) || IsTunnelInWayDir(m, tile, z, dy)
}
