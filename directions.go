package tunnelgrid

import (
	"image"
)

// DiagDirection is one of the four directions structures could historically
// run in: the diagonal corner points. Every tile record stores one of these
// in its legacy direction field, whatever else it also encodes.
type DiagDirection uint8

const (
	DiagNE DiagDirection = iota // towards (+x,-y)
	DiagSE                      // towards (+x,+y)
	DiagSW                      // towards (-x,+y)
	DiagNW                      // towards (-x,-y)
)

// Direction is the full eight way compass. The even values (N/E/S/W, the
// axis-aligned "orthogonal" points) only exist under the extended tile
// format; the odd values are the legacy diagonals widened.
type Direction uint8

const (
	DirN Direction = iota
	DirNE
	DirE
	DirSE
	DirS
	DirSW
	DirW
	DirNW
)

var (
	diagSteps = [4]image.Point{
		{1, -1},  // DiagNE
		{1, 1},   // DiagSE
		{-1, 1},  // DiagSW
		{-1, -1}, // DiagNW
	}

	dirSteps = [8]image.Point{
		{0, -1},  // DirN
		{1, -1},  // DirNE
		{1, 0},   // DirE
		{1, 1},   // DirSE
		{0, 1},   // DirS
		{-1, 1},  // DirSW
		{-1, 0},  // DirW
		{-1, -1}, // DirNW
	}

	diagNames = [4]string{"NE", "SE", "SW", "NW"}
	dirNames  = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
)

// Reverse returns the opposite diagonal direction.
func (d DiagDirection) Reverse() DiagDirection {
	return d ^ 2
}

// Widen lifts a diagonal direction into the eight way compass.
func (d DiagDirection) Widen() Direction {
	return Direction(d)*2 + 1
}

// Step returns the unit step vector for d.
func (d DiagDirection) Step() image.Point {
	return diagSteps[d&3]
}

func (d DiagDirection) String() string {
	return diagNames[d&3]
}

// Reverse returns the opposite compass direction.
func (d Direction) Reverse() Direction {
	return (d + 4) & 7
}

// Narrow drops a compass direction back to the legacy diagonal space.
// Lossy for the orthogonal points (each maps to the diagonal sharing
// its low bit pattern, matching how the extended format stores them).
func (d Direction) Narrow() DiagDirection {
	return DiagDirection(d >> 1)
}

// IsOrthogonal reports whether d is an axis-aligned compass point,
// ie. one of the directions only the extended format can store.
func (d Direction) IsOrthogonal() bool {
	return d&1 == 0
}

// Step returns the unit step vector for d.
func (d Direction) Step() image.Point {
	return dirSteps[d&7]
}

func (d Direction) String() string {
	return dirNames[d&7]
}

// TrackBits is a bitmask of the track pieces a rail cell can carry.
type TrackBits uint8

const (
	TrackBitNone  TrackBits = 0
	TrackBitX     TrackBits = 1 << 0 // the NE<->SW diagonal
	TrackBitY     TrackBits = 1 << 1 // the NW<->SE diagonal
	TrackBitUpper TrackBits = 1 << 2
	TrackBitLower TrackBits = 1 << 3
	TrackBitLeft  TrackBits = 1 << 4
	TrackBitRight TrackBits = 1 << 5
)

// trackBitsByDir maps an entrance direction to the track piece a vehicle
// occupies passing through it.
func trackBitsByDir(d Direction) TrackBits {
	switch d {
	case DirN:
		return TrackBitUpper
	case DirNE:
		return TrackBitX
	case DirE:
		return TrackBitRight
	case DirSE:
		return TrackBitY
	case DirS:
		return TrackBitLower
	case DirSW:
		return TrackBitX
	case DirW:
		return TrackBitLeft
	case DirNW:
		return TrackBitY
	}
	return TrackBitNone
}

// trackBitsByDiagDir is the legacy mapping used for bridge ramps.
func trackBitsByDiagDir(d DiagDirection) TrackBits {
	if d == DiagNE || d == DiagSW {
		return TrackBitX
	}
	return TrackBitY
}
