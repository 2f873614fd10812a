package tunnelgrid

import (
	"image"
	"testing"

	"github.com/pkg/errors"
)

// flatTerrain is ground at one level everywhere
type flatTerrain int

func (f flatTerrain) Elevation(x, y int) int { return int(f) }

func newTestMap() *TileMap {
	return NewTileMap(image.Rect(0, 0, 64, 64), flatTerrain(2))
}

// mustPanicPrecondition runs fn & fails unless it panics with a value
// wrapping ErrPrecondition
func mustPanicPrecondition(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a precondition panic")
		}
		err, ok := r.(error)
		if !ok || errors.Cause(err) != ErrPrecondition {
			t.Fatalf("expected ErrPrecondition, got %v", r)
		}
	}()
	fn()
}

func TestRailTunnelDirectionRoundTrip(t *testing.T) {
	for d := DirN; d <= DirNW; d++ {
		m := newTestMap()
		m.MakeRailTunnel(5, 5, 3, d, 1)

		if !m.IsTunnelTile(5, 5) {
			t.Fatalf("%s: expected a tunnel entrance", d)
		}
		if got := m.FullDirection(5, 5); got != d {
			t.Fatalf("%s: full direction read back %s", d, got)
		}
		if m.TransportMode(5, 5) != TransportRail {
			t.Fatalf("%s: transport mode %s", d, m.TransportMode(5, 5))
		}
		if m.HasReservation(5, 5) {
			t.Fatalf("%s: fresh entrance already reserved", d)
		}
		if m.Owner(5, 5) != 3 {
			t.Fatalf("%s: owner %d", d, m.Owner(5, 5))
		}
		if m.RailSubtype(5, 5) != 1 {
			t.Fatalf("%s: rail subtype %d", d, m.RailSubtype(5, 5))
		}

		// the legacy field always holds something valid
		if !d.IsOrthogonal() && m.Direction(5, 5) != d.Narrow() {
			t.Fatalf("%s: legacy direction %s, want %s", d, m.Direction(5, 5), d.Narrow())
		}
	}
}

func TestRoadTunnelRoundTrip(t *testing.T) {
	for d := DiagNE; d <= DiagNW; d++ {
		m := newTestMap()
		m.MakeRoadTunnel(5, 5, 2, d, 4, 7)

		if got := m.Direction(5, 5); got != d {
			t.Fatalf("%s: direction read back %s", d, got)
		}
		if got := m.FullDirection(5, 5); got != d.Widen() {
			t.Fatalf("%s: full direction read back %s", d, got)
		}
		if m.TransportMode(5, 5) != TransportRoad {
			t.Fatalf("%s: transport mode %s", d, m.TransportMode(5, 5))
		}
		if m.RoadSubtype(5, 5) != 4 || m.TramSubtype(5, 5) != 7 {
			t.Fatalf("%s: subtypes %d/%d", d, m.RoadSubtype(5, 5), m.TramSubtype(5, 5))
		}
	}
}

func TestLegacyFormatIndependence(t *testing.T) {
	// a record written through the legacy path must decode to the same
	// 8-way value the widen path produces, with the extension untouched
	for d := DiagNE; d <= DiagNW; d++ {
		m := newTestMap()
		m.MakeRailTunnelDiag(5, 5, 1, d, 0)
		m.MakeRailTunnel(9, 9, 1, d.Widen(), 0)

		s := m.stateBM(5, 5)
		if s.Get(bitExtended) {
			t.Fatalf("%s: legacy write set the extended discriminator", d)
		}
		if m.FullDirection(5, 5) != d.Widen() {
			t.Fatalf("%s: legacy record decodes to %s", d, m.FullDirection(5, 5))
		}
		if m.state(5, 5) != m.state(9, 9) || m.flags(5, 5) != m.flags(9, 9) {
			t.Fatalf("%s: legacy & diagonal-via-8-way records differ (%08b/%08b vs %08b/%08b)",
				d, m.state(5, 5), m.flags(5, 5), m.state(9, 9), m.flags(9, 9))
		}
	}
}

func TestExtendedFormatDiscriminator(t *testing.T) {
	m := newTestMap()
	m.MakeRailTunnel(5, 5, 1, DirE, 0)

	s := m.stateBM(5, 5)
	if !s.Get(bitExtended) {
		t.Fatalf("orthogonal rail write did not set the discriminator")
	}
	if s.Get(bitBridgeRamp) {
		t.Fatalf("extension bits leaked into the bridge bit")
	}

	// road entrances never take the extension path even if the flag
	// byte carries stale extension bits
	m.MakeRoadTunnel(9, 9, 1, DiagNE, 0, 0)
	m.setFlags(9, 9, 0x03)
	if m.FullDirection(9, 9) != DiagNE.Widen() {
		t.Fatalf("road entrance decoded extension bits: %s", m.FullDirection(9, 9))
	}
}

func TestFieldIsolation(t *testing.T) {
	m := newTestMap()
	m.MakeRailTunnel(5, 5, 9, DirW, 2)

	check := func(when string) {
		t.Helper()
		if m.FullDirection(5, 5) != DirW {
			t.Fatalf("%s: direction drifted to %s", when, m.FullDirection(5, 5))
		}
		if m.TransportMode(5, 5) != TransportRail {
			t.Fatalf("%s: transport drifted to %s", when, m.TransportMode(5, 5))
		}
		if m.Owner(5, 5) != 9 || m.RailSubtype(5, 5) != 2 {
			t.Fatalf("%s: owner/subtype drifted", when)
		}
		if !m.stateBM(5, 5).Get(bitExtended) {
			t.Fatalf("%s: discriminator drifted", when)
		}
	}

	before := m.state(5, 5)
	m.SetReservation(5, 5, true)
	if m.state(5, 5) != before|1<<bitReserved {
		t.Fatalf("reservation write touched more than its bit: %08b -> %08b", before, m.state(5, 5))
	}
	check("after reserve")

	fBefore := m.flags(5, 5)
	m.SetSnowOrDesert(5, 5, true)
	if m.flags(5, 5) != fBefore|1<<bitSnowOrDesert {
		t.Fatalf("snow write touched more than its bit: %08b -> %08b", fBefore, m.flags(5, 5))
	}
	if m.state(5, 5) != before|1<<bitReserved {
		t.Fatalf("snow write crossed into the state byte")
	}
	check("after snow")

	m.SetReservation(5, 5, false)
	m.SetSnowOrDesert(5, 5, false)
	if m.state(5, 5) != before || m.flags(5, 5) != fBefore {
		t.Fatalf("clearing did not restore the record bit-exact")
	}
	check("after clear")
}

func TestReservation(t *testing.T) {
	m := newTestMap()
	m.MakeRailTunnel(5, 5, 1, DirE, 0)

	m.SetReservation(5, 5, true)
	if !m.HasReservation(5, 5) {
		t.Fatalf("expected reservation set")
	}
	if m.ReservationTrackBits(5, 5) != TrackBitRight {
		t.Fatalf("expected TrackBitRight, got %v", m.ReservationTrackBits(5, 5))
	}
	m.SetReservation(5, 5, false)
	if m.HasReservation(5, 5) {
		t.Fatalf("expected reservation cleared")
	}
	if m.ReservationTrackBits(5, 5) != TrackBitNone {
		t.Fatalf("unreserved entrance reports track bits")
	}
}

func TestReservationPreconditions(t *testing.T) {
	m := newTestMap()
	m.MakeRoadTunnel(5, 5, 1, DiagSE, 0, 0)

	mustPanicPrecondition(t, func() { m.HasReservation(5, 5) })
	mustPanicPrecondition(t, func() { m.SetReservation(5, 5, true) })

	// and nothing at all on a clear tile
	mustPanicPrecondition(t, func() { m.Direction(1, 1) })
	mustPanicPrecondition(t, func() { m.IsTunnel(1, 1) })
}

func TestBridgeRamp(t *testing.T) {
	m := newTestMap()
	m.MakeBridgeRamp(5, 5, 1, DiagSE, TransportRail)

	if m.IsTunnel(5, 5) {
		t.Fatalf("ramp reads as a tunnel")
	}
	if m.IsTunnelTile(5, 5) {
		t.Fatalf("IsTunnelTile true for a ramp")
	}
	if m.Direction(5, 5) != DiagSE {
		t.Fatalf("ramp direction %s", m.Direction(5, 5))
	}
	if m.FullDirection(5, 5) != DiagSE.Widen() {
		t.Fatalf("ramp full direction %s", m.FullDirection(5, 5))
	}
	m.SetReservation(5, 5, true)
	if m.ReservationTrackBits(5, 5) != TrackBitY {
		t.Fatalf("ramp track bits %v", m.ReservationTrackBits(5, 5))
	}
}

func TestDemolish(t *testing.T) {
	m := newTestMap()
	m.MakeRailTunnel(5, 5, 1, DirE, 0)
	m.MakeRoadTunnel(9, 9, 1, DiagNE, 0, 0)
	if len(m.Entrances()) != 2 {
		t.Fatalf("expected 2 entrances, have %d", len(m.Entrances()))
	}

	m.Demolish(5, 5)
	if m.IsTunnelBridge(5, 5) {
		t.Fatalf("demolished tile still a tunnel/bridge")
	}
	if len(m.Entrances()) != 1 {
		t.Fatalf("registry not updated, %d entries", len(m.Entrances()))
	}
	mustPanicPrecondition(t, func() { m.Direction(5, 5) })
}
