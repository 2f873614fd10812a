package tunnelgrid

import (
	"image"
	"testing"
)

func TestDirectionReverse(t *testing.T) {
	for d := DirN; d <= DirNW; d++ {
		r := d.Reverse()
		if r.Reverse() != d {
			t.Fatalf("%s: reverse is not an involution", d)
		}
		want := image.Pt(-d.Step().X, -d.Step().Y)
		if r.Step() != want {
			t.Fatalf("%s: reverse step %v, want %v", d, r.Step(), want)
		}
	}
}

func TestDiagDirectionReverse(t *testing.T) {
	for d := DiagNE; d <= DiagNW; d++ {
		r := d.Reverse()
		if r.Reverse() != d {
			t.Fatalf("%s: reverse is not an involution", d)
		}
		want := image.Pt(-d.Step().X, -d.Step().Y)
		if r.Step() != want {
			t.Fatalf("%s: reverse step %v, want %v", d, r.Step(), want)
		}
	}
}

func TestWidenNarrow(t *testing.T) {
	for d := DiagNE; d <= DiagNW; d++ {
		w := d.Widen()
		if w.IsOrthogonal() {
			t.Fatalf("%s widens to an orthogonal direction", d)
		}
		if w.Narrow() != d {
			t.Fatalf("%s: widen/narrow round trip gave %s", d, w.Narrow())
		}
		if w.Step() != d.Step() {
			t.Fatalf("%s: widened step %v differs from %v", d, w.Step(), d.Step())
		}
	}
}

func TestOrthogonal(t *testing.T) {
	orth := map[Direction]bool{DirN: true, DirE: true, DirS: true, DirW: true}
	for d := DirN; d <= DirNW; d++ {
		if d.IsOrthogonal() != orth[d] {
			t.Fatalf("%s: IsOrthogonal = %v", d, d.IsOrthogonal())
		}
	}
}

func TestTrackBitsByDir(t *testing.T) {
	cases := map[Direction]TrackBits{
		DirN:  TrackBitUpper,
		DirNE: TrackBitX,
		DirE:  TrackBitRight,
		DirSE: TrackBitY,
		DirS:  TrackBitLower,
		DirSW: TrackBitX,
		DirW:  TrackBitLeft,
		DirNW: TrackBitY,
	}
	for d, want := range cases {
		if got := trackBitsByDir(d); got != want {
			t.Fatalf("%s: track bits %v, want %v", d, got, want)
		}
	}
	if trackBitsByDiagDir(DiagNE) != TrackBitX || trackBitsByDiagDir(DiagSE) != TrackBitY {
		t.Fatalf("diag track bit mapping broken")
	}
}
