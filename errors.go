package tunnelgrid

import (
	"github.com/pkg/errors"
)

var (
	// ErrCorruptWorld implies tile data violates a structural invariant,
	// eg. an entrance whose paired entrance cannot be found. Searches wrap
	// this rather than returning a plausible-looking wrong tile.
	ErrCorruptWorld = errors.New("world data violates a tunnel invariant")

	// ErrPrecondition implies an accessor was called on a tile it does not
	// apply to (a caller bug, not bad world data). Accessors panic with a
	// wrap of this; callers are expected to have checked the tile kind.
	ErrPrecondition = errors.New("tile accessor precondition violated")
)
