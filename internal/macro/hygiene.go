package macro

import (
	"sync/atomic"

	"mex/internal/token"
)

// Hygiene hands out one fresh mark per expansion event. The counter is
// atomic so concurrent expansions sharing one engine never reuse an
// identity. Mark zero (token.NoMark) is reserved for front-end tokens and
// is never allocated.
type Hygiene struct {
	next atomic.Uint32
}

func NewHygiene() *Hygiene {
	return &Hygiene{}
}

// Fresh allocates the mark for one expansion event.
func (h *Hygiene) Fresh() token.Mark {
	return token.Mark(h.next.Add(1))
}
