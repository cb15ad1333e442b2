package builder

import (
	"fmt"

	"github.com/skibsted/adm0reverse/geom"
	"github.com/skibsted/adm0reverse/oracle"
)

// MaxDepthExceededError is returned when recursion reaches Config.MaxDepth
// on a rectangle the builder has not been able to prove uniform.
//
// This is the resolution of spec.md's open question: rather than silently
// emitting a Leaf carrying the center point's country id (which would
// discard any disagreement elsewhere in the rectangle), the build fails
// loudly. CenterCountryID is reported purely for diagnostics; it is never
// turned into a Leaf. Builds are offline and idempotent, so the fix is to
// rerun with a higher --max-depth or --brute-force-threshold.
type MaxDepthExceededError struct {
	Rect            geom.Rectangle
	Depth           int
	CenterCountryID oracle.CountryID
}

func (e *MaxDepthExceededError) Error() string {
	return fmt.Sprintf(
		"builder: max depth %d reached at %v without proving uniformity (center country id %d); rerun with a higher --max-depth or --brute-force-threshold",
		e.Depth, e.Rect, e.CenterCountryID,
	)
}
