// README: Scoring inputs, results and the fixed weight sets of each variant.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"valora/internal/types"
)

type Variant string

const (
	// VariantBasic scores distance, wait and post-pickup slack.
	VariantBasic Variant = "basico"
	// VariantExtended adds organizational-unit compatibility and the event-type bonus,
	// and derives distance from coordinates.
	VariantExtended Variant = "extendido"
)

// ParseVariant accepts the Spanish names used on the wire and their English aliases.
func ParseVariant(v string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "basico", "básico", "basic":
		return VariantBasic, nil
	case "extendido", "extended":
		return VariantExtended, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

// Job is the scheduled pickup a set of units is evaluated against.
type Job struct {
	PickupAt time.Time
	Pickup   types.Point
	OrgUnit  string // extended only
}

// Unit is a candidate transport unit.
type Unit struct {
	ID          types.ID
	AvailableAt time.Time
	ShiftEndsAt time.Time
	// DistanceKm is supplied by the caller in the basic variant.
	DistanceKm float64
	// Position, OrgUnit and EventType are only read by the extended variant.
	Position  types.Point
	OrgUnit   string
	EventType string
}

// Result holds the sub-scores of one unit in criterion order (omega1..omegaN)
// and the composite score bounded to [0, 100].
type Result struct {
	ID             types.ID
	Omegas         []float64
	Score          float64
	DistanceMeters float64 // extended only
}

// Omega returns the n-th sub-score (1-based) or 0 when the variant does not use it.
func (r Result) Omega(n int) float64 {
	if n < 1 || n > len(r.Omegas) {
		return 0
	}
	return r.Omegas[n-1]
}

const (
	// signalFloor keeps every ratio finite.
	signalFloor = 1e-6
	maxScore    = 100.0

	orgExactMatch  = 1.0
	orgPrefixMatch = 0.4
	orgPrefixLen   = 2
)

// Criterion weights, in omega order.
var (
	basicWeights    = [3]float64{0.5, 0.1, 0.4}
	extendedWeights = [5]float64{0.5, 0.2, 0.2, 0.05, 0.05}
)

// bonusEventTypes are matched against the upper-cased event type.
var bonusEventTypes = map[string]struct{}{
	"DESCARGA":             {},
	"ORDEN_ADMINISTRATIVA": {},
}
