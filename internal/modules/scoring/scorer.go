// README: Two-pass scorer; gathers raw signals per unit, then normalizes across the set and composes.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"valora/internal/modules/location"
)

var ErrUnknownVariant = errors.New("unknown scoring variant")

// Score evaluates units against job with the formula of the given variant.
// The result has one entry per unit, in input order.
func Score(v Variant, job Job, units []Unit) ([]Result, error) {
	switch v {
	case VariantBasic:
		return ScoreBasic(job, units), nil
	case VariantExtended:
		return ScoreExtended(job, units), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
}

// ScoreBasic uses the caller-supplied DistanceKm and weighs
// distance 0.5, wait 0.1 and post-pickup slack 0.4.
func ScoreBasic(job Job, units []Unit) []Result {
	if len(units) == 0 {
		return []Result{}
	}
	sig := gatherSignals(job, units, false)
	omega1 := ratioToMin(sig.distance)
	omega2 := ratioToMin(sig.wait)
	omega3 := ratioOverMin(sig.slack)

	results := make([]Result, len(units))
	for i, u := range units {
		omegas := []float64{omega1[i], omega2[i], omega3[i]}
		results[i] = Result{
			ID:     u.ID,
			Omegas: omegas,
			Score:  compose(basicWeights[:], omegas),
		}
	}
	return results
}

// ScoreExtended derives distance from coordinates and weighs distance 0.5,
// wait 0.2, slack 0.2, org-unit compatibility 0.05 and event bonus 0.05.
func ScoreExtended(job Job, units []Unit) []Result {
	if len(units) == 0 {
		return []Result{}
	}
	sig := gatherSignals(job, units, true)
	omega1 := ratioToMin(sig.distance)
	omega2 := ratioToMin(sig.wait)
	omega3 := ratioOverMin(sig.slack)

	results := make([]Result, len(units))
	for i, u := range units {
		omegas := []float64{omega1[i], omega2[i], omega3[i], sig.org[i], sig.event[i]}
		results[i] = Result{
			ID:             u.ID,
			Omegas:         omegas,
			Score:          compose(extendedWeights[:], omegas),
			DistanceMeters: sig.distance[i],
		}
	}
	return results
}

// OrgCompatibility is 1 for identical org units, 0.4 when only the first two
// characters match and 0 otherwise.
func OrgCompatibility(jobOrg, unitOrg string) float64 {
	if jobOrg == unitOrg {
		return orgExactMatch
	}
	a, b := []rune(jobOrg), []rune(unitOrg)
	if len(a) < orgPrefixLen || len(b) < orgPrefixLen {
		return 0
	}
	if string(a[:orgPrefixLen]) == string(b[:orgPrefixLen]) {
		return orgPrefixMatch
	}
	return 0
}

// EventBonus is 1 for event types in the bonus set, compared case-insensitively.
func EventBonus(eventType string) float64 {
	if _, ok := bonusEventTypes[strings.ToUpper(eventType)]; ok {
		return 1
	}
	return 0
}

// signals are the raw per-unit inputs, index-aligned with the units slice.
type signals struct {
	distance []float64
	wait     []float64
	slack    []float64
	org      []float64
	event    []float64
}

func gatherSignals(job Job, units []Unit, extended bool) signals {
	n := len(units)
	sig := signals{
		distance: make([]float64, n),
		wait:     make([]float64, n),
		slack:    make([]float64, n),
	}
	if extended {
		sig.org = make([]float64, n)
		sig.event = make([]float64, n)
	}
	for i, u := range units {
		sig.wait[i] = positiveSeconds(job.PickupAt.Sub(u.AvailableAt))
		sig.slack[i] = positiveSeconds(u.ShiftEndsAt.Sub(job.PickupAt))
		if !extended {
			sig.distance[i] = u.DistanceKm
			continue
		}
		sig.distance[i] = location.HaversineMeters(job.Pickup, u.Position)
		sig.org[i] = OrgCompatibility(job.OrgUnit, u.OrgUnit)
		sig.event[i] = EventBonus(u.EventType)
	}
	return sig
}

func positiveSeconds(d time.Duration) float64 {
	return math.Max(d.Seconds(), 0)
}

// ratioToMin maps each value to min/value, so the smallest scores 1.
func ratioToMin(values []float64) []float64 {
	floored := floorSignals(values)
	lo := minValue(floored)
	out := make([]float64, len(floored))
	for i, v := range floored {
		out[i] = lo / v
	}
	return out
}

// ratioOverMin maps each value to value/min. Not bounded above.
func ratioOverMin(values []float64) []float64 {
	floored := floorSignals(values)
	lo := minValue(floored)
	out := make([]float64, len(floored))
	for i, v := range floored {
		out[i] = v / lo
	}
	return out
}

func floorSignals(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Max(v, signalFloor)
	}
	return out
}

func minValue(values []float64) float64 {
	lo := values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
	}
	return lo
}

func compose(weights, omegas []float64) float64 {
	var sum float64
	for i, w := range weights {
		sum += w * omegas[i]
	}
	return math.Min(math.Max(sum*maxScore, 0), maxScore)
}
