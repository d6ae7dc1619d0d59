// README: Shortlisting of scored units for dispatch.
package scoring

import (
	"cmp"
	"slices"
)

// Rank returns up to n results ordered by descending score. Ties keep input
// order. n <= 0 means all. The input slice is not modified.
func Rank(results []Result, n int) []Result {
	ranked := slices.Clone(results)
	if ranked == nil {
		ranked = []Result{}
	}
	slices.SortStableFunc(ranked, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
