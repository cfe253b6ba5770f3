package types

import "strconv"

// formatFloat renders a float64 the way JS's Number#toString does for the
// finite, non-exponential range this analyser's literal folding produces:
// integral values print without a trailing ".0".
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
