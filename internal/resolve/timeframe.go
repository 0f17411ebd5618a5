package resolve

import (
	"regexp"
	"strconv"
)

var digits = regexp.MustCompile(`\d+`)

// ParseTimeframeDays extracts the holding period in days from a
// timeframe label. A range such as "3-5 gün" resolves to its far edge,
// a single number to itself, and anything unparseable to 3.
func ParseTimeframeDays(timeframe string) int {
	matches := digits.FindAllString(timeframe, -1)
	if len(matches) == 0 {
		return 3
	}
	max := 0
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return 3
	}
	return max
}
