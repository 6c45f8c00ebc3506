package genre

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	minYear = 1900
	maxYear = 2100
)

// ParseYear reads the leading integer of s, so "1987-05-01" yields 1987. ok
// is false when s has no leading digits or the year falls outside
// [1900, 2100].
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:end])
	if err != nil || y < minYear || y > maxYear {
		return 0, false
	}
	return y, true
}

// Epoch returns the decade label for year, e.g. "80s" for 1987 and "00s" for
// 2003. It returns "" for years outside [1900, 2100].
func Epoch(year string) string {
	y, ok := ParseYear(year)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02ds", (y/10*10)%100)
}
