package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCurrency renders a USD amount with thousands separators, e.g.
// "$1,234.56".
func FormatCurrency(value float64) string {
	neg := value < 0
	if neg {
		value = -value
	}
	s := strconv.FormatFloat(value, 'f', 2, 64)

	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a signed percentage, e.g. "+1.25%" or "-0.40%".
func FormatPercent(value float64) string {
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatVolume renders a share count with thousands separators, or "N/A"
// for zero.
func FormatVolume(v int64) string {
	if v == 0 {
		return "N/A"
	}
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
