package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatINR formats an amount as a string like "1,23,456.78" using
// Indian digit grouping (last three digits, then groups of two).
// Fraction digits are kept only when non-zero, to at most two places.
// The caller prepends the rupee symbol.
func FormatINR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	// Round to paise once so the integer and fraction parts agree
	paise := int64(math.Round(amount * 100))
	whole := paise / 100
	cents := paise % 100

	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	b.Grow(len(s) + len(s)/2 + 4)
	if neg {
		b.WriteByte('-')
	}

	if len(s) <= 3 {
		b.WriteString(s)
	} else {
		head := s[:len(s)-3]
		// Group the head in twos from the right
		rem := len(head) % 2
		if rem == 1 {
			b.WriteString(head[:1])
			head = head[1:]
			b.WriteByte(',')
		}
		for i := 0; i < len(head); i += 2 {
			b.WriteString(head[i : i+2])
			b.WriteByte(',')
		}
		b.WriteString(s[len(s)-3:])
	}

	if cents != 0 {
		if cents%10 == 0 {
			b.WriteByte('.')
			b.WriteString(strconv.FormatInt(cents/10, 10))
		} else {
			b.WriteByte('.')
			if cents < 10 {
				b.WriteByte('0')
			}
			b.WriteString(strconv.FormatInt(cents, 10))
		}
	}

	return b.String()
}
