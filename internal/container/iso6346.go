package container

import (
	"fmt"
	"strings"
)

// letterValues holds the ISO 6346 equivalents for A-Z. Values start at 10
// and skip multiples of 11.
var letterValues = func() map[byte]int {
	vals := make(map[byte]int, 26)
	v := 10
	for c := byte('A'); c <= 'Z'; c++ {
		if v%11 == 0 {
			v++
		}
		vals[c] = v
		v++
	}
	return vals
}()

// CheckDigit computes the ISO 6346 check digit for the first ten
// characters of a container number (owner code, category and serial).
func CheckDigit(prefix string) (int, error) {
	if len(prefix) != 10 {
		return 0, fmt.Errorf("container prefix must be 10 characters, got %d", len(prefix))
	}

	sum := 0
	for i := 0; i < 10; i++ {
		c := prefix[i]
		var v int
		switch {
		case i < 4 && c >= 'A' && c <= 'Z':
			v = letterValues[c]
		case i >= 4 && c >= '0' && c <= '9':
			v = int(c - '0')
		default:
			return 0, fmt.Errorf("invalid character %q at position %d", c, i+1)
		}
		sum += v << i
	}

	return sum % 11 % 10, nil
}

// NormalizeNumber upper-cases and strips spaces and dashes, so
// "csqu 305438-3" becomes "CSQU3054383".
func NormalizeNumber(no string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.ToUpper(no))
}

// ValidNumber reports whether no is a well formed container number with a
// matching check digit.
func ValidNumber(no string) bool {
	if len(no) != 11 {
		return false
	}
	want, err := CheckDigit(no[:10])
	if err != nil {
		return false
	}
	last := no[10]
	return last >= '0' && last <= '9' && int(last-'0') == want
}
