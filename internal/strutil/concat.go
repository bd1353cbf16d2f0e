// Package strutil contains small string helpers.
package strutil

import "strings"

// Concat joins fragments in order without a separator. The result is allocated once.
func Concat(fragments []string) string {
	n := 0
	for _, s := range fragments {
		n += len(s)
	}

	var b strings.Builder
	b.Grow(n)
	for _, s := range fragments {
		b.WriteString(s)
	}
	return b.String()
}
