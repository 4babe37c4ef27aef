// Package textutil provides text helpers for narrative fields.
package textutil

import "strings"

// Ellipsis is appended to text that was cut by Limit.
const Ellipsis = "…"

// Limit truncates text to at most maxChars characters (runes). When the cut
// prefix contains a space it is trimmed back to the last space so words are
// not split, then a single Ellipsis is appended. Empty text and non-positive
// limits return the text unchanged.
//
// Truncation is lossy: applying a larger limit later never restores text.
func Limit(text string, maxChars int) string {
	if text == "" || maxChars <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	cut := string(runes[:maxChars])
	if idx := strings.LastIndex(cut, " "); idx >= 0 {
		cut = cut[:idx]
	}
	return cut + Ellipsis
}
