// Package text provides utilities for text processing.
package text

// CountRunes counts the number of Unicode characters (runes) in the given
// text. Announcement titles regularly contain Japanese text and emoji, so
// length limits are enforced on runes instead of bytes.
//
// Examples:
//
//	CountRunes("hello")          // returns 5 (ASCII text)
//	CountRunes("こんにちは")       // returns 5 (Japanese text)
//	CountRunes("hello世界")       // returns 7 (mixed text)
//	CountRunes("")               // returns 0 (empty string)
func CountRunes(text string) int {
	return len([]rune(text))
}
