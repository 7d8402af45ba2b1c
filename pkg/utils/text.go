package utils

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func WordCount(s string) int {
	return len(strings.Fields(s))
}

func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// Timestamp formats t the way every response and row in the API reports time.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000")
}
