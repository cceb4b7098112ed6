package utils

import "strings"

// SplitList splits a comma separated form field into trimmed, non-empty parts.
func SplitList(s string) []string {
	return CleanList(strings.Split(s, ","))
}

// CleanList trims every entry and drops the empty ones. The result is never nil.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// AnyContainsFold reports whether any of items contains substr, ignoring case.
func AnyContainsFold(items []string, substr string) bool {
	for _, item := range items {
		if ContainsFold(item, substr) {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
