package utils

import "fmt"

// DefaultMaxStringLength is used by TruncateString when maxLen is not positive.
const DefaultMaxStringLength = 500

// TruncateString shortens s to maxLen bytes and records the original length.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}
