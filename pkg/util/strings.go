package util

// TrimString cuts s to at most length bytes.
func TrimString(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return s[:length]
}
