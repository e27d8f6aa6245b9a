package util

import "strings"

// SplitCommaSeparated splits a comma-separated string and trims whitespace
// from each element. Empty input returns nil. Used to parse --tags flag
// values and the persisted default_tags setting.
func SplitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// AddToCSV adds a value to a comma-separated list if not already present.
// Returns the value itself if the list is empty. Used by the tags
// subcommand to edit a persisted default tag list.
func AddToCSV(list, value string) string {
	if list == "" {
		return value
	}
	parts := strings.Split(list, ",")
	for _, p := range parts {
		if strings.TrimSpace(p) == value {
			return list // Already in list
		}
	}
	return list + "," + value
}

// RemoveFromCSV removes a value from a comma-separated list.
func RemoveFromCSV(list, value string) string {
	parts := strings.Split(list, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" && p != value {
			result = append(result, p)
		}
	}
	return strings.Join(result, ",")
}
