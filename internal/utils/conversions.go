package utils

import "strings"

// ToStringSlice reads a decoded JSON claim that may hold a list of strings or
// a single space-separated string, as "scope" does. Non-string list items are
// skipped.
func ToStringSlice(v any) []string {
	switch t := v.(type) {
	case string:
		return strings.Fields(t)
	case []string:
		return append([]string(nil), t...)
	case []any:
		stringSlice := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				stringSlice = append(stringSlice, s)
			}
		}
		return stringSlice
	}
	return nil
}

// AppendUnique appends the values of add that are not already in dst.
func AppendUnique(dst []string, add ...string) []string {
	for _, s := range add {
		if s == "" || contains(dst, s) {
			continue
		}
		dst = append(dst, s)
	}
	return dst
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
