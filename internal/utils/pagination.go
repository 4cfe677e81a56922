// Package utils provides small, generic helpers shared across layers,
// independent of domain logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int, returning def when the string is
// empty or not a valid integer.
//
// Example:
//
//	n := utils.AtoiDefault("3", 1)  // returns 3
//	n = utils.AtoiDefault("", 20)   // returns 20
//	n = utils.AtoiDefault("x", 20)  // returns 20
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPage bounds page and pageSize to sane values: page >= 1 and
// 1 <= pageSize <= maxSize.
func ClampPage(page, pageSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}
