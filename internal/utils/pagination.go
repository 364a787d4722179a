// Package utils provides small helpers shared by the HTTP layer.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or invalid.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParsePage reads 1-based page and page_size query values. page defaults to
// 1; size defaults to defSize and is clamped to [1, maxSize].
func ParsePage(pageStr, sizeStr string, defSize, maxSize int) (page, size int) {
	page = AtoiDefault(pageStr, 1)
	if page < 1 {
		page = 1
	}
	size = AtoiDefault(sizeStr, defSize)
	if size < 1 {
		size = 1
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return page, size
}

// TotalPages is ceil(total / size); zero for an empty set.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
