package util

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func Calculate(page, size int) (offset int, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	offset = (page - 1) * size
	limit = size
	return offset, limit
}

// Meta is the pagination block attached to list responses.
func Meta(page, limit int, total int64) map[string]any {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}
