package api

import (
	"fmt"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageQuery is bound from ?page=&limit=&sortBy=&sortOrder=.
type PageQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.SortOrder = strings.ToLower(q.SortOrder)
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
	return q
}

func (q PageQuery) Offset() int {
	n := q.Normalize()
	return (n.Page - 1) * n.Limit
}

// OrderBy builds an ORDER BY fragment. sortBy is looked up in columns
// (API name to SQL column) so user input never reaches the query text.
func (q PageQuery) OrderBy(columns map[string]string, fallback string) string {
	n := q.Normalize()
	col, ok := columns[n.SortBy]
	if !ok {
		col = fallback
	}
	return fmt.Sprintf("%s %s", col, strings.ToUpper(n.SortOrder))
}

type Page[T any] struct {
	Data       []T  `json:"data"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewPage[T any](data []T, total int, q PageQuery) Page[T] {
	n := q.Normalize()
	if data == nil {
		data = []T{}
	}
	totalPages := (total + n.Limit - 1) / n.Limit
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       n.Page,
		Limit:      n.Limit,
		TotalPages: totalPages,
		HasNext:    n.Page < totalPages,
		HasPrev:    n.Page > 1,
	}
}
