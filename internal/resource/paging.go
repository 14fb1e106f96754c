package resource

import (
	"errors"
	"strings"
)

// DefaultPageSize is the number of cards on one page of the grid
const DefaultPageSize = 6

// ErrPageOutOfRange is returned for a page outside [1, pages]
var ErrPageOutOfRange = errors.New("page out of range")

// Page is one slice of a filtered collection
type Page[T any] struct {
	Items      []T
	Number     int
	Pages      int
	TotalItems int
}

// Filter keeps the records whose search text contains term, ignoring case.
// A blank term keeps everything. The result never aliases items.
func Filter[T Record](items []T, term string) []T {
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]T, 0, len(items))
	for _, item := range items {
		if term == "" || matches(item, term) {
			out = append(out, item)
		}
	}
	return out
}

func matches[T Record](item T, term string) bool {
	for _, text := range item.SearchText() {
		if strings.Contains(strings.ToLower(text), term) {
			return true
		}
	}
	return false
}

// PageCount is ceil(n/size)
func PageCount(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (n + size - 1) / size
}

// PageOf slices items into pages of size and returns page number page
// (1-based). Page 1 of an empty collection is an empty page.
func PageOf[T any](items []T, page, size int) (Page[T], error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := PageCount(len(items), size)

	if len(items) == 0 && page == 1 {
		return Page[T]{Items: []T{}, Number: 1, Pages: 0}, nil
	}
	if page < 1 || page > pages {
		return Page[T]{}, ErrPageOutOfRange
	}

	start := (page - 1) * size
	end := min(start+size, len(items))

	slice := make([]T, end-start)
	copy(slice, items[start:end])

	return Page[T]{
		Items:      slice,
		Number:     page,
		Pages:      pages,
		TotalItems: len(items),
	}, nil
}
