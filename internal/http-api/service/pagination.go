package service

import (
	"fmt"

	"locallibrary/internal/http-api/repository"
)

// Fixed page sizes per listing.
const (
	BookPageSize     = 3
	AuthorPageSize   = 10
	InstancePageSize = 10
)

// PageResult is one page of an ordered listing.
type PageResult[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int64
}

func (p PageResult[T]) TotalPages() int64 {
	return repository.Page{Number: p.Page, Size: p.PageSize}.TotalPages(p.Total)
}

func (p PageResult[T]) HasNext() bool {
	return int64(p.Page) < p.TotalPages()
}

func (p PageResult[T]) HasPrevious() bool {
	return p.Page > 1
}

func pageOf(number, size int) repository.Page {
	if number < 1 {
		number = 1
	}
	return repository.Page{Number: number, Size: size}
}

// paged wraps a listing result. A page past the last one is NotFound,
// except page 1 of an empty listing.
func paged[T any](items []T, total int64, page repository.Page) (*PageResult[T], error) {
	res := &PageResult[T]{Items: items, Page: page.Number, PageSize: page.Size, Total: total}
	if page.Number > 1 && int64(page.Number) > res.TotalPages() {
		return nil, fmt.Errorf("%w: page %d", ErrNotFound, page.Number)
	}
	return res, nil
}
