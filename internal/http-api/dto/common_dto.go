package dto

import (
	"time"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/service"
)

// ErrorResponse is the body of every failed request. Field and Value are set
// for rejected form input so the client can re-present it.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ListResponse is one page of a listing.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// FromPage converts a service page, mapping each item with conv.
func FromPage[M, T any](p *service.PageResult[M], conv func(M) T) ListResponse[T] {
	data := make([]T, 0, len(p.Items))
	for _, item := range p.Items {
		data = append(data, conv(item))
	}
	return ListResponse[T]{
		Data: data,
		Pagination: Pagination{
			Page:        p.Page,
			PageSize:    p.PageSize,
			Total:       p.Total,
			TotalPages:  p.TotalPages(),
			HasNext:     p.HasNext(),
			HasPrevious: p.HasPrevious(),
		},
	}
}

// parseOptionalDate turns "" into nil and anything else into a date.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

type IndexResponse struct {
	NumBooks          int64 `json:"num_books"`
	NumInstances      int64 `json:"num_instances"`
	NumInstancesAvail int64 `json:"num_instances_available"`
	NumAuthors        int64 `json:"num_authors"`
	NumGenres         int64 `json:"num_genres"`
	NumVisits         int64 `json:"num_visits"`
}

func FromIndexStats(s *service.IndexStats) IndexResponse {
	return IndexResponse{
		NumBooks:          s.Books,
		NumInstances:      s.Instances,
		NumInstancesAvail: s.InstancesAvail,
		NumAuthors:        s.Authors,
		NumGenres:         s.Genres,
		NumVisits:         s.VisitsBeforeNow,
	}
}
