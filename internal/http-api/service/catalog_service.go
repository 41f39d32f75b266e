package service

import (
	"context"
	"log/slog"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/repository"
)

// IndexStats are the headline numbers of the home page.
type IndexStats struct {
	Books           int64
	Instances       int64
	InstancesAvail  int64
	Authors         int64
	Genres          int64
	VisitsBeforeNow int64
}

type CatalogService interface {
	Index(ctx context.Context, visitor string) (*IndexStats, error)
}

type catalogService struct {
	books     repository.BookRepository
	instances repository.BookInstanceRepository
	authors   repository.AuthorRepository
	genres    repository.GenreRepository
	visits    repository.VisitCounter
	logger    *slog.Logger
}

func NewCatalogService(
	books repository.BookRepository,
	instances repository.BookInstanceRepository,
	authors repository.AuthorRepository,
	genres repository.GenreRepository,
	visits repository.VisitCounter,
	logger *slog.Logger,
) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		books:     books,
		instances: instances,
		authors:   authors,
		genres:    genres,
		visits:    visits,
		logger:    logger,
	}
}

func (s *catalogService) Index(ctx context.Context, visitor string) (*IndexStats, error) {
	var (
		stats IndexStats
		err   error
	)

	if stats.Books, err = s.books.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Instances, err = s.instances.Count(ctx, nil); err != nil {
		return nil, err
	}
	available := models.StatusAvailable
	if stats.InstancesAvail, err = s.instances.Count(ctx, &available); err != nil {
		return nil, err
	}
	if stats.Authors, err = s.authors.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Genres, err = s.genres.Count(ctx); err != nil {
		return nil, err
	}

	// a failing counter must not take the home page down
	if s.visits != nil && visitor != "" {
		n, err := s.visits.Hit(ctx, visitor)
		if err != nil {
			s.logger.Warn("visit counter unavailable", "error", err)
		} else {
			stats.VisitsBeforeNow = n
		}
	}
	return &stats, nil
}
