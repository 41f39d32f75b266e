package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/repository"
)

type GenreService interface {
	List(ctx context.Context) ([]models.Genre, error)
	Create(ctx context.Context, actor Actor, name string) (*models.Genre, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}

type genreService struct {
	genres repository.GenreRepository
}

func NewGenreService(genres repository.GenreRepository) GenreService {
	return &genreService{genres: genres}
}

func (s *genreService) List(ctx context.Context) ([]models.Genre, error) {
	return s.genres.List(ctx)
}

func (s *genreService) Create(ctx context.Context, actor Actor, name string) (*models.Genre, error) {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "", "Name is required")
	}

	g := &models.Genre{Name: name}
	if err := s.genres.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("name", name, "Genre already exists")
		}
		return nil, err
	}
	return g, nil
}

// Delete removes the genre and unlinks it from every book.
func (s *genreService) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return err
	}
	if err := s.genres.Delete(ctx, id); err != nil {
		return fmt.Errorf("genre %d: %w", id, err)
	}
	return nil
}
