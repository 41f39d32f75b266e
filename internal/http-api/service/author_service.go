package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/repository"
)

// AuthorInput carries the editable fields of an author.
type AuthorInput struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	DateOfDeath *time.Time
}

type AuthorService interface {
	List(ctx context.Context, actor Actor, page int) (*PageResult[models.Author], error)
	Get(ctx context.Context, id int64) (*models.Author, error)
	Create(ctx context.Context, actor Actor, in AuthorInput) (*models.Author, error)
	Update(ctx context.Context, actor Actor, id int64, in AuthorInput) (*models.Author, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}

type authorService struct {
	authors repository.AuthorRepository
}

func NewAuthorService(authors repository.AuthorRepository) AuthorService {
	return &authorService{authors: authors}
}

// List is only visible to signed-in users.
func (s *authorService) List(ctx context.Context, actor Actor, number int) (*PageResult[models.Author], error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	page := pageOf(number, AuthorPageSize)
	items, total, err := s.authors.List(ctx, page)
	if err != nil {
		return nil, err
	}
	return paged(items, total, page)
}

func (s *authorService) Get(ctx context.Context, id int64) (*models.Author, error) {
	a, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("author %d: %w", id, err)
	}
	return a, nil
}

func (in AuthorInput) toModel() (*models.Author, error) {
	a := &models.Author{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
		DateOfDeath: in.DateOfDeath,
	}
	a.Normalize()

	if a.FirstName == "" {
		return nil, invalid("first_name", "", "First name is required")
	}
	if a.LastName == "" {
		return nil, invalid("last_name", "", "Last name is required")
	}
	if err := a.CheckLifespan(); err != nil {
		if errors.Is(err, models.ErrDeathBeforeBirth) {
			return nil, invalid("date_of_death", models.FormatDate(a.DateOfDeath), "Date of death is before date of birth")
		}
		return nil, err
	}
	return a, nil
}

func (s *authorService) Create(ctx context.Context, actor Actor, in AuthorInput) (*models.Author, error) {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return nil, err
	}
	a, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.authors.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *authorService) Update(ctx context.Context, actor Actor, id int64, in AuthorInput) (*models.Author, error) {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return nil, err
	}
	a, err := in.toModel()
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := s.authors.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("author %d: %w", id, err)
	}
	return a, nil
}

// Delete removes the author. Their books are kept without an author.
func (s *authorService) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return err
	}
	if err := s.authors.Delete(ctx, id); err != nil {
		return fmt.Errorf("author %d: %w", id, err)
	}
	return nil
}
