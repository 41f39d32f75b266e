package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/repository"
)

// BookInput carries the editable fields of a book.
type BookInput struct {
	Title    string
	Summary  string
	ISBN     string
	AuthorID *int64
	GenreIDs []int64
}

type BookService interface {
	List(ctx context.Context, title string, page int) (*PageResult[models.Book], error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, actor Actor, in BookInput) (*models.Book, error)
	Update(ctx context.Context, actor Actor, id int64, in BookInput) (*models.Book, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}

type bookService struct {
	books   repository.BookRepository
	authors repository.AuthorRepository
	genres  repository.GenreRepository
}

func NewBookService(books repository.BookRepository, authors repository.AuthorRepository, genres repository.GenreRepository) BookService {
	return &bookService{books: books, authors: authors, genres: genres}
}

func (s *bookService) List(ctx context.Context, title string, number int) (*PageResult[models.Book], error) {
	page := pageOf(number, BookPageSize)
	items, total, err := s.books.List(ctx, repository.BookFilter{Title: title}, page)
	if err != nil {
		return nil, err
	}
	return paged(items, total, page)
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("book %d: %w", id, err)
	}
	return b, nil
}

// checkRefs validates the input and confirms its author and genres exist.
func (s *bookService) checkRefs(ctx context.Context, in *BookInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.ISBN = strings.TrimSpace(in.ISBN)
	if in.Title == "" {
		return invalid("title", "", "Title is required")
	}

	if in.AuthorID != nil {
		if _, err := s.authors.GetByID(ctx, *in.AuthorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("author_id", strconv.FormatInt(*in.AuthorID, 10), "Unknown author")
			}
			return err
		}
	}

	if len(in.GenreIDs) > 0 {
		found, err := s.genres.FindByIDs(ctx, in.GenreIDs)
		if err != nil {
			return err
		}
		known := make(map[int64]bool, len(found))
		for _, g := range found {
			known[g.ID] = true
		}
		for _, id := range in.GenreIDs {
			if !known[id] {
				return invalid("genre_ids", strconv.FormatInt(id, 10), "Unknown genre")
			}
		}
	}
	return nil
}

func (s *bookService) Create(ctx context.Context, actor Actor, in BookInput) (*models.Book, error) {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, &in); err != nil {
		return nil, err
	}

	b := &models.Book{Title: in.Title, Summary: in.Summary, ISBN: in.ISBN, AuthorID: in.AuthorID}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	if err := s.books.ReplaceGenres(ctx, b.ID, in.GenreIDs); err != nil {
		return nil, err
	}
	return s.books.GetByID(ctx, b.ID)
}

func (s *bookService) Update(ctx context.Context, actor Actor, id int64, in BookInput) (*models.Book, error) {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, &in); err != nil {
		return nil, err
	}

	b := &models.Book{ID: id, Title: in.Title, Summary: in.Summary, ISBN: in.ISBN, AuthorID: in.AuthorID}
	if err := s.books.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("book %d: %w", id, err)
	}
	if err := s.books.ReplaceGenres(ctx, id, in.GenreIDs); err != nil {
		return nil, fmt.Errorf("book %d: %w", id, err)
	}
	return s.books.GetByID(ctx, id)
}

// Delete removes the book. Its copies are kept without a book.
func (s *bookService) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("book %d: %w", id, err)
	}
	return nil
}
