package repository

import (
	"context"
	"fmt"
	"strings"

	"locallibrary/internal/http-api/models"

	"gorm.io/gorm"
)

const bookOrder = "books.title asc, books.id asc"

// BookFilter narrows a book listing. Zero value lists everything.
type BookFilter struct {
	// Title is a case-insensitive substring match.
	Title    string
	AuthorID *int64
	GenreID  *int64
}

type BookRepository interface {
	List(ctx context.Context, filter BookFilter, page Page) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	ReplaceGenres(ctx context.Context, bookID int64, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// genresByName keeps preloaded genre lists in a stable order.
func genresByName(db *gorm.DB) *gorm.DB {
	return db.Order("genres.name asc")
}

func (r *bookRepository) filtered(ctx context.Context, filter BookFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Book{})
	if t := strings.TrimSpace(filter.Title); t != "" {
		q = q.Where("LOWER(books.title) LIKE ?", "%"+strings.ToLower(t)+"%")
	}
	if filter.AuthorID != nil {
		q = q.Where("books.author_id = ?", *filter.AuthorID)
	}
	if filter.GenreID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM book_genres bg WHERE bg.book_id = books.id AND bg.genre_id = ?)", *filter.GenreID)
	}
	return q
}

func (r *bookRepository) List(ctx context.Context, filter BookFilter, page Page) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	if err := r.filtered(ctx, filter).
		Preload("Author").
		Preload("Genres", genresByName).
		Order(bookOrder).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return list, total, nil
}

// GetByID loads the book with author, genres and copies.
func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Genres", genresByName).
		Preload("Instances", func(db *gorm.DB) *gorm.DB { return db.Order(instanceOrder) }).
		First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	// genre links are written by ReplaceGenres, not by association upsert
	if err := r.db.WithContext(ctx).Omit("Genres", "Author", "Instances").Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", translate(err))
	}
	return nil
}

func (r *bookRepository) Update(ctx context.Context, b *models.Book) error {
	res := r.db.WithContext(ctx).
		Model(&models.Book{ID: b.ID}).
		Select("title", "summary", "isbn", "author_id").
		Updates(b)
	if res.Error != nil {
		return fmt.Errorf("update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceGenres sets the book's genre links to exactly genreIDs.
func (r *bookRepository) ReplaceGenres(ctx context.Context, bookID int64, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Book{}).Where("id = ?", bookID).Count(&n).Error; err != nil {
			return fmt.Errorf("find book: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&models.BookGenre{}).Error; err != nil {
			return fmt.Errorf("clear genres: %w", err)
		}
		if len(genreIDs) == 0 {
			return nil
		}
		links := make([]models.BookGenre, 0, len(genreIDs))
		seen := make(map[int64]bool, len(genreIDs))
		for _, gid := range genreIDs {
			if seen[gid] {
				continue
			}
			seen[gid] = true
			links = append(links, models.BookGenre{BookID: bookID, GenreID: gid})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("link genres: %w", err)
		}
		return nil
	})
}

// Delete removes the book. Its copies survive with no book reference.
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BookInstance{}).
			Where("book_id = ?", id).
			Update("book_id", nil).Error; err != nil {
			return fmt.Errorf("detach copies from book: %w", err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookGenre{}).Error; err != nil {
			return fmt.Errorf("unlink book genres: %w", err)
		}
		res := tx.Delete(&models.Book{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete book: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
