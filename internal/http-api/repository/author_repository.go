package repository

import (
	"context"
	"fmt"

	"locallibrary/internal/http-api/models"

	"gorm.io/gorm"
)

// authorOrder is the default author listing order.
const authorOrder = "last_name asc, first_name asc, id asc"

type AuthorRepository interface {
	List(ctx context.Context, page Page) ([]models.Author, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Author, error)
	Create(ctx context.Context, a *models.Author) error
	Update(ctx context.Context, a *models.Author) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) List(ctx context.Context, page Page) ([]models.Author, int64, error) {
	var list []models.Author
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Author{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Order(authorOrder).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	return list, total, nil
}

// GetByID loads the author with their books ordered by title.
func (r *authorRepository) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	var a models.Author
	if err := r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB { return db.Order("title asc, id asc") }).
		First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *authorRepository) Create(ctx context.Context, a *models.Author) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create author: %w", translate(err))
	}
	return nil
}

func (r *authorRepository) Update(ctx context.Context, a *models.Author) error {
	res := r.db.WithContext(ctx).
		Model(&models.Author{ID: a.ID}).
		Select("first_name", "last_name", "date_of_birth", "date_of_death").
		Updates(a)
	if res.Error != nil {
		return fmt.Errorf("update author: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the author. Their books survive with no author.
func (r *authorRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Book{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error; err != nil {
			return fmt.Errorf("detach books from author: %w", err)
		}
		res := tx.Delete(&models.Author{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete author: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *authorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Author{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}
