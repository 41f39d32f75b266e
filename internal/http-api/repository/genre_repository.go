package repository

import (
	"context"
	"fmt"

	"locallibrary/internal/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	List(ctx context.Context) ([]models.Genre, error)
	GetByID(ctx context.Context, id int64) (*models.Genre, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) List(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return list, nil
}

func (r *genreRepository) GetByID(ctx context.Context, id int64) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *genreRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Genre, error) {
	var list []models.Genre
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}
	return list, nil
}

func (r *genreRepository) Create(ctx context.Context, g *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create genre: %w", translate(err))
	}
	return nil
}

// Delete removes the genre and its book links; the books themselves stay.
func (r *genreRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", id).Delete(&models.BookGenre{}).Error; err != nil {
			return fmt.Errorf("unlink genre: %w", err)
		}
		res := tx.Delete(&models.Genre{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete genre: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *genreRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Genre{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count genres: %w", err)
	}
	return n, nil
}
