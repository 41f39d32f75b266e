package repository

import (
	"context"
	"fmt"
	"time"

	"locallibrary/internal/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// instanceOrder lists soonest-due copies first. Copies without a due date
// sort after every dated copy, on both Postgres and SQLite.
const instanceOrder = "due_back asc nulls last, id asc"

// InstanceFilter narrows a copy listing. Nil fields do not filter.
type InstanceFilter struct {
	Status     *models.LoanStatus
	BorrowerID *string
	BookID     *int64
}

type BookInstanceRepository interface {
	List(ctx context.Context, filter InstanceFilter, page Page) ([]models.BookInstance, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.BookInstance, error)
	Create(ctx context.Context, inst *models.BookInstance) error
	Update(ctx context.Context, inst *models.BookInstance) error
	UpdateLoan(ctx context.Context, inst *models.BookInstance) error
	UpdateDueBack(ctx context.Context, id uuid.UUID, dueBack time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, status *models.LoanStatus) (int64, error)
}

type bookInstanceRepository struct {
	db *gorm.DB
}

func NewBookInstanceRepository(db *gorm.DB) BookInstanceRepository {
	return &bookInstanceRepository{db: db}
}

func (r *bookInstanceRepository) filtered(ctx context.Context, filter InstanceFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.BookInstance{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.BorrowerID != nil {
		q = q.Where("borrower_id = ?", *filter.BorrowerID)
	}
	if filter.BookID != nil {
		q = q.Where("book_id = ?", *filter.BookID)
	}
	return q
}

func (r *bookInstanceRepository) List(ctx context.Context, filter InstanceFilter, page Page) ([]models.BookInstance, int64, error) {
	var list []models.BookInstance
	var total int64

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count book instances: %w", err)
	}

	if err := r.filtered(ctx, filter).
		Preload("Book").
		Preload("Borrower").
		Order(instanceOrder).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list book instances: %w", err)
	}
	return list, total, nil
}

func (r *bookInstanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BookInstance, error) {
	var inst models.BookInstance
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Borrower").
		First(&inst, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &inst, nil
}

func (r *bookInstanceRepository) Create(ctx context.Context, inst *models.BookInstance) error {
	if err := r.db.WithContext(ctx).Omit("Book", "Borrower").Create(inst).Error; err != nil {
		return fmt.Errorf("create book instance: %w", translate(err))
	}
	return nil
}

// Update writes every mutable column. The id is never rewritten.
func (r *bookInstanceRepository) Update(ctx context.Context, inst *models.BookInstance) error {
	return r.updateColumns(ctx, inst, "book_id", "imprint", "status", "due_back", "borrower_id")
}

// UpdateLoan writes the loan triple: status, due_back and borrower.
func (r *bookInstanceRepository) UpdateLoan(ctx context.Context, inst *models.BookInstance) error {
	return r.updateColumns(ctx, inst, "status", "due_back", "borrower_id")
}

func (r *bookInstanceRepository) updateColumns(ctx context.Context, inst *models.BookInstance, columns ...string) error {
	res := r.db.WithContext(ctx).
		Model(&models.BookInstance{ID: inst.ID}).
		Select(columns).
		Updates(inst)
	if res.Error != nil {
		return fmt.Errorf("update book instance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDueBack is a single-row, single-column write. Concurrent renewals of
// the same copy are last-writer-wins.
func (r *bookInstanceRepository) UpdateDueBack(ctx context.Context, id uuid.UUID, dueBack time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.BookInstance{}).
		Where("id = ?", id).
		Update("due_back", models.DateOf(dueBack))
	if res.Error != nil {
		return fmt.Errorf("update due date: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.BookInstance{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete book instance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count counts copies, optionally only those in one status.
func (r *bookInstanceRepository) Count(ctx context.Context, status *models.LoanStatus) (int64, error) {
	var n int64
	if err := r.filtered(ctx, InstanceFilter{Status: status}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count book instances: %w", err)
	}
	return n, nil
}
