package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/repository"

	"github.com/google/uuid"
)

// InstanceInput carries the editable fields of a copy. A nil Status keeps
// the current one, or Maintenance on create.
type InstanceInput struct {
	BookID  *int64
	Imprint string
	Status  *models.LoanStatus
}

type InstanceService interface {
	List(ctx context.Context, status *models.LoanStatus, page int) (*PageResult[models.BookInstance], error)
	Get(ctx context.Context, id uuid.UUID) (*models.BookInstance, error)
	Create(ctx context.Context, actor Actor, in InstanceInput) (*models.BookInstance, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, in InstanceInput) (*models.BookInstance, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type instanceService struct {
	instances repository.BookInstanceRepository
	books     repository.BookRepository
}

func NewInstanceService(instances repository.BookInstanceRepository, books repository.BookRepository) InstanceService {
	return &instanceService{instances: instances, books: books}
}

func (s *instanceService) List(ctx context.Context, status *models.LoanStatus, number int) (*PageResult[models.BookInstance], error) {
	page := pageOf(number, InstancePageSize)
	items, total, err := s.instances.List(ctx, repository.InstanceFilter{Status: status}, page)
	if err != nil {
		return nil, err
	}
	return paged(items, total, page)
}

func (s *instanceService) Get(ctx context.Context, id uuid.UUID) (*models.BookInstance, error) {
	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("book instance %s: %w", id, err)
	}
	return inst, nil
}

func (s *instanceService) check(ctx context.Context, in *InstanceInput) error {
	in.Imprint = strings.TrimSpace(in.Imprint)
	if in.Imprint == "" {
		return invalid("imprint", "", "Imprint is required")
	}
	if in.Status != nil && !in.Status.IsValid() {
		return invalid("status", string(*in.Status), "Unknown status")
	}
	if in.BookID != nil {
		if _, err := s.books.GetByID(ctx, *in.BookID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("book_id", strconv.FormatInt(*in.BookID, 10), "Unknown book")
			}
			return err
		}
	}
	return nil
}

// Create adds a copy. Copies cannot be created on loan; use Checkout.
func (s *instanceService) Create(ctx context.Context, actor Actor, in InstanceInput) (*models.BookInstance, error) {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return nil, err
	}
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}

	inst := &models.BookInstance{BookID: in.BookID, Imprint: in.Imprint, Status: models.StatusMaintenance}
	if in.Status != nil {
		if *in.Status == models.StatusOnLoan {
			return nil, fmt.Errorf("%w: new copies cannot start on loan", ErrInvalidTransition)
		}
		inst.Status = *in.Status
	}
	if err := s.instances.Create(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// Update edits a copy. Moving a copy off loan drops its borrower and due
// date; moving one onto loan is only possible through Checkout.
func (s *instanceService) Update(ctx context.Context, actor Actor, id uuid.UUID, in InstanceInput) (*models.BookInstance, error) {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return nil, err
	}
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}

	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("book instance %s: %w", id, err)
	}

	if in.Status != nil && *in.Status != inst.Status {
		if *in.Status == models.StatusOnLoan {
			return nil, fmt.Errorf("%w: use checkout to lend a copy", ErrInvalidTransition)
		}
		if inst.Status == models.StatusOnLoan {
			inst.ClearLoan()
		}
		inst.Status = *in.Status
	}
	inst.BookID = in.BookID
	inst.Book = nil
	inst.Imprint = in.Imprint

	if err := s.instances.Update(ctx, inst); err != nil {
		return nil, fmt.Errorf("book instance %s: %w", id, err)
	}
	return s.instances.GetByID(ctx, id)
}

func (s *instanceService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := actor.Require(models.CanEditCatalog); err != nil {
		return err
	}
	if err := s.instances.Delete(ctx, id); err != nil {
		return fmt.Errorf("book instance %s: %w", id, err)
	}
	return nil
}
