package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/repository"

	"github.com/google/uuid"
)

const (
	// MaxRenewalAhead is the furthest a due date may be pushed from today.
	MaxRenewalAhead = 4 * 7 * 24 * time.Hour
	// DefaultRenewalPeriod is the date offered when the caller proposes none.
	DefaultRenewalPeriod = 3 * 7 * 24 * time.Hour

	msgRenewalInPast   = "Invalid date - renewal in past"
	msgRenewalTooFar   = "Invalid date - renewal more than 4 weeks ahead"
	renewalDateField   = "renewal_date"
	AllLoansRedirect   = "/all-loans"
	checkoutDateField  = "due_back"
	borrowerField      = "borrower_id"
	msgUnknownBorrower = "Unknown borrower"
)

// RenewalForm is what a librarian sees before renewing a copy.
type RenewalForm struct {
	Instance     *models.BookInstance
	ProposedDate time.Time
}

type LoanService interface {
	// Renew moves the due date of one copy. See ValidateRenewalDate for the bounds.
	Renew(ctx context.Context, actor Actor, id uuid.UUID, proposed time.Time) (*models.BookInstance, error)
	RenewalForm(ctx context.Context, actor Actor, id uuid.UUID) (*RenewalForm, error)
	Checkout(ctx context.Context, actor Actor, id uuid.UUID, borrowerID string, due *time.Time) (*models.BookInstance, error)
	MarkReturned(ctx context.Context, actor Actor, id uuid.UUID) (*models.BookInstance, error)
	MyLoans(ctx context.Context, actor Actor, page int) (*PageResult[models.BookInstance], error)
	AllLoans(ctx context.Context, actor Actor, page int) (*PageResult[models.BookInstance], error)
}

type loanService struct {
	instances repository.BookInstanceRepository
	users     repository.UserRepository
	now       func() time.Time
	logger    *slog.Logger
}

// LoanOption configures a LoanService.
type LoanOption func(*loanService)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) LoanOption {
	return func(s *loanService) {
		s.now = now
	}
}

// WithLogger sets the logger used for loan audit records.
func WithLogger(l *slog.Logger) LoanOption {
	return func(s *loanService) {
		s.logger = l
	}
}

func NewLoanService(instances repository.BookInstanceRepository, users repository.UserRepository, opts ...LoanOption) LoanService {
	s := &loanService{
		instances: instances,
		users:     users,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateRenewalDate accepts dates from today up to and including four
// weeks from today, both taken at now. The result is truncated to a date.
func ValidateRenewalDate(proposed, now time.Time) (time.Time, error) {
	return validateLoanDate(renewalDateField, proposed, now)
}

func validateLoanDate(field string, proposed, now time.Time) (time.Time, error) {
	date := models.DateOf(proposed)
	today := models.Today(now)
	value := date.Format(models.DateLayout)

	if date.Before(today) {
		return time.Time{}, invalid(field, value, msgRenewalInPast)
	}
	if date.After(today.Add(MaxRenewalAhead)) {
		return time.Time{}, invalid(field, value, msgRenewalTooFar)
	}
	return date, nil
}

// ProposedRenewalDate is today plus three weeks.
func ProposedRenewalDate(now time.Time) time.Time {
	return models.Today(now).Add(DefaultRenewalPeriod)
}

func (s *loanService) Renew(ctx context.Context, actor Actor, id uuid.UUID, proposed time.Time) (*models.BookInstance, error) {
	// checked before anything is read
	if err := actor.Require(models.CanMarkReturned); err != nil {
		return nil, err
	}

	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("renew %s: %w", id, err)
	}

	due, err := ValidateRenewalDate(proposed, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.instances.UpdateDueBack(ctx, id, due); err != nil {
		return nil, fmt.Errorf("renew %s: %w", id, err)
	}
	inst.DueBack = &due

	s.logger.Info("loan renewed",
		"instance_id", id.String(),
		"due_back", due.Format(models.DateLayout),
		"actor", actor.Username,
	)
	return inst, nil
}

func (s *loanService) RenewalForm(ctx context.Context, actor Actor, id uuid.UUID) (*RenewalForm, error) {
	if err := actor.Require(models.CanMarkReturned); err != nil {
		return nil, err
	}
	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("renewal form %s: %w", id, err)
	}
	return &RenewalForm{Instance: inst, ProposedDate: ProposedRenewalDate(s.now())}, nil
}

// Checkout lends an available (or reserved) copy to borrowerID. A nil due
// date defaults to the standard three-week period.
func (s *loanService) Checkout(ctx context.Context, actor Actor, id uuid.UUID, borrowerID string, due *time.Time) (*models.BookInstance, error) {
	if err := actor.Require(models.CanMarkReturned); err != nil {
		return nil, err
	}

	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("checkout %s: %w", id, err)
	}
	if inst.Status != models.StatusAvailable && inst.Status != models.StatusReserved {
		return nil, fmt.Errorf("%w: copy is %s", ErrInvalidTransition, inst.Status.Label())
	}

	if _, err := s.users.FindByID(ctx, borrowerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid(borrowerField, borrowerID, msgUnknownBorrower)
		}
		return nil, fmt.Errorf("checkout %s: %w", id, err)
	}

	now := s.now()
	dueDate := ProposedRenewalDate(now)
	if due != nil {
		if dueDate, err = validateLoanDate(checkoutDateField, *due, now); err != nil {
			return nil, err
		}
	}

	inst.Status = models.StatusOnLoan
	inst.DueBack = &dueDate
	inst.BorrowerID = &borrowerID
	if err := s.instances.UpdateLoan(ctx, inst); err != nil {
		return nil, fmt.Errorf("checkout %s: %w", id, err)
	}

	s.logger.Info("copy checked out",
		"instance_id", id.String(),
		"borrower_id", borrowerID,
		"due_back", dueDate.Format(models.DateLayout),
		"actor", actor.Username,
	)
	return inst, nil
}

// MarkReturned puts an on-loan copy back on the shelf.
func (s *loanService) MarkReturned(ctx context.Context, actor Actor, id uuid.UUID) (*models.BookInstance, error) {
	if err := actor.Require(models.CanMarkReturned); err != nil {
		return nil, err
	}

	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("return %s: %w", id, err)
	}
	if inst.Status != models.StatusOnLoan {
		return nil, fmt.Errorf("%w: copy is %s", ErrInvalidTransition, inst.Status.Label())
	}

	inst.Status = models.StatusAvailable
	inst.ClearLoan()
	if err := s.instances.UpdateLoan(ctx, inst); err != nil {
		return nil, fmt.Errorf("return %s: %w", id, err)
	}

	s.logger.Info("copy returned", "instance_id", id.String(), "actor", actor.Username)
	return inst, nil
}

func (s *loanService) MyLoans(ctx context.Context, actor Actor, page int) (*PageResult[models.BookInstance], error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	onLoan := models.StatusOnLoan
	return s.list(ctx, repository.InstanceFilter{Status: &onLoan, BorrowerID: &actor.UserID}, page)
}

func (s *loanService) AllLoans(ctx context.Context, actor Actor, page int) (*PageResult[models.BookInstance], error) {
	if err := actor.Require(models.CanMarkReturned); err != nil {
		return nil, err
	}
	onLoan := models.StatusOnLoan
	return s.list(ctx, repository.InstanceFilter{Status: &onLoan}, page)
}

func (s *loanService) list(ctx context.Context, filter repository.InstanceFilter, number int) (*PageResult[models.BookInstance], error) {
	page := pageOf(number, InstancePageSize)
	items, total, err := s.instances.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return paged(items, total, page)
}
