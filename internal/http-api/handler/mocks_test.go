package handler_test

import (
	"context"
	"time"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	args := m.Called(ctx, username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.TokenPair, *models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*service.TokenPair), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

// ValidateToken resolves the fixed test tokens without touching the mock.
func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	switch tokenString {
	case memberToken:
		return &service.Claims{UserID: "mem-1", Username: "member", Type: "access"}, nil
	case librarianToken:
		return &service.Claims{UserID: "lib-1", Username: "librarian", Perms: []string{models.CanMarkReturned}, Type: "access"}, nil
	case editorToken:
		return &service.Claims{UserID: "ed-1", Username: "editor", Perms: []string{models.CanEditCatalog}, Type: "access"}, nil
	}
	return nil, service.ErrInvalidToken
}

func (m *MockAuthService) GrantCapability(ctx context.Context, username, capability string) error {
	args := m.Called(ctx, username, capability)
	return args.Error(0)
}

func (m *MockAuthService) RevokeCapability(ctx context.Context, username, capability string) error {
	args := m.Called(ctx, username, capability)
	return args.Error(0)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Renew(ctx context.Context, actor service.Actor, id uuid.UUID, proposed time.Time) (*models.BookInstance, error) {
	args := m.Called(ctx, actor, id, proposed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookInstance), args.Error(1)
}

func (m *MockLoanService) RenewalForm(ctx context.Context, actor service.Actor, id uuid.UUID) (*service.RenewalForm, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RenewalForm), args.Error(1)
}

func (m *MockLoanService) Checkout(ctx context.Context, actor service.Actor, id uuid.UUID, borrowerID string, due *time.Time) (*models.BookInstance, error) {
	args := m.Called(ctx, actor, id, borrowerID, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookInstance), args.Error(1)
}

func (m *MockLoanService) MarkReturned(ctx context.Context, actor service.Actor, id uuid.UUID) (*models.BookInstance, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookInstance), args.Error(1)
}

func (m *MockLoanService) MyLoans(ctx context.Context, actor service.Actor, page int) (*service.PageResult[models.BookInstance], error) {
	args := m.Called(ctx, actor, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PageResult[models.BookInstance]), args.Error(1)
}

func (m *MockLoanService) AllLoans(ctx context.Context, actor service.Actor, page int) (*service.PageResult[models.BookInstance], error) {
	args := m.Called(ctx, actor, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PageResult[models.BookInstance]), args.Error(1)
}

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) List(ctx context.Context, title string, page int) (*service.PageResult[models.Book], error) {
	args := m.Called(ctx, title, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PageResult[models.Book]), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, actor service.Actor, in service.BookInput) (*models.Book, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, actor service.Actor, id int64, in service.BookInput) (*models.Book, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, actor service.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockAuthorService struct {
	mock.Mock
}

func (m *MockAuthorService) List(ctx context.Context, actor service.Actor, page int) (*service.PageResult[models.Author], error) {
	args := m.Called(ctx, actor, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PageResult[models.Author]), args.Error(1)
}

func (m *MockAuthorService) Get(ctx context.Context, id int64) (*models.Author, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorService) Create(ctx context.Context, actor service.Actor, in service.AuthorInput) (*models.Author, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorService) Update(ctx context.Context, actor service.Actor, id int64, in service.AuthorInput) (*models.Author, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorService) Delete(ctx context.Context, actor service.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) List(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreService) Create(ctx context.Context, actor service.Actor, name string) (*models.Genre, error) {
	args := m.Called(ctx, actor, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Delete(ctx context.Context, actor service.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockInstanceService struct {
	mock.Mock
}

func (m *MockInstanceService) List(ctx context.Context, status *models.LoanStatus, page int) (*service.PageResult[models.BookInstance], error) {
	args := m.Called(ctx, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PageResult[models.BookInstance]), args.Error(1)
}

func (m *MockInstanceService) Get(ctx context.Context, id uuid.UUID) (*models.BookInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookInstance), args.Error(1)
}

func (m *MockInstanceService) Create(ctx context.Context, actor service.Actor, in service.InstanceInput) (*models.BookInstance, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookInstance), args.Error(1)
}

func (m *MockInstanceService) Update(ctx context.Context, actor service.Actor, id uuid.UUID, in service.InstanceInput) (*models.BookInstance, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookInstance), args.Error(1)
}

func (m *MockInstanceService) Delete(ctx context.Context, actor service.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Index(ctx context.Context, visitor string) (*service.IndexStats, error) {
	args := m.Called(ctx, visitor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IndexStats), args.Error(1)
}
