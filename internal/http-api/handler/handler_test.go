package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"locallibrary/internal/http-api/dto"
	"locallibrary/internal/http-api/handler"
	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	memberToken    = "member-token"
	librarianToken = "librarian-token"
	editorToken    = "editor-token"
)

// --- SETUP ---

type fixture struct {
	auth      *MockAuthService
	loans     *MockLoanService
	books     *MockBookService
	authors   *MockAuthorService
	genres    *MockGenreService
	instances *MockInstanceService
	catalog   *MockCatalogService
	router    *gin.Engine
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, dto.RegisterValidators())

	f := &fixture{
		auth:      new(MockAuthService),
		loans:     new(MockLoanService),
		books:     new(MockBookService),
		authors:   new(MockAuthorService),
		genres:    new(MockGenreService),
		instances: new(MockInstanceService),
		catalog:   new(MockCatalogService),
	}
	f.router = handler.NewRouter(handler.Services{
		Catalog:   f.catalog,
		Books:     f.books,
		Authors:   f.authors,
		Genres:    f.genres,
		Instances: f.instances,
		Loans:     f.loans,
		Auth:      f.auth,
	}, handler.RouterOptions{
		RequestTimeout: time.Second,
		AuthRateLimit:  100,
		AuthRateBurst:  100,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			reader = bytes.NewBuffer(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func isLibrarian(a service.Actor) bool {
	return a.UserID == "lib-1" && a.HasCapability(models.CanMarkReturned)
}

func onLoan(id uuid.UUID, due time.Time) *models.BookInstance {
	borrower := "mem-1"
	return &models.BookInstance{ID: id, Imprint: "Gollancz 2001", Status: models.StatusOnLoan, DueBack: &due, BorrowerID: &borrower}
}

// --- RENEWAL ---

func TestRenew_Success(t *testing.T) {
	f := setup(t)
	id := uuid.New()
	due := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)

	f.loans.On("Renew", mock.Anything, mock.MatchedBy(isLibrarian), id, due).Return(onLoan(id, due), nil)

	w := f.do(http.MethodPost, "/instances/"+id.String()+"/renew", librarianToken, dto.RenewRequest{RenewalDate: "2026-11-05"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.RenewResponse](t, w)
	assert.Equal(t, "/all-loans", resp.RedirectTo)
	assert.Equal(t, "2026-11-05", resp.Instance.DueBack)
	f.loans.AssertExpectations(t)
}

func TestRenew_Anonymous(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/instances/"+uuid.NewString()+"/renew", "", dto.RenewRequest{RenewalDate: "2026-11-05"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.loans.AssertNotCalled(t, "Renew", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRenew_WithoutCapabilityIsForbiddenEvenForUnknownIDs(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/instances/not-a-uuid/renew", memberToken, "{broken")

	assert.Equal(t, http.StatusForbidden, w.Code)
	f.loans.AssertNotCalled(t, "Renew", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRenew_InvalidDateIsReturnedWithTheForm(t *testing.T) {
	f := setup(t)
	id := uuid.New()
	past := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	f.loans.On("Renew", mock.Anything, mock.Anything, id, past).
		Return(nil, &service.ValidationError{Field: "renewal_date", Value: "2026-10-01", Message: "Invalid date - renewal in past"})

	w := f.do(http.MethodPost, "/instances/"+id.String()+"/renew", librarianToken, dto.RenewRequest{RenewalDate: "2026-10-01"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorResponse{Error: "Invalid date - renewal in past", Field: "renewal_date", Value: "2026-10-01"}, resp)
}

func TestRenew_UnknownCopy(t *testing.T) {
	f := setup(t)
	id := uuid.New()

	f.loans.On("Renew", mock.Anything, mock.Anything, id, mock.Anything).Return(nil, service.ErrNotFound)

	w := f.do(http.MethodPost, "/instances/"+id.String()+"/renew", librarianToken, dto.RenewRequest{RenewalDate: "2026-11-05"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenew_MalformedBody(t *testing.T) {
	f := setup(t)
	id := uuid.NewString()

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/instances/"+id+"/renew", librarianToken, "{}").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/instances/"+id+"/renew", librarianToken, `{"renewal_date":"5 Nov"}`).Code)
	f.loans.AssertNotCalled(t, "Renew", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRenewalForm(t *testing.T) {
	f := setup(t)
	id := uuid.New()
	due := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	f.loans.On("RenewalForm", mock.Anything, mock.MatchedBy(isLibrarian), id).Return(&service.RenewalForm{
		Instance:     onLoan(id, due),
		ProposedDate: time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC),
	}, nil)

	w := f.do(http.MethodGet, "/instances/"+id.String()+"/renew", librarianToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.RenewalFormResponse](t, w)
	assert.Equal(t, "2026-11-05", resp.RenewalDate)
	assert.Equal(t, id.String(), resp.Instance.ID)
}

// --- LOAN LISTINGS ---

func TestAllLoans_Pagination(t *testing.T) {
	f := setup(t)
	page := &service.PageResult[models.BookInstance]{
		Items:    []models.BookInstance{*onLoan(uuid.New(), time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC))},
		Page:     2,
		PageSize: 10,
		Total:    11,
	}
	f.loans.On("AllLoans", mock.Anything, mock.Anything, 2).Return(page, nil)
	f.loans.On("AllLoans", mock.Anything, mock.Anything, 3).Return(nil, service.ErrNotFound)

	w := f.do(http.MethodGet, "/all-loans?page=2", librarianToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.ListResponse[dto.InstanceResponse]](t, w)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, int64(2), resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasPrevious)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/all-loans?page=3", librarianToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/all-loans?page=zero", librarianToken, nil).Code)
}

func TestMyLoans_Anonymous(t *testing.T) {
	f := setup(t)
	f.loans.On("MyLoans", mock.Anything, service.Anonymous, 1).Return(nil, service.ErrUnauthenticated)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/my-loans", "", nil).Code)
}

func TestCheckoutAndReturn(t *testing.T) {
	f := setup(t)
	id := uuid.New()
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	f.loans.On("Checkout", mock.Anything, mock.MatchedBy(isLibrarian), id, "mem-1", &due).Return(onLoan(id, due), nil)
	f.loans.On("MarkReturned", mock.Anything, mock.MatchedBy(isLibrarian), id).
		Return(&models.BookInstance{ID: id, Status: models.StatusAvailable}, nil)

	w := f.do(http.MethodPost, "/instances/"+id.String()+"/checkout", librarianToken, dto.CheckoutRequest{BorrowerID: "mem-1", DueBack: "2026-11-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "o", decode[dto.InstanceResponse](t, w).Status)

	w = f.do(http.MethodPost, "/instances/"+id.String()+"/return", librarianToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Available", decode[dto.InstanceResponse](t, w).StatusLabel)
}

func TestCheckout_InvalidTransitionIsConflict(t *testing.T) {
	f := setup(t)
	id := uuid.New()
	f.loans.On("Checkout", mock.Anything, mock.Anything, id, "mem-1", (*time.Time)(nil)).Return(nil, service.ErrInvalidTransition)

	w := f.do(http.MethodPost, "/instances/"+id.String()+"/checkout", librarianToken, dto.CheckoutRequest{BorrowerID: "mem-1"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- CATALOG ---

func TestIndex(t *testing.T) {
	f := setup(t)
	f.catalog.On("Index", mock.Anything, "ip:192.0.2.1").Return(&service.IndexStats{Books: 3, Instances: 5, InstancesAvail: 2, Authors: 2, Genres: 4, VisitsBeforeNow: 7}, nil)
	f.catalog.On("Index", mock.Anything, "user:mem-1").Return(&service.IndexStats{}, nil)

	w := f.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.IndexResponse{NumBooks: 3, NumInstances: 5, NumInstancesAvail: 2, NumAuthors: 2, NumGenres: 4, NumVisits: 7}, decode[dto.IndexResponse](t, w))

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/", memberToken, nil).Code)
	f.catalog.AssertExpectations(t)
}

func TestBooks_List(t *testing.T) {
	f := setup(t)
	page := &service.PageResult[models.Book]{
		Items: []models.Book{{
			ID:     1,
			Title:  "Dune",
			Genres: []models.Genre{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}},
		}},
		Page:     1,
		PageSize: 3,
		Total:    1,
	}
	f.books.On("List", mock.Anything, "dune", 1).Return(page, nil)
	f.books.On("List", mock.Anything, "", 4).Return(nil, service.ErrNotFound)

	w := f.do(http.MethodGet, "/books?title=dune", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.ListResponse[dto.BookResponse]](t, w)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "A, B, C", resp.Data[0].Genre)
	assert.Equal(t, 3, resp.Pagination.PageSize)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/books?page=4", "", nil).Code)
}

func TestBooks_Get(t *testing.T) {
	f := setup(t)
	f.books.On("Get", mock.Anything, int64(7)).Return(&models.Book{ID: 7, Title: "Emma"}, nil)
	f.books.On("Get", mock.Anything, int64(8)).Return(nil, service.ErrNotFound)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/books/7", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/books/8", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/books/abc", "", nil).Code)
}

func TestBooks_WritesNeedEditCapability(t *testing.T) {
	f := setup(t)
	req := dto.BookRequest{Title: "Emma", ISBN: "9780141439587"}

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/books", "", req).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/books", librarianToken, req).Code)
	f.books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)

	f.books.On("Create", mock.Anything, mock.Anything, service.BookInput{Title: "Emma", ISBN: "9780141439587"}).
		Return(&models.Book{ID: 9, Title: "Emma"}, nil)
	w := f.do(http.MethodPost, "/books", editorToken, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	bad := dto.BookRequest{Title: "Emma", ISBN: "12345"}
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/books", editorToken, bad).Code)

	f.books.On("Delete", mock.Anything, mock.Anything, int64(9)).Return(nil)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/books/9", editorToken, nil).Code)
}

func TestAuthors_ListNeedsLogin(t *testing.T) {
	f := setup(t)
	f.authors.On("List", mock.Anything, service.Anonymous, 1).Return(nil, service.ErrUnauthenticated)
	f.authors.On("List", mock.Anything, mock.MatchedBy(func(a service.Actor) bool { return a.UserID == "mem-1" }), 1).
		Return(&service.PageResult[models.Author]{Items: []models.Author{{ID: 1, FirstName: "Jane", LastName: "Austen"}}, Page: 1, PageSize: 10, Total: 1}, nil)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/authors", "", nil).Code)

	w := f.do(http.MethodGet, "/authors", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.ListResponse[dto.AuthorResponse]](t, w)
	assert.Equal(t, "Austen, Jane", resp.Data[0].Name)
}

func TestAuthors_CreateRejectsBadDates(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/authors", editorToken, dto.AuthorRequest{FirstName: "A", LastName: "B", DateOfBirth: "01/01/1900"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.authors.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenres(t *testing.T) {
	f := setup(t)
	f.genres.On("List", mock.Anything).Return([]models.Genre{{ID: 1, Name: "Fantasy"}}, nil)
	f.genres.On("Create", mock.Anything, mock.Anything, "Fantasy").
		Return(nil, &service.ValidationError{Field: "name", Value: "Fantasy", Message: "Genre already exists"})

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/genres", "", nil).Code)

	w := f.do(http.MethodPost, "/genres", editorToken, dto.GenreRequest{Name: "Fantasy"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", decode[dto.ErrorResponse](t, w).Field)
}

func TestInstances_List(t *testing.T) {
	f := setup(t)
	available := models.StatusAvailable
	f.instances.On("List", mock.Anything, &available, 1).
		Return(&service.PageResult[models.BookInstance]{Page: 1, PageSize: 10}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/instances?status=Available", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/instances?status=lost", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/instances/123", "", nil).Code)
}

// --- AUTH ---

func TestAuth_Login(t *testing.T) {
	f := setup(t)
	user := &models.User{ID: "lib-1", Username: "librarian", Permissions: []models.Permission{{Codename: models.CanMarkReturned}}}
	f.auth.On("Login", mock.Anything, "librarian", "password123").
		Return(&service.TokenPair{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 15 * time.Minute}, user, nil)
	f.auth.On("Login", mock.Anything, "librarian", "wrong").Return(nil, nil, service.ErrInvalidCredentials)

	w := f.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "librarian", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.AuthResponse](t, w)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, []string{models.CanMarkReturned}, resp.Permissions)

	w = f.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "librarian", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_RegisterConflict(t *testing.T) {
	f := setup(t)
	f.auth.On("Register", mock.Anything, "member", "password123", "m@example.com").Return(nil, service.ErrNameInUse)

	w := f.do(http.MethodPost, "/auth/register", "", dto.RegisterRequest{Username: "member", Password: "password123", Email: "m@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuth_RateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := new(MockAuthService)
	auth.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil, service.ErrInvalidCredentials)
	r := handler.NewRouter(handler.Services{Auth: auth}, handler.RouterOptions{
		AuthRateLimit: 0.001,
		AuthRateBurst: 1,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"a","password":"b"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
