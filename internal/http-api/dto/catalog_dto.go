package dto

import (
	"time"

	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/service"
)

// --- genres ---

type GenreRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func FromGenre(g models.Genre) GenreResponse {
	return GenreResponse{ID: g.ID, Name: g.Name}
}

func FromGenres(list []models.Genre) []GenreResponse {
	resp := make([]GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, FromGenre(g))
	}
	return resp
}

// --- authors ---

type AuthorRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=100"`
	LastName    string `json:"last_name" binding:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	DateOfDeath string `json:"date_of_death" binding:"omitempty,datetime=2006-01-02"`
}

// ToInput converts the request. Dates are already checked by the binding tags.
func (r AuthorRequest) ToInput() (service.AuthorInput, error) {
	born, err := parseOptionalDate(r.DateOfBirth)
	if err != nil {
		return service.AuthorInput{}, err
	}
	died, err := parseOptionalDate(r.DateOfDeath)
	if err != nil {
		return service.AuthorInput{}, err
	}
	return service.AuthorInput{FirstName: r.FirstName, LastName: r.LastName, DateOfBirth: born, DateOfDeath: died}, nil
}

// AuthorSummary is an author as embedded in a book.
type AuthorSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AuthorResponse struct {
	ID          int64                 `json:"id"`
	FirstName   string                `json:"first_name"`
	LastName    string                `json:"last_name"`
	Name        string                `json:"name"`
	DateOfBirth string                `json:"date_of_birth,omitempty"`
	DateOfDeath string                `json:"date_of_death,omitempty"`
	Books       []BookSummaryResponse `json:"books,omitempty"`
}

func FromAuthor(a models.Author) AuthorResponse {
	resp := AuthorResponse{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Name:        a.DisplayName(),
		DateOfBirth: models.FormatDate(a.DateOfBirth),
		DateOfDeath: models.FormatDate(a.DateOfDeath),
	}
	for _, b := range a.Books {
		resp.Books = append(resp.Books, BookSummaryResponse{ID: b.ID, Title: b.Title, Summary: b.Summary})
	}
	return resp
}

// --- books ---

type BookRequest struct {
	Title    string  `json:"title" binding:"required,max=200"`
	Summary  string  `json:"summary" binding:"max=1000"`
	ISBN     string  `json:"isbn" binding:"omitempty,isbn13"`
	AuthorID *int64  `json:"author_id"`
	GenreIDs []int64 `json:"genre_ids" binding:"dive,gt=0"`
}

func (r BookRequest) ToInput() service.BookInput {
	return service.BookInput{
		Title:    r.Title,
		Summary:  r.Summary,
		ISBN:     r.ISBN,
		AuthorID: r.AuthorID,
		GenreIDs: r.GenreIDs,
	}
}

type BookSummaryResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

type BookResponse struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	Summary   string             `json:"summary"`
	ISBN      string             `json:"isbn"`
	Author    *AuthorSummary     `json:"author,omitempty"`
	Genre     string             `json:"genre"`
	Genres    []GenreResponse    `json:"genres"`
	Instances []InstanceResponse `json:"instances,omitempty"`
}

// FromBook maps a book. now decides which copies are overdue.
func FromBook(b models.Book, now time.Time) BookResponse {
	resp := BookResponse{
		ID:      b.ID,
		Title:   b.Title,
		Summary: b.Summary,
		ISBN:    b.ISBN,
		Genre:   b.DisplayGenre(),
		Genres:  FromGenres(b.Genres),
	}
	if b.Author != nil {
		resp.Author = &AuthorSummary{ID: b.Author.ID, Name: b.Author.DisplayName()}
	}
	for _, inst := range b.Instances {
		resp.Instances = append(resp.Instances, FromInstance(inst, now))
	}
	return resp
}

// --- copies ---

type InstanceRequest struct {
	BookID  *int64 `json:"book_id"`
	Imprint string `json:"imprint" binding:"required,max=200"`
	Status  string `json:"status" binding:"omitempty,loan_status"`
}

func (r InstanceRequest) ToInput() service.InstanceInput {
	in := service.InstanceInput{BookID: r.BookID, Imprint: r.Imprint}
	if r.Status != "" {
		// loan_status has already accepted the value
		st, _ := models.ParseLoanStatus(r.Status)
		in.Status = &st
	}
	return in
}

type InstanceResponse struct {
	ID          string `json:"id"`
	BookID      *int64 `json:"book_id,omitempty"`
	BookTitle   string `json:"book_title,omitempty"`
	Imprint     string `json:"imprint"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	DueBack     string `json:"due_back,omitempty"`
	BorrowerID  string `json:"borrower_id,omitempty"`
	Borrower    string `json:"borrower,omitempty"`
	IsOverdue   bool   `json:"is_overdue"`
}

func FromInstance(inst models.BookInstance, now time.Time) InstanceResponse {
	resp := InstanceResponse{
		ID:          inst.ID.String(),
		BookID:      inst.BookID,
		Imprint:     inst.Imprint,
		Status:      string(inst.Status),
		StatusLabel: inst.Status.Label(),
		DueBack:     models.FormatDate(inst.DueBack),
		IsOverdue:   inst.IsOverdue(now),
	}
	if inst.Book != nil {
		resp.BookTitle = inst.Book.Title
	}
	if inst.BorrowerID != nil {
		resp.BorrowerID = *inst.BorrowerID
	}
	if inst.Borrower != nil {
		resp.Borrower = inst.Borrower.Username
	}
	return resp
}

// --- loans ---

type RenewRequest struct {
	RenewalDate string `json:"renewal_date" binding:"required,datetime=2006-01-02"`
}

type RenewalFormResponse struct {
	Instance     InstanceResponse `json:"instance"`
	RenewalDate  string           `json:"renewal_date"`
	MaxRenewalTo string           `json:"max_renewal_date"`
}

func FromRenewalForm(f *service.RenewalForm, now time.Time) RenewalFormResponse {
	latest := models.Today(now).Add(service.MaxRenewalAhead)
	return RenewalFormResponse{
		Instance:     FromInstance(*f.Instance, now),
		RenewalDate:  f.ProposedDate.Format(models.DateLayout),
		MaxRenewalTo: latest.Format(models.DateLayout),
	}
}

// RenewResponse tells the client where to go once the renewal is stored.
type RenewResponse struct {
	Instance   InstanceResponse `json:"instance"`
	RedirectTo string           `json:"redirect_to"`
}

type CheckoutRequest struct {
	BorrowerID string `json:"borrower_id" binding:"required"`
	DueBack    string `json:"due_back" binding:"omitempty,datetime=2006-01-02"`
}

func (r CheckoutRequest) DueDate() (*time.Time, error) {
	return parseOptionalDate(r.DueBack)
}
