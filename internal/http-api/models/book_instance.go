package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanStatus is the availability of a physical copy. The stored value is the
// single-letter code.
type LoanStatus string

const (
	StatusMaintenance LoanStatus = "m"
	StatusOnLoan      LoanStatus = "o"
	StatusAvailable   LoanStatus = "a"
	StatusReserved    LoanStatus = "r"
)

var loanStatusLabels = map[LoanStatus]string{
	StatusMaintenance: "Maintenance",
	StatusOnLoan:      "On loan",
	StatusAvailable:   "Available",
	StatusReserved:    "Reserved",
}

// LoanStatuses lists every status in display order.
func LoanStatuses() []LoanStatus {
	return []LoanStatus{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}
}

func (s LoanStatus) IsValid() bool {
	_, ok := loanStatusLabels[s]
	return ok
}

func (s LoanStatus) Label() string {
	if l, ok := loanStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseLoanStatus accepts either the code ("o") or the label ("On loan", case-insensitive).
func ParseLoanStatus(s string) (LoanStatus, error) {
	if st := LoanStatus(s); st.IsValid() {
		return st, nil
	}
	for st, label := range loanStatusLabels {
		if strings.EqualFold(label, strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid loan status %q", s)
}

// BookInstance is a specific copy of a book that can be borrowed.
type BookInstance struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BookID     *int64     `json:"book_id,omitempty" gorm:"index"`
	Imprint    string     `json:"imprint" gorm:"size:200;not null"`
	DueBack    *time.Time `json:"due_back,omitempty" gorm:"type:date;index"`
	Status     LoanStatus `json:"status" gorm:"size:1;not null;default:'m';index"`
	BorrowerID *string    `json:"borrower_id,omitempty" gorm:"type:uuid;index"`

	// associations
	Book     *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
	Borrower *User `json:"-" gorm:"foreignKey:BorrowerID;constraint:OnDelete:SET NULL;"`
}

func (BookInstance) TableName() string {
	return "book_instances"
}

// BeforeCreate assigns the copy's identity once and defaults the status.
func (b *BookInstance) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusMaintenance
	}
	return
}

// IsOverdue is true when a due date is set and lies strictly before today.
func (b BookInstance) IsOverdue(now time.Time) bool {
	if b.DueBack == nil {
		return false
	}
	return DateOf(*b.DueBack).Before(Today(now))
}

// ClearLoan drops the borrower and due date. Called whenever the copy leaves
// the OnLoan status.
func (b *BookInstance) ClearLoan() {
	b.DueBack = nil
	b.BorrowerID = nil
	b.Borrower = nil
}

func (b BookInstance) String() string {
	if b.Book != nil {
		return fmt.Sprintf("%s (%s)", b.ID, b.Book.Title)
	}
	return b.ID.String()
}
