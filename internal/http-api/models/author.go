package models

import (
	"errors"
	"strings"
	"time"
)

var ErrDeathBeforeBirth = errors.New("date of death is before date of birth")

type Author struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName   string     `json:"first_name" gorm:"size:100;not null;index:idx_authors_name,priority:2"`
	LastName    string     `json:"last_name" gorm:"size:100;not null;index:idx_authors_name,priority:1"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" gorm:"type:date"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty" gorm:"type:date"`

	Books []Book `json:"books,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Author) TableName() string {
	return "authors"
}

// DisplayName renders the author as "Last, First".
func (a Author) DisplayName() string {
	return a.LastName + ", " + a.FirstName
}

// Normalize trims names and strips the time part from the dates.
func (a *Author) Normalize() {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	if a.DateOfBirth != nil {
		d := DateOf(*a.DateOfBirth)
		a.DateOfBirth = &d
	}
	if a.DateOfDeath != nil {
		d := DateOf(*a.DateOfDeath)
		a.DateOfDeath = &d
	}
}

// CheckLifespan reports ErrDeathBeforeBirth when both dates are set and inverted.
func (a Author) CheckLifespan() error {
	if a.DateOfBirth != nil && a.DateOfDeath != nil && a.DateOfDeath.Before(*a.DateOfBirth) {
		return ErrDeathBeforeBirth
	}
	return nil
}
