package models

import "strings"

// maxDisplayGenres caps how many genre names DisplayGenre joins.
const maxDisplayGenres = 3

// Book is a title, not a physical copy (see BookInstance).
type Book struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title    string `json:"title" gorm:"size:200;not null;index"`
	Summary  string `json:"summary" gorm:"size:1000"`
	ISBN     string `json:"isbn" gorm:"column:isbn;size:13"`
	AuthorID *int64 `json:"author_id,omitempty" gorm:"index"`

	// associations
	Author    *Author        `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL;"`
	Genres    []Genre        `json:"genres,omitempty" gorm:"many2many:book_genres;"`
	Instances []BookInstance `json:"instances,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:SET NULL;"`
}

func (Book) TableName() string {
	return "books"
}

// DisplayGenre joins the names of at most the first three genres, in the
// order they were loaded.
func (b Book) DisplayGenre() string {
	n := len(b.Genres)
	if n > maxDisplayGenres {
		n = maxDisplayGenres
	}
	names := make([]string, 0, n)
	for _, g := range b.Genres[:n] {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}
