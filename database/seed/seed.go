// Package seed loads a catalog fixture (genres, authors, books and their
// copies) from JSON.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"locallibrary/internal/http-api/models"

	"gorm.io/gorm"
)

// Catalog mirrors the fixture file.
type Catalog struct {
	Genres  []string `json:"genres"`
	Authors []Author `json:"authors"`
	Books   []Book   `json:"books"`
}

type Author struct {
	Key         string `json:"key"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	DateOfDeath string `json:"date_of_death,omitempty"`
}

type Book struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	ISBN    string   `json:"isbn"`
	Author  string   `json:"author,omitempty"` // Author.Key
	Genres  []string `json:"genres"`
	Copies  []Copy   `json:"copies"`
}

type Copy struct {
	Imprint string `json:"imprint"`
	Status  string `json:"status,omitempty"`
	DueBack string `json:"due_back,omitempty"`
}

// Summary counts what a load created.
type Summary struct {
	Genres  int
	Authors int
	Books   int
	Copies  int
}

func ReadFile(filename string) (*Catalog, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Read(file)
}

func Read(r io.Reader) (*Catalog, error) {
	var data Catalog
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return &data, nil
}

// Load writes the catalog in a single transaction. Genres, authors and books
// that already exist (by name, full name and title+ISBN) are reused, so
// loading the same file twice only adds copies once.
func Load(ctx context.Context, db *gorm.DB, data *Catalog, log *slog.Logger) (*Summary, error) {
	var sum Summary

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genreIDs, created, err := importGenres(tx, data.Genres)
		if err != nil {
			return err
		}
		sum.Genres = created

		authorIDs, created, err := importAuthors(tx, data.Authors)
		if err != nil {
			return err
		}
		sum.Authors = created

		for i, b := range data.Books {
			books, copies, err := importBook(tx, b, genreIDs, authorIDs)
			if err != nil {
				return fmt.Errorf("book %d (%q): %w", i+1, b.Title, err)
			}
			sum.Books += books
			sum.Copies += copies
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("catalog loaded", "genres", sum.Genres, "authors", sum.Authors, "books", sum.Books, "copies", sum.Copies)
	return &sum, nil
}

func importGenres(tx *gorm.DB, names []string) (map[string]int64, int, error) {
	ids := make(map[string]int64, len(names))
	created := 0
	for _, name := range names {
		g := models.Genre{Name: name}
		isNew, err := findOrCreate(tx.Where("name = ?", name), &g)
		if err != nil {
			return nil, 0, fmt.Errorf("genre %q: %w", name, err)
		}
		if isNew {
			created++
		}
		ids[name] = g.ID
	}
	return ids, created, nil
}

func importAuthors(tx *gorm.DB, authors []Author) (map[string]int64, int, error) {
	ids := make(map[string]int64, len(authors))
	created := 0
	for _, a := range authors {
		m := models.Author{FirstName: a.FirstName, LastName: a.LastName}
		var err error
		if m.DateOfBirth, err = optionalDate(a.DateOfBirth); err != nil {
			return nil, 0, fmt.Errorf("author %q: %w", a.Key, err)
		}
		if m.DateOfDeath, err = optionalDate(a.DateOfDeath); err != nil {
			return nil, 0, fmt.Errorf("author %q: %w", a.Key, err)
		}
		m.Normalize()
		if err := m.CheckLifespan(); err != nil {
			return nil, 0, fmt.Errorf("author %q: %w", a.Key, err)
		}

		isNew, err := findOrCreate(tx.Where("first_name = ? AND last_name = ?", m.FirstName, m.LastName), &m)
		if err != nil {
			return nil, 0, fmt.Errorf("author %q: %w", a.Key, err)
		}
		if isNew {
			created++
		}
		ids[a.Key] = m.ID
	}
	return ids, created, nil
}

func importBook(tx *gorm.DB, b Book, genreIDs, authorIDs map[string]int64) (int, int, error) {
	book := models.Book{Title: b.Title, Summary: b.Summary, ISBN: b.ISBN}
	if b.Author != "" {
		id, ok := authorIDs[b.Author]
		if !ok {
			return 0, 0, fmt.Errorf("unknown author key %q", b.Author)
		}
		book.AuthorID = &id
	}

	isNew, err := findOrCreate(tx.Where("title = ? AND isbn = ?", b.Title, b.ISBN), &book)
	if err != nil {
		return 0, 0, err
	}
	if !isNew {
		// already present, keep its genres and copies as they are
		return 0, 0, nil
	}

	for _, name := range b.Genres {
		gid, ok := genreIDs[name]
		if !ok {
			return 0, 0, fmt.Errorf("unknown genre %q", name)
		}
		if err := tx.Create(&models.BookGenre{BookID: book.ID, GenreID: gid}).Error; err != nil {
			return 0, 0, fmt.Errorf("link genre %q: %w", name, err)
		}
	}

	for _, c := range b.Copies {
		inst := models.BookInstance{BookID: &book.ID, Imprint: c.Imprint}
		if c.Status != "" {
			st, err := models.ParseLoanStatus(c.Status)
			if err != nil {
				return 0, 0, err
			}
			inst.Status = st
		}
		due, err := optionalDate(c.DueBack)
		if err != nil {
			return 0, 0, err
		}
		inst.DueBack = due
		if err := tx.Create(&inst).Error; err != nil {
			return 0, 0, fmt.Errorf("copy %q: %w", c.Imprint, err)
		}
	}
	return 1, len(b.Copies), nil
}

// findOrCreate loads the first row matching q into dest, or inserts dest when
// there is none. It reports whether a row was inserted.
func findOrCreate[T any](q *gorm.DB, dest *T) (bool, error) {
	var found []T
	if err := q.Limit(1).Find(&found).Error; err != nil {
		return false, err
	}
	if len(found) > 0 {
		*dest = found[0]
		return false, nil
	}
	if err := q.Session(&gorm.Session{NewDB: true}).Create(dest).Error; err != nil {
		return false, err
	}
	return true, nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
