package models

// BookGenre is the join row behind Book.Genres.
type BookGenre struct {
	BookID  int64 `json:"book_id" gorm:"primaryKey"`
	GenreID int64 `json:"genre_id" gorm:"primaryKey"`
}

func (BookGenre) TableName() string {
	return "book_genres"
}
