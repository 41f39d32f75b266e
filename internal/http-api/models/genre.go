package models

// Genre is a category label a book can be filed under.
type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:200;uniqueIndex;not null"`
}

func (Genre) TableName() string {
	return "genres"
}
