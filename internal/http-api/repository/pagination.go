package repository

// Page selects one window of an ordered listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TotalPages returns how many pages of size p.Size cover total rows.
func (p Page) TotalPages(total int64) int64 {
	if p.Size <= 0 {
		return 0
	}
	return (total + int64(p.Size) - 1) / int64(p.Size)
}
