package entities

// SortDirection is the direction of a column sort
type SortDirection string

const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// DefaultPageSize is the number of rows per page of the comparison table
const DefaultPageSize = 5

// SortState is the active sort column and direction.
// Direction is ignored while Column is empty.
type SortState struct {
	Column    string        `json:"column,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Active reports whether a sort column is set
func (s SortState) Active() bool {
	return s.Column != ""
}

// FilterState is a case-insensitive substring filter on one column
type FilterState struct {
	Column string `json:"column,omitempty"`
	Text   string `json:"text,omitempty"`
}

// TableState is the user-controlled view state of the comparison table
type TableState struct {
	Sort     SortState   `json:"sort"`
	Filter   FilterState `json:"filter"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// NewTableState returns an unsorted, unfiltered state on page 1
func NewTableState() TableState {
	return TableState{Page: 1, PageSize: DefaultPageSize}
}

// RequestSort flips an ascending sort on the same column to descending and
// starts any other column ascending. The page resets to 1.
func (s TableState) RequestSort(column string) TableState {
	direction := SortAscending
	if s.Sort.Column == column && s.Sort.Direction == SortAscending {
		direction = SortDescending
	}
	s.Sort = SortState{Column: column, Direction: direction}
	s.Page = 1
	return s
}

// WithFilter replaces the filter and resets the page to 1
func (s TableState) WithFilter(filter FilterState) TableState {
	s.Filter = filter
	s.Page = 1
	return s
}

// NextPage moves forward, never past totalPages
func (s TableState) NextPage(totalPages int) TableState {
	s.Page = ClampPage(s.Page+1, totalPages)
	return s
}

// PrevPage moves back, never before page 1
func (s TableState) PrevPage() TableState {
	s.Page = max(s.Page-1, 1)
	return s
}

// EffectivePageSize returns the page size, falling back to DefaultPageSize
func (s TableState) EffectivePageSize() int {
	if s.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.PageSize
}

// ClampPage bounds a 1-based page number to [1, totalPages]
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return min(max(page, 1), totalPages)
}

// TableView is the derived, displayable projection of a comparison table
type TableView struct {
	Columns      []string   `json:"columns"`
	Rows         []Row      `json:"rows"`
	FilteredRows []Row      `json:"-"`
	TotalRows    int        `json:"total_rows"`
	Page         int        `json:"page"`
	TotalPages   int        `json:"total_pages"`
	State        TableState `json:"state"`
}
