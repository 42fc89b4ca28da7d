package query

// Table names a table or view. Values are declared in the dataset catalog and
// report queries; request input is only ever used to look one up.
type Table string

func (t Table) String() string { return string(t) }

// Column names a column of a Table. Like Table, request input selects a Column
// from an allow-list and is never converted into one.
type Column string

func (c Column) String() string { return string(c) }

// SortOrder is either Asc or Desc.
type SortOrder string

const (
	Asc  SortOrder = "ASC"
	Desc SortOrder = "DESC"
)

// OrderBy renders "<column> <order>".
func OrderBy(col Column, order SortOrder) string {
	return string(col) + " " + string(order)
}
