package query

// FieldKind is the shape of value a filter field accepts.
type FieldKind int

const (
	// Equality compiles to "col = ?".
	Equality FieldKind = iota
	// Substring compiles to "col LIKE ?" with the value wrapped in %...%.
	Substring
	// Range compiles to "col >= ?" and/or "col <= ?".
	Range
	// SetMembership splits comma separated values and compiles to
	// "col IN (?,...)", or "col = ?" when a single value remains.
	SetMembership
	// Boolean accepts true/false/1/0 and compiles to "col = ?".
	Boolean
)

func (k FieldKind) String() string {
	switch k {
	case Equality:
		return "equality"
	case Substring:
		return "substring"
	case Range:
		return "range"
	case SetMembership:
		return "set"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Field binds request parameters to a column.
type Field struct {
	// Param is the query parameter read for every kind but Range.
	Param  string
	Column Column
	Kind   FieldKind
	// MinParam and MaxParam are the bound parameters of a Range field.
	// Either may be empty.
	MinParam string
	MaxParam string
	// Numeric bounds are parsed as float64 and skipped when unparsable.
	Numeric bool
	// OnlyTrue Boolean fields filter on true and are skipped for false.
	OnlyTrue bool
}

func Equal(param string, col Column) Field {
	return Field{Param: param, Column: col, Kind: Equality}
}

func Contains(param string, col Column) Field {
	return Field{Param: param, Column: col, Kind: Substring}
}

func OneOf(param string, col Column) Field {
	return Field{Param: param, Column: col, Kind: SetMembership}
}

func Flag(param string, col Column) Field {
	return Field{Param: param, Column: col, Kind: Boolean}
}

// Toggle is a Flag that only narrows the result: false means no filter.
func Toggle(param string, col Column) Field {
	f := Flag(param, col)
	f.OnlyTrue = true
	return f
}

// Between bounds col by two parameters, inclusive on both ends.
func Between(minParam, maxParam string, col Column) Field {
	return Field{Column: col, Kind: Range, MinParam: minParam, MaxParam: maxParam}
}

// NumericBetween is Between with numeric parsing of the bounds.
func NumericBetween(minParam, maxParam string, col Column) Field {
	f := Between(minParam, maxParam, col)
	f.Numeric = true
	return f
}

// Schema is the filtering side of a dataset descriptor.
type Schema struct {
	TenantColumn Column
	Fields       []Field
	// ColumnFilters maps keys accepted inside column_filters to columns.
	// A nil map disables column filters for the dataset.
	ColumnFilters map[string]Column
	// ColumnFilterKind is Substring or Equality.
	ColumnFilterKind FieldKind
}
