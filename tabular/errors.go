package tabular

import "errors"

// Common errors returned by the tabular package.
var (
	// ErrColumnNotFound is returned when a column name is not present in a table.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidRow is returned when a row index is out of range.
	ErrInvalidRow = errors.New("invalid row index")

	// ErrEmptyData is returned when data is empty where it shouldn't be.
	ErrEmptyData = errors.New("data is empty")

	// ErrNoTable is returned when a required table is nil.
	ErrNoTable = errors.New("table is nil")
)
