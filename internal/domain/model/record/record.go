package record

import "errors"

// ErrUnknownField is returned when a field key does not name an editable field.
var ErrUnknownField = errors.New("unknown editable field")

// Record is a single machine-fault log entry.
//
// All text attributes may be empty but are never absent: a missing value is
// stored and returned as "", so search never has to deal with NULL-like
// sentinels.
type Record struct {
	ID              int64
	UserID          int64
	Date            string
	Workers         string
	Machine         string
	Shop            string
	StartTime       string
	EndTime         string
	Duration        string
	Description     string
	Solution        string
	Status          string
	InventoryNumber string
}

// SearchValues returns every text attribute that participates in full-text
// search, in schema order.
func (r *Record) SearchValues() []string {
	return []string{
		r.Date,
		r.Workers,
		r.Description,
		r.Solution,
		r.Status,
		r.Machine,
		r.InventoryNumber,
		r.Shop,
	}
}

// Value returns the current value of an editable field.
func (r *Record) Value(f Field) string {
	switch f {
	case FieldDescription:
		return r.Description
	case FieldSolution:
		return r.Solution
	case FieldStatus:
		return r.Status
	case FieldWorkers:
		return r.Workers
	default:
		return ""
	}
}

// SetValue overwrites the current value of an editable field.
// Non-editable fields are unreachable here because Field is a closed set.
func (r *Record) SetValue(f Field, value string) {
	switch f {
	case FieldDescription:
		r.Description = value
	case FieldSolution:
		r.Solution = value
	case FieldStatus:
		r.Status = value
	case FieldWorkers:
		r.Workers = value
	}
}
