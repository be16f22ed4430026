package record

// Field enumerates the fields an operator may edit through the session
// workflow. The identifier, dates, and timestamps are deliberately not part
// of this set.
type Field string

const (
	FieldDescription Field = "work_description"
	FieldSolution    Field = "work_solution"
	FieldStatus      Field = "fault_status"
	FieldWorkers     Field = "workers"
)

// Fields returns all editable fields in display order.
func Fields() []Field {
	return []Field{FieldDescription, FieldSolution, FieldStatus, FieldWorkers}
}

// FieldByKey resolves a column key to an editable field.
func FieldByKey(key string) (Field, error) {
	f := Field(key)
	if !f.IsValid() {
		return "", ErrUnknownField
	}
	return f, nil
}

// String returns the column key.
func (f Field) String() string {
	return string(f)
}

// IsValid reports whether f names an editable field.
func (f Field) IsValid() bool {
	switch f {
	case FieldDescription, FieldSolution, FieldStatus, FieldWorkers:
		return true
	default:
		return false
	}
}

// Column returns the database column the field maps to.
func (f Field) Column() string {
	return string(f)
}

// Label returns the human-readable name shown in record views.
func (f Field) Label() string {
	switch f {
	case FieldDescription:
		return "Описание проблемы"
	case FieldSolution:
		return "Решение"
	case FieldStatus:
		return "Статус неисправности"
	case FieldWorkers:
		return "Исполнители работ"
	default:
		return string(f)
	}
}

// Prompt returns the text shown when the operator is asked for a new value.
func (f Field) Prompt() string {
	switch f {
	case FieldDescription:
		return "Введите новое описание проблемы:"
	case FieldSolution:
		return "Введите новое решение:"
	case FieldStatus:
		return "Введите новый статус:"
	case FieldWorkers:
		return "Введите новых исполнителей работ:"
	default:
		return "Введите новое значение:"
	}
}
