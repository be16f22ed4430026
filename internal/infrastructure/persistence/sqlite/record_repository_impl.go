package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vkarpenko/faultlog/internal/domain/model/record"
	"github.com/vkarpenko/faultlog/internal/domain/repository"
	"github.com/vkarpenko/faultlog/internal/domain/search"
)

// endTimeLayout is the canonical stored representation of a record's end
// time: localized dd.mm.yyyy hh:mm text, the form operators enter it in.
// The repository converts it to an instant at the read boundary.
const endTimeLayout = "02.01.2006 15:04"

const recordColumns = `id, user_id, date, workers, machine, shop,
	       start_time, end_time, duration,
	       work_description, work_solution, fault_status, inventory_number`

// RecordRepositoryImpl implements repository.RecordRepository with SQLite
type RecordRepositoryImpl struct {
	db *sql.DB
}

// NewRecordRepository creates a new SQLite-based record repository
func NewRecordRepository(db *sql.DB) repository.RecordRepository {
	return &RecordRepositoryImpl{db: db}
}

// Save persists a new record and assigns its identifier
func (r *RecordRepositoryImpl) Save(ctx context.Context, rec *record.Record) error {
	query := `
		INSERT INTO records (user_id, date, workers, machine, shop,
		                     start_time, end_time, duration,
		                     work_description, work_solution, fault_status, inventory_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.UserID, rec.Date, rec.Workers, rec.Machine, rec.Shop,
		rec.StartTime, rec.EndTime, rec.Duration,
		rec.Description, rec.Solution, rec.Status, rec.InventoryNumber,
	)
	if err != nil {
		return fmt.Errorf("save record failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id failed: %w", err)
	}
	rec.ID = id

	return nil
}

// FindByID retrieves one record by identifier
func (r *RecordRepositoryImpl) FindByID(ctx context.Context, id int64) (*record.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM records WHERE id = ?", recordColumns)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find record failed: %w", err)
	}
	return rec, nil
}

// Search returns every record whose normalized text fields contain the
// normalized phrase as a substring, highest id first. Matching happens in Go
// because normalization strips characters SQL LIKE would otherwise compare.
func (r *RecordRepositoryImpl) Search(ctx context.Context, phrase string) ([]record.Record, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}

	var matched []record.Record
	for _, rec := range all {
		if search.Matches(phrase, rec.SearchValues()) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// UpdateField atomically updates exactly one field of one record
func (r *RecordRepositoryImpl) UpdateField(ctx context.Context, id int64, f record.Field, value string) error {
	if !f.IsValid() {
		return record.ErrUnknownField
	}

	// f.Column() comes from the closed Field enumeration, never from input.
	query := fmt.Sprintf("UPDATE records SET %s = ? WHERE id = ?", f.Column())

	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("update field %s failed: %w", f, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected failed: %w", err)
	}
	if affected == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

// Recent returns records whose end time falls within the trailing window,
// highest id first. Rows whose end time cannot be parsed are skipped.
func (r *RecordRepositoryImpl) Recent(ctx context.Context, window time.Duration) ([]record.Record, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-window)

	var recent []record.Record
	for _, rec := range all {
		endedAt, err := time.ParseInLocation(endTimeLayout, rec.EndTime, time.Local)
		if err != nil {
			continue
		}
		if !endedAt.Before(cutoff) {
			recent = append(recent, rec)
		}
	}
	return recent, nil
}

// listAll reads every record in one query, highest id first
func (r *RecordRepositoryImpl) listAll(ctx context.Context) ([]record.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM records ORDER BY id DESC", recordColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query records failed: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record failed: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records failed: %w", err)
	}
	return records, nil
}

// rowScanner abstracts sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*record.Record, error) {
	var rec record.Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.Workers, &rec.Machine, &rec.Shop,
		&rec.StartTime, &rec.EndTime, &rec.Duration,
		&rec.Description, &rec.Solution, &rec.Status, &rec.InventoryNumber,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
