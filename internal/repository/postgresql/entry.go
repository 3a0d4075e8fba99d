package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/database"
)

// The attendance_entries table carries a partial unique index
//
//	CREATE UNIQUE INDEX attendance_entries_open_employee_idx
//	ON attendance_entries (employee_id) WHERE status = 'IN_PROGRESS';
//
// which makes CreateOpen's uniqueness check and insert a single atomic
// statement. See migrations/001_init.sql.
type entryRepository struct {
	db *database.DB
}

func NewEntryRepository(db *database.DB) attendance.EntryRepository {
	return &entryRepository{db: db}
}

const entryColumns = `
	a.id, a.employee_id, a.clock_in, a.clock_out, a.duration_minutes,
	a.work_summary, a.status, a.note, a.device_info,
	a.is_manual_entry, a.manual_entry_reason,
	a.is_flagged, a.flag_reason, a.flagged_by, a.flagged_at,
	a.edited_by, a.edited_at, a.edit_reason,
	a.version, a.created_at, a.updated_at,
	e.full_name AS employee_name,
	e.department_id AS department_id,
	e.department_name AS department`

const entryFrom = `
	FROM attendance_entries a
	LEFT JOIN employees e ON e.id = a.employee_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (attendance.Entry, error) {
	var entry attendance.Entry
	err := row.Scan(
		&entry.ID, &entry.EmployeeID, &entry.ClockIn, &entry.ClockOut, &entry.DurationMinutes,
		&entry.WorkSummary, &entry.Status, &entry.Note, &entry.DeviceInfo,
		&entry.IsManualEntry, &entry.ManualEntryReason,
		&entry.IsFlagged, &entry.FlagReason, &entry.FlaggedBy, &entry.FlaggedAt,
		&entry.EditedBy, &entry.EditedAt, &entry.EditReason,
		&entry.Version, &entry.CreatedAt, &entry.UpdatedAt,
		&entry.EmployeeName, &entry.DepartmentID, &entry.Department,
	)
	return entry, err
}

// CreateOpen implements attendance.EntryRepository.
func (r *entryRepository) CreateOpen(ctx context.Context, entry attendance.Entry) (attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	entry.ID = uuid.Must(uuid.NewV7()).String()
	entry.Status = attendance.StatusInProgress
	entry.Version = 1

	query := `
		INSERT INTO attendance_entries (
			id, employee_id, clock_in, status, note, device_info, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.EmployeeID,
		entry.ClockIn,
		entry.Status,
		entry.Note,
		entry.DeviceInfo,
		entry.Version,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Entry{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Entry{}, fmt.Errorf("failed to create open entry: %w", err)
	}

	return entry, nil
}

// CreateClosed implements attendance.EntryRepository.
func (r *entryRepository) CreateClosed(ctx context.Context, entry attendance.Entry) (attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	entry.ID = uuid.Must(uuid.NewV7()).String()
	entry.Version = 1

	query := `
		INSERT INTO attendance_entries (
			id, employee_id, clock_in, clock_out, duration_minutes, work_summary,
			status, is_manual_entry, manual_entry_reason, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.EmployeeID,
		entry.ClockIn,
		entry.ClockOut,
		entry.DurationMinutes,
		entry.WorkSummary,
		entry.Status,
		entry.IsManualEntry,
		entry.ManualEntryReason,
		entry.Version,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return attendance.Entry{}, fmt.Errorf("failed to create closed entry: %w", err)
	}

	return entry, nil
}

// GetByID implements attendance.EntryRepository.
func (r *entryRepository) GetByID(ctx context.Context, id string) (attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + entryFrom + ` WHERE a.id = $1`

	entry, err := scanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Entry{}, attendance.ErrEntryNotFound
		}
		return attendance.Entry{}, fmt.Errorf("failed to get entry by ID: %w", err)
	}

	return entry, nil
}

// FindOpenByEmployee implements attendance.EntryRepository.
func (r *entryRepository) FindOpenByEmployee(ctx context.Context, employeeID string) (*attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + entryFrom + `
		WHERE a.employee_id = $1 AND a.status = $2
		LIMIT 1`

	entry, err := scanEntry(q.QueryRow(ctx, query, employeeID, attendance.StatusInProgress))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no open session
		}
		return nil, fmt.Errorf("failed to find open entry: %w", err)
	}

	return &entry, nil
}

// Update implements attendance.EntryRepository. The WHERE clause matches the
// caller's version so a concurrent writer loses with ErrVersionConflict
// instead of silently clobbering.
func (r *entryRepository) Update(ctx context.Context, entry attendance.Entry) (attendance.Entry, error) {
	// Runs in a transaction so the not-found vs. version-conflict
	// disambiguation reads the same snapshot the UPDATE saw.
	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			UPDATE attendance_entries SET
				clock_in = $1, clock_out = $2, duration_minutes = $3, work_summary = $4,
				status = $5,
				is_flagged = $6, flag_reason = $7, flagged_by = $8, flagged_at = $9,
				edited_by = $10, edited_at = $11, edit_reason = $12,
				version = version + 1, updated_at = now()
			WHERE id = $13 AND version = $14
			RETURNING version, updated_at
		`

		err := q.QueryRow(txCtx, query,
			entry.ClockIn, entry.ClockOut, entry.DurationMinutes, entry.WorkSummary,
			entry.Status,
			entry.IsFlagged, entry.FlagReason, entry.FlaggedBy, entry.FlaggedAt,
			entry.EditedBy, entry.EditedAt, entry.EditReason,
			entry.ID, entry.Version,
		).Scan(&entry.Version, &entry.UpdatedAt)

		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		var exists bool
		if checkErr := q.QueryRow(txCtx,
			`SELECT EXISTS (SELECT 1 FROM attendance_entries WHERE id = $1)`,
			entry.ID,
		).Scan(&exists); checkErr != nil {
			return fmt.Errorf("failed to update entry: %w", checkErr)
		}
		if !exists {
			return attendance.ErrEntryNotFound
		}
		return attendance.ErrVersionConflict
	})
	if err != nil {
		return attendance.Entry{}, err
	}

	return entry, nil
}

// Complete implements attendance.EntryRepository.
func (r *entryRepository) Complete(ctx context.Context, id string, clockOut time.Time, durationMinutes int, workSummary string) (bool, error) {
	return r.closeOpen(ctx, id, attendance.StatusCompleted, clockOut, durationMinutes, &workSummary)
}

// AutoExpire implements attendance.EntryRepository.
func (r *entryRepository) AutoExpire(ctx context.Context, id string, clockOut time.Time, durationMinutes int) (bool, error) {
	return r.closeOpen(ctx, id, attendance.StatusAutoExpired, clockOut, durationMinutes, nil)
}

// closeOpen performs the terminal transition as a compare-and-swap on
// status. A false return means the entry was no longer IN_PROGRESS.
func (r *entryRepository) closeOpen(ctx context.Context, id string, to attendance.Status, clockOut time.Time, durationMinutes int, workSummary *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_entries SET
			clock_out = $1, duration_minutes = $2, status = $3,
			work_summary = COALESCE($4, work_summary),
			version = version + 1, updated_at = now()
		WHERE id = $5 AND status = $6
	`

	tag, err := q.Exec(ctx, query, clockOut, durationMinutes, to, workSummary, id, attendance.StatusInProgress)
	if err != nil {
		return false, fmt.Errorf("failed to close entry: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListOpen implements attendance.EntryRepository.
func (r *entryRepository) ListOpen(ctx context.Context) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + entryFrom + `
		WHERE a.status = $1
		ORDER BY a.clock_in ASC`

	rows, err := q.Query(ctx, query, attendance.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to list open entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByEmployee implements attendance.EntryRepository.
func (r *entryRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + entryFrom + `
		WHERE a.employee_id = $1 AND a.clock_in >= $2 AND a.clock_in < $3
		ORDER BY a.clock_in ASC`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries by employee: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByDateRange implements attendance.EntryRepository.
func (r *entryRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + entryFrom + `
		WHERE a.clock_in >= $1 AND a.clock_in < $2
		ORDER BY a.clock_in ASC`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries by date range: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// List implements attendance.EntryRepository.
func (r *entryRepository) List(ctx context.Context, filter attendance.LogFilter) ([]attendance.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		baseWhere += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, strings.ToUpper(*filter.Status))
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.clock_in::date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	if filter.DateFrom != nil && *filter.DateFrom != "" {
		baseWhere += fmt.Sprintf(" AND a.clock_in::date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		baseWhere += fmt.Sprintf(" AND a.clock_in::date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	// Count total (join needed for the department filter)
	countQuery := `SELECT COUNT(*)` + entryFrom + ` WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT `+entryColumns+entryFrom+`
		WHERE %s
		ORDER BY a.clock_in DESC
		LIMIT $%d OFFSET $%d`, baseWhere, argIdx, argIdx+1)

	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func collectEntries(rows pgx.Rows) ([]attendance.Entry, error) {
	var entries []attendance.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}
