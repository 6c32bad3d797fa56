package pgrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/ieee-its/nightslip/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateDate(ctx context.Context, dateString string) (attendance.Date, error) {
	var date attendance.Date
	err := repo.db.GetContext(ctx, &date,
		`INSERT INTO dates (date_string) VALUES ($1) RETURNING id, date_string`, dateString)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return attendance.Date{}, attendance.ErrDateExists
		}
		return attendance.Date{}, errors.Wrap(err, "creating date")
	}
	return date, nil
}

func (repo *attendanceRepository) QueryAllDates(ctx context.Context) ([]attendance.Date, error) {
	dates := make([]attendance.Date, 0)
	err := repo.db.SelectContext(ctx, &dates,
		`SELECT id, date_string FROM dates ORDER BY id DESC`)
	return dates, errors.Wrap(err, "querying dates")
}

func (repo *attendanceRepository) GetDateByID(ctx context.Context, id int) (attendance.Date, error) {
	var date attendance.Date
	err := repo.db.GetContext(ctx, &date,
		`SELECT id, date_string FROM dates WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return attendance.Date{}, attendance.ErrDateNotFound
	}
	return date, errors.Wrap(err, "getting date by id")
}

func (repo *attendanceRepository) DeleteDate(ctx context.Context, id int) error {
	// attendance rows go with it (ON DELETE CASCADE)
	res, err := repo.db.ExecContext(ctx, `DELETE FROM dates WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting date")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.ErrDateNotFound
	}
	return nil
}

func (repo *attendanceRepository) GetRow(ctx context.Context, userID, dateID int) (attendance.Row, error) {
	var row attendance.Row
	err := repo.db.GetContext(ctx, &row, `
		SELECT user_id, date_id, coming, applied, attendance_1, attendance_2, is_locked
		FROM attendance WHERE user_id = $1 AND date_id = $2`, userID, dateID)
	if err == sql.ErrNoRows {
		return attendance.Row{}, attendance.ErrRowNotFound
	}
	return row, errors.Wrap(err, "getting attendance row")
}

func (repo *attendanceRepository) UpsertRow(ctx context.Context, row attendance.Row) (attendance.Row, error) {
	// the upsert on (user_id, date_id) is the write-serialization point;
	// every field is written explicitly, never patched
	var saved attendance.Row
	err := repo.db.GetContext(ctx, &saved, `
		INSERT INTO attendance (user_id, date_id, coming, applied, attendance_1, attendance_2, is_locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date_id)
		DO UPDATE SET
			coming = EXCLUDED.coming,
			applied = EXCLUDED.applied,
			attendance_1 = EXCLUDED.attendance_1,
			attendance_2 = EXCLUDED.attendance_2,
			is_locked = EXCLUDED.is_locked
		RETURNING user_id, date_id, coming, applied, attendance_1, attendance_2, is_locked`,
		row.UserID, row.DateID, row.Coming, row.Applied, row.Attendance1, row.Attendance2, row.IsLocked)
	return saved, errors.Wrap(err, "upserting attendance row")
}

func (repo *attendanceRepository) QueryRowsByDate(ctx context.Context, dateID int) ([]attendance.Row, error) {
	rows := make([]attendance.Row, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT user_id, date_id, coming, applied, attendance_1, attendance_2, is_locked
		FROM attendance WHERE date_id = $1`, dateID)
	return rows, errors.Wrap(err, "querying attendance rows by date")
}

func (repo *attendanceRepository) QueryAllRows(ctx context.Context) ([]attendance.Row, error) {
	rows := make([]attendance.Row, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT user_id, date_id, coming, applied, attendance_1, attendance_2, is_locked
		FROM attendance`)
	return rows, errors.Wrap(err, "querying attendance rows")
}

func (repo *attendanceRepository) DeleteRowsByDate(ctx context.Context, dateID int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM attendance WHERE date_id = $1`, dateID)
	return errors.Wrap(err, "resetting attendance rows")
}
