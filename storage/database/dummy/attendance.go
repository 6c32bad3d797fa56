package dummydb

import (
	"context"
	"sort"

	"github.com/ieee-its/nightslip/core/attendance"
)

var datePKCount int

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateDate(_ context.Context, dateString string) (attendance.Date, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, date := range repo.db.dates {
		if date.DateString == dateString {
			return attendance.Date{}, attendance.ErrDateExists
		}
	}
	datePKCount++
	date := attendance.Date{ID: datePKCount, DateString: dateString}
	repo.db.dates[date.ID] = &date
	return date, nil
}

func (repo *attendanceRepository) QueryAllDates(_ context.Context) ([]attendance.Date, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	dates := make([]attendance.Date, 0, len(repo.db.dates))
	for _, date := range repo.db.dates {
		dates = append(dates, *date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].ID > dates[j].ID })
	return dates, nil
}

func (repo *attendanceRepository) GetDateByID(_ context.Context, id int) (attendance.Date, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if date, ok := repo.db.dates[id]; ok {
		return *date, nil
	}
	return attendance.Date{}, attendance.ErrDateNotFound
}

func (repo *attendanceRepository) DeleteDate(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.dates[id]; !ok {
		return attendance.ErrDateNotFound
	}
	delete(repo.db.dates, id)
	repo.deleteRows(id)
	return nil
}

func (repo *attendanceRepository) GetRow(_ context.Context, userID, dateID int) (attendance.Row, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if row, ok := repo.db.rows[rowKey{userID: userID, dateID: dateID}]; ok {
		return *row, nil
	}
	return attendance.Row{}, attendance.ErrRowNotFound
}

func (repo *attendanceRepository) UpsertRow(_ context.Context, row attendance.Row) (attendance.Row, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows[rowKey{userID: row.UserID, dateID: row.DateID}] = &row
	return row, nil
}

func (repo *attendanceRepository) QueryRowsByDate(_ context.Context, dateID int) ([]attendance.Row, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]attendance.Row, 0)
	for key, row := range repo.db.rows {
		if key.dateID == dateID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (repo *attendanceRepository) QueryAllRows(_ context.Context) ([]attendance.Row, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]attendance.Row, 0, len(repo.db.rows))
	for _, row := range repo.db.rows {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (repo *attendanceRepository) DeleteRowsByDate(_ context.Context, dateID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.deleteRows(dateID)
	return nil
}

// deleteRows expects the write lock to be held.
func (repo *attendanceRepository) deleteRows(dateID int) {
	for key := range repo.db.rows {
		if key.dateID == dateID {
			delete(repo.db.rows, key)
		}
	}
}
