package dummydb

import (
	"sync"

	"github.com/ieee-its/nightslip/core/attendance"
	"github.com/ieee-its/nightslip/core/user"
)

type (
	DB struct {
		user       *userTable
		attendance *attendanceTable
	}

	userTable struct {
		sync.RWMutex
		table map[int]*user.User
	}

	rowKey struct {
		userID int
		dateID int
	}

	attendanceTable struct {
		sync.RWMutex
		dates map[int]*attendance.Date
		rows  map[rowKey]*attendance.Row
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[int]*user.User)},
		attendance: &attendanceTable{
			dates: make(map[int]*attendance.Date),
			rows:  make(map[rowKey]*attendance.Row),
		},
	}
	return db, nil
}
