package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/ieee-its/nightslip/core"
	"github.com/ieee-its/nightslip/core/user"
)

// Field values, exactly as displayed and stored.
const (
	Coming    = "COMING"
	NotComing = "NOT COMING"

	Applied    = "APPLIED"
	NotApplied = "NOT APPLIED"

	Present = "PRESENT"
	Absent  = "ABSENT"

	Unlocked = 0
	Locked   = 1
)

// Editable entry fields.
const (
	FieldComing      = "coming"
	FieldApplied     = "applied"
	FieldAttendance1 = "attendance_1"
	FieldAttendance2 = "attendance_2"
	FieldIsLocked    = "is_locked"
)

// Date is a tracked day.
type Date struct {
	ID         int    `json:"id" db:"id"`
	DateString string `json:"date_string" db:"date_string"`
}

type NewDate struct {
	DateString string `json:"date_string" validate:"required,datestr"`
}

func (nd *NewDate) Validate(validate *validator.Validate) error {
	nd.DateString = core.CleanString(nd.DateString)
	return validate.Struct(nd)
}

// Row is the per-(user, date) attendance record. A missing row is
// semantically the default row; storage always holds every field explicitly.
type Row struct {
	UserID      int    `json:"user_id" db:"user_id"`
	DateID      int    `json:"date_id" db:"date_id"`
	Coming      string `json:"coming" db:"coming"`
	Applied     string `json:"applied" db:"applied"`
	Attendance1 string `json:"attendance_1" db:"attendance_1"`
	Attendance2 string `json:"attendance_2" db:"attendance_2"`
	IsLocked    int    `json:"is_locked" db:"is_locked"`
}

// DefaultRow is the implied state of a (user, date) pair with no stored row.
func DefaultRow(userID, dateID int) Row {
	return Row{
		UserID:      userID,
		DateID:      dateID,
		Coming:      NotComing,
		Applied:     NotApplied,
		Attendance1: Absent,
		Attendance2: Absent,
		IsLocked:    Unlocked,
	}
}

// Entry is one roster row joined with its attendance for a date.
// ID is the user ID; the SPA keys table rows on it.
type Entry struct {
	ID          int    `json:"id"`
	DateID      int    `json:"date_id"`
	Name        string `json:"name"`
	RegNo       string `json:"reg_no"`
	Email       string `json:"email"`
	Coming      string `json:"coming"`
	Applied     string `json:"applied"`
	Attendance1 string `json:"attendance_1"`
	Attendance2 string `json:"attendance_2"`
	IsLocked    int    `json:"is_locked"`
}

func newEntry(usr user.User, row Row) Entry {
	return Entry{
		ID:          usr.ID,
		DateID:      row.DateID,
		Name:        usr.Name,
		RegNo:       usr.RegNo,
		Email:       usr.Email,
		Coming:      row.Coming,
		Applied:     row.Applied,
		Attendance1: row.Attendance1,
		Attendance2: row.Attendance2,
		IsLocked:    row.IsLocked,
	}
}

// Snapshot is the full dataset handed to the export sink.
type Snapshot struct {
	Dates      []Date      `json:"dates"`
	Users      []user.User `json:"users"`
	Attendance []Row       `json:"attendance"`
}

// FieldUpdate is a single-field entry edit request.
type FieldUpdate struct {
	Field string `json:"field" validate:"required,oneof=coming applied attendance_1 attendance_2 is_locked"`
	Value string `json:"value"`
}

var allowedValues = map[string][]string{
	FieldComing:      {Coming, NotComing},
	FieldApplied:     {Applied, NotApplied},
	FieldAttendance1: {Present, Absent},
	FieldAttendance2: {Present, Absent},
	FieldIsLocked:    {"0", "1"},
}

func (fu *FieldUpdate) Validate(validate *validator.Validate) error {
	fu.Field = core.CleanString(fu.Field, true /* lower */)
	fu.Value = core.CleanString(fu.Value)
	if err := validate.Struct(fu); err != nil {
		return err
	}
	for _, v := range allowedValues[fu.Field] {
		if fu.Value == v {
			return nil
		}
	}
	return core.NewValidationError(nil, core.FieldError{Field: "value", Error: "invalid value for field " + fu.Field})
}
