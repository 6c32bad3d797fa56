package attendance

import (
	"errors"

	"github.com/ieee-its/nightslip/core/user"
)

var (
	// ErrNotOwnRow: a student may only edit their own row.
	ErrNotOwnRow = errors.New("you may only edit your own entry")
	// ErrFieldNotAllowed: students may only set coming/applied.
	ErrFieldNotAllowed = errors.New("this field can only be changed by an admin")
	// ErrLocked: the one-time submission has been used up.
	ErrLocked = errors.New("your entry is locked; submissions can only be made once")
)

// Actor is the authenticated identity applying an edit.
type Actor struct {
	Email string
	Admin bool
}

// Transition computes the full next attendance row for a single field edit.
//
// Admins may set any field, including is_locked, and never trigger the
// single-submission lock. Students may only set coming/applied on their own
// unlocked row; submitting applied locks the row. Editing coming invalidates
// any prior application: applied resets and both outcomes go absent. Editing
// applied derives both outcomes: present iff coming && applied.
func Transition(actor Actor, target user.User, fu FieldUpdate, cur Row) (Row, error) {
	if !actor.Admin {
		if !target.EmailMatches(actor.Email) {
			return Row{}, ErrNotOwnRow
		}
		if fu.Field != FieldComing && fu.Field != FieldApplied {
			return Row{}, ErrFieldNotAllowed
		}
		if cur.IsLocked == Locked {
			return Row{}, ErrLocked
		}
	}

	next := cur
	switch fu.Field {
	case FieldComing:
		next.Coming = fu.Value
	case FieldApplied:
		next.Applied = fu.Value
	case FieldAttendance1:
		next.Attendance1 = fu.Value
	case FieldAttendance2:
		next.Attendance2 = fu.Value
	case FieldIsLocked:
		if fu.Value == "1" {
			next.IsLocked = Locked
		} else {
			next.IsLocked = Unlocked
		}
	}

	// Derivation runs for coming/applied edits only; direct admin edits to
	// the outcome fields or the lock apply literally.
	switch fu.Field {
	case FieldComing:
		next.Applied = NotApplied
		next.Attendance1 = Absent
		next.Attendance2 = Absent
	case FieldApplied:
		if next.Coming == Coming && next.Applied == Applied {
			next.Attendance1 = Present
			next.Attendance2 = Present
		} else {
			next.Attendance1 = Absent
			next.Attendance2 = Absent
		}
	}

	// The single-submission lock. Intentionally student-only: admins can
	// re-edit applied freely without re-locking the row.
	if !actor.Admin && fu.Field == FieldApplied {
		next.IsLocked = Locked
	}

	return next, nil
}
