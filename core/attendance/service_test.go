package attendance_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ieee-its/nightslip/core"
	"github.com/ieee-its/nightslip/core/attendance"
	"github.com/ieee-its/nightslip/core/user"
	dummyexport "github.com/ieee-its/nightslip/services/export/dummy"
	dummydb "github.com/ieee-its/nightslip/storage/database/dummy"
	testutil "github.com/ieee-its/nightslip/tests"
)

func setup(t *testing.T) (*attendance.Service, attendance.Repository, user.Repository, *dummyexport.Service) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	attRepo := dummydb.NewAttendanceRepository(db)
	exporter := dummyexport.NewService()

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	svc := attendance.NewService(attRepo, usrRepo, exporter, validate)
	return svc, attRepo, usrRepo, exporter
}

func TestService_CreateDate(t *testing.T) {
	svc, _, _, exporter := setup(t)
	ctx := context.Background()

	date, err := svc.CreateDate(ctx, attendance.NewDate{DateString: "2026-03-14"})
	if err != nil {
		t.Fatalf("CreateDate(): %v", err)
	}
	if date.DateString != "2026-03-14" {
		t.Errorf("DateString = %q, want %q", date.DateString, "2026-03-14")
	}
	if exporter.Calls() != 1 {
		t.Errorf("export calls = %d, want 1", exporter.Calls())
	}

	if _, err = svc.CreateDate(ctx, attendance.NewDate{DateString: "2026-03-14"}); err != attendance.ErrDateExists {
		t.Errorf("duplicate CreateDate() error = %v, want %v", err, attendance.ErrDateExists)
	}

	if _, err = svc.CreateDate(ctx, attendance.NewDate{DateString: "14/03/2026"}); err == nil {
		t.Error("malformed CreateDate() error = nil, want validation error")
	}
	if exporter.Calls() != 1 {
		t.Errorf("export calls after failures = %d, want 1", exporter.Calls())
	}
}

func TestService_QueryDates_newestFirst(t *testing.T) {
	svc, attRepo, _, _ := setup(t)

	first := testutil.CreateDate(t, attRepo, "2026-03-01")
	second := testutil.CreateDate(t, attRepo, "2026-03-02")

	dates, err := svc.QueryDates(context.Background())
	if err != nil {
		t.Fatalf("QueryDates(): %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("len(dates) = %d, want 2", len(dates))
	}
	if dates[0].ID != second.ID || dates[1].ID != first.ID {
		t.Errorf("dates = %+v, want newest first", dates)
	}
}

func TestService_Entries_defaultsForMissingRows(t *testing.T) {
	svc, attRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	alice := testutil.CreateUser(t, usrRepo, "Alice", "R001", "alice@test.cd")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "R002", "bob@test.cd")

	// Alice has a stored row; Bob does not
	actor := attendance.Actor{Email: alice.Email}
	if _, err := svc.ApplyFieldUpdate(ctx, actor, date.ID, alice.ID, attendance.FieldUpdate{
		Field: attendance.FieldComing, Value: attendance.Coming,
	}); err != nil {
		t.Fatalf("ApplyFieldUpdate(): %v", err)
	}

	entries, err := svc.Entries(ctx, date.ID)
	if err != nil {
		t.Fatalf("Entries(): %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].ID != alice.ID || entries[0].Coming != attendance.Coming {
		t.Errorf("alice entry = %+v", entries[0])
	}
	if entries[1].ID != bob.ID || entries[1].Coming != attendance.NotComing || entries[1].IsLocked != attendance.Unlocked {
		t.Errorf("bob entry = %+v, want defaults", entries[1])
	}

	if _, err = svc.Entries(ctx, date.ID+100); err != attendance.ErrDateNotFound {
		t.Errorf("Entries() for unknown date error = %v, want %v", err, attendance.ErrDateNotFound)
	}
}

func TestService_ApplyFieldUpdate_studentFlow(t *testing.T) {
	svc, attRepo, usrRepo, exporter := setup(t)
	ctx := context.Background()

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	alice := testutil.CreateUser(t, usrRepo, "Alice", "R001", "alice@test.cd")
	actor := attendance.Actor{Email: alice.Email}
	exporter.Reset()

	entry, err := svc.ApplyFieldUpdate(ctx, actor, date.ID, alice.ID, attendance.FieldUpdate{
		Field: attendance.FieldComing, Value: attendance.Coming,
	})
	if err != nil {
		t.Fatalf("ApplyFieldUpdate(coming): %v", err)
	}
	if entry.Coming != attendance.Coming || entry.IsLocked != attendance.Unlocked {
		t.Errorf("entry after coming = %+v", entry)
	}

	entry, err = svc.ApplyFieldUpdate(ctx, actor, date.ID, alice.ID, attendance.FieldUpdate{
		Field: attendance.FieldApplied, Value: attendance.Applied,
	})
	if err != nil {
		t.Fatalf("ApplyFieldUpdate(applied): %v", err)
	}
	if entry.Attendance1 != attendance.Present || entry.Attendance2 != attendance.Present {
		t.Errorf("outcomes = %q/%q, want PRESENT/PRESENT", entry.Attendance1, entry.Attendance2)
	}
	if entry.IsLocked != attendance.Locked {
		t.Error("row not locked after student applied")
	}

	// the one-time edit is consumed
	_, err = svc.ApplyFieldUpdate(ctx, actor, date.ID, alice.ID, attendance.FieldUpdate{
		Field: attendance.FieldComing, Value: attendance.NotComing,
	})
	if err != attendance.ErrLocked {
		t.Errorf("locked edit error = %v, want %v", err, attendance.ErrLocked)
	}

	// admin can still fix the row without re-locking games
	admin := attendance.Actor{Email: "admin@test.cd", Admin: true}
	entry, err = svc.ApplyFieldUpdate(ctx, admin, date.ID, alice.ID, attendance.FieldUpdate{
		Field: attendance.FieldIsLocked, Value: "0",
	})
	if err != nil {
		t.Fatalf("admin unlock: %v", err)
	}
	if entry.IsLocked != attendance.Unlocked {
		t.Error("admin unlock did not take")
	}

	if exporter.Calls() != 3 {
		t.Errorf("export calls = %d, want 3", exporter.Calls())
	}
}

func TestService_ApplyFieldUpdate_validation(t *testing.T) {
	svc, attRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	alice := testutil.CreateUser(t, usrRepo, "Alice", "R001", "alice@test.cd")
	admin := attendance.Actor{Email: "admin@test.cd", Admin: true}

	if _, err := svc.ApplyFieldUpdate(ctx, admin, date.ID, alice.ID, attendance.FieldUpdate{
		Field: "nope", Value: attendance.Coming,
	}); err == nil {
		t.Error("unknown field accepted")
	}
	if _, err := svc.ApplyFieldUpdate(ctx, admin, date.ID, alice.ID, attendance.FieldUpdate{
		Field: attendance.FieldComing, Value: "MAYBE",
	}); err == nil {
		t.Error("out-of-enum value accepted")
	}
	if _, err := svc.ApplyFieldUpdate(ctx, admin, date.ID, alice.ID+100, attendance.FieldUpdate{
		Field: attendance.FieldComing, Value: attendance.Coming,
	}); err != user.ErrNotFound {
		t.Errorf("unknown user error = %v, want %v", err, user.ErrNotFound)
	}
	if _, err := svc.ApplyFieldUpdate(ctx, admin, date.ID+100, alice.ID, attendance.FieldUpdate{
		Field: attendance.FieldComing, Value: attendance.Coming,
	}); err != attendance.ErrDateNotFound {
		t.Errorf("unknown date error = %v, want %v", err, attendance.ErrDateNotFound)
	}
}

func TestService_ResetDate(t *testing.T) {
	svc, attRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	alice := testutil.CreateUser(t, usrRepo, "Alice", "R001", "alice@test.cd")
	actor := attendance.Actor{Email: alice.Email}

	if _, err := svc.ApplyFieldUpdate(ctx, actor, date.ID, alice.ID, attendance.FieldUpdate{
		Field: attendance.FieldApplied, Value: attendance.Applied,
	}); err != nil {
		t.Fatalf("ApplyFieldUpdate(): %v", err)
	}

	if err := svc.ResetDate(ctx, date.ID); err != nil {
		t.Fatalf("ResetDate(): %v", err)
	}

	entries, err := svc.Entries(ctx, date.ID)
	if err != nil {
		t.Fatalf("Entries(): %v", err)
	}
	if entries[0].IsLocked != attendance.Unlocked || entries[0].Applied != attendance.NotApplied {
		t.Errorf("entry after reset = %+v, want defaults", entries[0])
	}

	if err = svc.ResetDate(ctx, date.ID+100); err != attendance.ErrDateNotFound {
		t.Errorf("ResetDate() for unknown date error = %v, want %v", err, attendance.ErrDateNotFound)
	}
}

func TestService_DeleteDate_cascades(t *testing.T) {
	svc, attRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	keep := testutil.CreateDate(t, attRepo, "2026-03-15")
	alice := testutil.CreateUser(t, usrRepo, "Alice", "R001", "alice@test.cd")
	actor := attendance.Actor{Email: alice.Email}

	for _, d := range []attendance.Date{date, keep} {
		if _, err := svc.ApplyFieldUpdate(ctx, actor, d.ID, alice.ID, attendance.FieldUpdate{
			Field: attendance.FieldComing, Value: attendance.Coming,
		}); err != nil {
			t.Fatalf("ApplyFieldUpdate(): %v", err)
		}
	}

	if err := svc.DeleteDate(ctx, date.ID); err != nil {
		t.Fatalf("DeleteDate(): %v", err)
	}
	rows, err := attRepo.QueryAllRows(ctx)
	if err != nil {
		t.Fatalf("QueryAllRows(): %v", err)
	}
	if len(rows) != 1 || rows[0].DateID != keep.ID {
		t.Errorf("rows after delete = %+v, want only the kept date's", rows)
	}
}
