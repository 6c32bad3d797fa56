package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/ieee-its/nightslip/core/attendance"
	testutil "github.com/ieee-its/nightslip/tests"
)

func Test_dateApi_query(t *testing.T) {
	app := setup(t)

	older := testutil.CreateDate(t, attRepo, "2026-03-01")
	newer := testutil.CreateDate(t, attRepo, "2026-03-02")
	token := getToken(t, "alice@test.cd", "Alice")

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Newest first", token: token,
			wantCode: http.StatusOK, wantData: marchallList(t, newer, older),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/dates", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_dateApi_create(t *testing.T) {
	app := setup(t)
	adminToken := getToken(t, adminEmail, "Warden")
	body := marchallObj(t, attendance.NewDate{DateString: "2026-03-14"})

	tests := []httpTest{
		{name: "Auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", body: body, token: getToken(t, "alice@test.cd", "Alice"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "Create", body: body, token: adminToken, wantCode: http.StatusCreated},
		{
			name: "Duplicate conflicts", body: body, token: adminToken,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: attendance.ErrDateExists.Error()}),
		},
		{
			name: "Malformed date rejected", body: marchallObj(t, attendance.NewDate{DateString: "14/03/2026"}),
			token: adminToken, wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/dates", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_dateApi_destroy(t *testing.T) {
	app := setup(t)

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	adminToken := getToken(t, adminEmail, "Warden")
	path := fmt.Sprintf("/api/dates/%d", date.ID)

	tests := []httpTest{
		{
			name: "Admin required", path: path, token: getToken(t, "alice@test.cd", "Alice"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "Delete", path: path, token: adminToken, wantCode: http.StatusNoContent},
		{
			name: "Gone", path: path, token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: attendance.ErrDateNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_dateApi_entries(t *testing.T) {
	app := setup(t)

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	alice := testutil.CreateUser(t, usrRepo, "Alice", "R001", "alice@test.cd")
	token := getToken(t, "alice@test.cd", "Alice")

	defEntry := attendance.Entry{
		ID: alice.ID, DateID: date.ID,
		Name: alice.Name, RegNo: alice.RegNo, Email: alice.Email,
		Coming: attendance.NotComing, Applied: attendance.NotApplied,
		Attendance1: attendance.Absent, Attendance2: attendance.Absent,
		IsLocked: attendance.Unlocked,
	}

	tests := []httpTest{
		{
			name: "Auth required", path: fmt.Sprintf("/api/dates/%d/entries", date.ID),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Defaults for users without rows", path: fmt.Sprintf("/api/dates/%d/entries", date.ID),
			token: token, wantCode: http.StatusOK, wantData: marchallList(t, defEntry),
		},
		{
			name: "Unknown date", path: "/api/dates/999/entries", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: attendance.ErrDateNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_dateApi_updateEntry(t *testing.T) {
	app := setup(t)

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	alice := testutil.CreateUser(t, usrRepo, "Alice", "R001", "alice@test.cd")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "R002", "bob@test.cd")

	aliceToken := getToken(t, "alice@test.cd", "Alice")
	adminToken := getToken(t, adminEmail, "Warden")

	alicePath := fmt.Sprintf("/api/dates/%d/users/%d", date.ID, alice.ID)
	bobPath := fmt.Sprintf("/api/dates/%d/users/%d", date.ID, bob.ID)

	coming := marchallObj(t, attendance.FieldUpdate{Field: attendance.FieldComing, Value: attendance.Coming})
	applied := marchallObj(t, attendance.FieldUpdate{Field: attendance.FieldApplied, Value: attendance.Applied})

	tests := []httpTest{
		{name: "Auth required", path: alicePath, body: coming, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Student cannot edit another row", path: bobPath, token: aliceToken, body: coming,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: attendance.ErrNotOwnRow.Error()}),
		},
		{
			name: "Student cannot set outcome fields", path: alicePath, token: aliceToken,
			body:     marchallObj(t, attendance.FieldUpdate{Field: attendance.FieldAttendance1, Value: attendance.Present}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: attendance.ErrFieldNotAllowed.Error()}),
		},
		{name: "Student marks coming", path: alicePath, token: aliceToken, body: coming, wantCode: http.StatusOK},
		{name: "Student applies and locks", path: alicePath, token: aliceToken, body: applied, wantCode: http.StatusOK},
		{
			name: "The one-time edit is consumed", path: alicePath, token: aliceToken, body: coming,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: attendance.ErrLocked.Error()}),
		},
		{
			name: "Admin edits a locked row", path: alicePath, token: adminToken,
			body:     marchallObj(t, attendance.FieldUpdate{Field: attendance.FieldAttendance2, Value: attendance.Absent}),
			wantCode: http.StatusOK,
		},
		{
			name: "Bad value rejected", path: alicePath, token: adminToken,
			body:     marchallObj(t, attendance.FieldUpdate{Field: attendance.FieldComing, Value: "MAYBE"}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPatch, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the full scenario left alice present on both counts until the admin override
	row, err := attRepo.GetRow(context.Background(), alice.ID, date.ID)
	if err != nil {
		t.Fatalf("GetRow(): %v", err)
	}
	if row.Attendance1 != attendance.Present || row.Attendance2 != attendance.Absent {
		t.Errorf("final outcomes = %q/%q, want PRESENT/ABSENT", row.Attendance1, row.Attendance2)
	}
	if row.IsLocked != attendance.Locked {
		t.Error("admin edit must not unlock the row")
	}
}

func Test_dateApi_reset(t *testing.T) {
	app := setup(t)

	date := testutil.CreateDate(t, attRepo, "2026-03-14")
	alice := testutil.CreateUser(t, usrRepo, "Alice", "R001", "alice@test.cd")
	aliceToken := getToken(t, "alice@test.cd", "Alice")
	adminToken := getToken(t, adminEmail, "Warden")

	// lock alice in
	req, rec := newAuthRequest(http.MethodPatch, fmt.Sprintf("/api/dates/%d/users/%d", date.ID, alice.ID), aliceToken,
		marchallObj(t, attendance.FieldUpdate{Field: attendance.FieldApplied, Value: attendance.Applied}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("apply code = %v", rec.Code)
	}

	tests := []httpTest{
		{
			name: "Admin required", path: fmt.Sprintf("/api/dates/%d/reset", date.ID), token: aliceToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "Reset", path: fmt.Sprintf("/api/dates/%d/reset", date.ID), token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// everyone is back to defaults and unlocked
	if _, err := attRepo.GetRow(context.Background(), alice.ID, date.ID); err != attendance.ErrRowNotFound {
		t.Errorf("GetRow() after reset error = %v, want %v", err, attendance.ErrRowNotFound)
	}
}
