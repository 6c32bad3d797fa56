package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/ieee-its/nightslip/core"
	"github.com/ieee-its/nightslip/core/attendance"
	"github.com/ieee-its/nightslip/core/user"
)

func NewTestConfig(adminEmails ...string) *core.Config {
	return &core.Config{
		Debug:       true,
		TestMode:    true,
		Env:         "TEST",
		AppName:     "Nightslip",
		SecretKey:   "s3cret-t3st-k3y",
		AdminEmails: adminEmails,
		Server: core.ServerConfig{
			SessionExpirationDelta: time.Hour,
			SessionCookieName:      "nightslip_session",
		},
	}
}

func CreateUser(t *testing.T, repo user.Repository, name, regNo, email string) user.User {
	t.Helper()
	if _, err := repo.BulkUpsertUsers(context.Background(), []user.User{{Name: name, RegNo: regNo, Email: email}}); err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	usr, err := repo.GetUserByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func CreateDate(t *testing.T, repo attendance.Repository, dateString string) attendance.Date {
	t.Helper()
	date, err := repo.CreateDate(context.Background(), dateString)
	if err != nil {
		t.Fatalf("CreateDate(): %v", err)
	}
	return date
}
