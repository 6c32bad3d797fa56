package main

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"testing"

	"github.com/ieee-its/nightslip/core/user"
	dummydb "github.com/ieee-its/nightslip/storage/database/dummy"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)

	return &commandLine{usrRepo: usrRepo}
}

type cliTest struct {
	name        string
	args        []string // without program name
	wantErr     error
	wantErrStr  string
	wantCommand string
	wantArgs    []string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var gotCommand string
	var gotArgs []string
	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		gotCommand = command
		gotArgs = args
		switch command {
		case "up", "up-by-one", "up-to", "down", "down-to", "redo", "reset", "status", "version":
			return nil
		}
		return fmt.Errorf("%q: no such command", command)
	}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "defaults to up", args: []string{"migrate"}, wantCommand: "up"},
		{name: "up", args: []string{"migrate", "up"}, wantCommand: "up"},
		{name: "down", args: []string{"migrate", "down"}, wantCommand: "down"},
		{name: "status", args: []string{"migrate", "status"}, wantCommand: "status"},
		{name: "up-to forwards args", args: []string{"migrate", "up-to", "2"}, wantCommand: "up-to", wantArgs: []string{"2"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			gotCommand, gotArgs = "", nil

			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
				return
			}
			if tt.wantCommand != "" && gotCommand != tt.wantCommand {
				t.Errorf("goose command = %q, want %q", gotCommand, tt.wantCommand)
			}
			if tt.wantArgs != nil && !reflect.DeepEqual(gotArgs, tt.wantArgs) {
				t.Errorf("goose args = %v, want %v", gotArgs, tt.wantArgs)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no flags", args: []string{"adduser"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"adduser", "-name", "Alice"}, wantErr: errHelp},
		{name: "adds user", args: []string{"adduser", "-name", "Alice", "-email", "ALICE@test.cd", "-regno", "R001"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// email is lowered on the way in
	usr, err := usrRepo.GetUserByEmail(context.Background(), "alice@test.cd")
	if err != nil {
		t.Fatalf("GetUserByEmail(): %v", err)
	}
	if usr.Name != "Alice" || usr.RegNo != "R001" || usr.Email != "alice@test.cd" {
		t.Errorf("user = %+v", usr)
	}
}
