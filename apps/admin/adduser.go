package main

import (
	"context"

	"github.com/ieee-its/nightslip/core"
	"github.com/ieee-its/nightslip/core/user"
)

// addUser updates or creates a roster user, keyed on email.
func (cli *commandLine) addUser(name, email, regNo string) error {
	ctx := context.Background()
	usr := user.User{
		Name:  core.CleanString(name),
		RegNo: core.CleanString(regNo),
		Email: core.CleanString(email, true /* lower */),
	}
	_, err := cli.usrRepo.BulkUpsertUsers(ctx, []user.User{usr})
	return err
}
