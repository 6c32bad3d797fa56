package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/ieee-its/nightslip/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sql.DB
	usrRepo user.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [COMMAND] - run database migrations (default: up)")
	fmt.Println("  adduser -name NAME -email EMAIL [-regno REG_NO] - add or update a roster user")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email; also their sign-in identity.")
	addUserRegNo := addUserCmd.String("regno", "", "The user's registration number (optional).")

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, *addUserRegNo)
	default:
		cli.printUsage()
		return errHelp
	}
}
