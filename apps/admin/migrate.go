package main

import (
	"github.com/phoenixdev100/tap/storage/database"
)

// mockable
var (
	migrateCmdFunc = database.MigrateCmd
	createDBFunc   = database.CreateIfNotExist
)

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return migrateCmdFunc(cli.db, args[0], arguments...)
}

func (cli *commandLine) createDB() error {
	return createDBFunc(cli.conf)
}
