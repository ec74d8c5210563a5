package main

import (
	"errors"

	"github.com/sekolahku/pembiasaan/storage/database"
)

var migrationRunFunc = database.RunMigrationCommand // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.sqlDB == nil {
		return errors.New("migrate requires a SQL database engine")
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return migrationRunFunc(cli.sqlDB, cli.engine, args[0], arguments...)
}
