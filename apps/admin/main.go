package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/sekolahku/pembiasaan/core"
	logsvc "github.com/sekolahku/pembiasaan/services/logger"
	"github.com/sekolahku/pembiasaan/storage/database"
	"github.com/sekolahku/pembiasaan/storage/database/jsondb"
	"github.com/sekolahku/pembiasaan/storage/database/sqldb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	storeLogger := logsvc.NewStdLogger(logger)

	// set up the Store
	var store database.Store
	var sqlDB *sql.DB
	switch conf.Database.Engine {
	case "json":
		db, err := jsondb.Open(conf.Database.Path, storeLogger)
		errAndDie(err)
		store = db
	default:
		db, err := sqldb.Open(conf, storeLogger)
		errAndDie(err)
		defer db.Close()
		store = db
		sqlDB = db.SQLDB()
	}

	// start CLI
	cli := commandLine{
		conf:     conf,
		acctRepo: database.NewAccountRepository(store),
		sqlDB:    sqlDB,
		engine:   conf.Database.Engine,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
