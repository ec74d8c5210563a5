package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/sekolahku/pembiasaan/apps/api/echo"
	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/account"
	"github.com/sekolahku/pembiasaan/core/habit"
	"github.com/sekolahku/pembiasaan/core/message"
	"github.com/sekolahku/pembiasaan/core/report"
	"github.com/sekolahku/pembiasaan/core/student"
	emailsvc "github.com/sekolahku/pembiasaan/services/email"
	logsvc "github.com/sekolahku/pembiasaan/services/logger"
	"github.com/sekolahku/pembiasaan/storage/database"
	"github.com/sekolahku/pembiasaan/storage/database/jsondb"
	"github.com/sekolahku/pembiasaan/storage/database/sqldb"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := newLogger("API : ", conf)
	dbLogger := newLogger("DB : ", conf)

	// set up the Store
	store, closeStore, err := setUpStore(conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up store: %v", err), err)
	}
	defer func() {
		if err = closeStore(); err != nil {
			dbLogger.Error(fmt.Sprintf("closing store: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	accountRepo := database.NewAccountRepository(store)
	studentRepo := database.NewStudentRepository(store)
	habitRepo := database.NewHabitRepository(store)
	reportRepo := database.NewReportRepository(store)
	messageRepo := database.NewMessageRepository(store)

	habitSvc := habit.NewService(habitRepo)
	studentSvc := student.NewService(studentRepo, habitSvc, accountRepo)
	accountSvc := account.NewService(accountRepo, studentSvc, conf)
	reportSvc := report.NewService(reportRepo)
	messageSvc := message.NewService(messageRepo, accountRepo, mailSvc, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			AccountSvc: accountSvc,
			StudentSvc: studentSvc,
			HabitSvc:   habitSvc,
			ReportSvc:  reportSvc,
			MessageSvc: messageSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStore opens the configured Store backend: the file store by default, or
// a SQL engine when configured.
func setUpStore(conf *core.Config, logger core.Logger) (database.Store, func() error, error) {
	switch conf.Database.Engine {
	case "json":
		db, err := jsondb.Open(conf.Database.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, func() error { return nil }, nil
	default:
		db, err := sqldb.Open(conf, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}
}

func newLogger(prefix string, conf *core.Config) core.Logger {
	std := log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if conf.Debug || conf.TestMode {
		return logsvc.NewStdLogger(std)
	}
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(true)
	return logger
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
