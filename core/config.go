package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		Port                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine     string // json | postgres | sqlite
		Path       string // data dir (json) or db file (sqlite)
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	Config struct {
		AppName               string
		Env                   string
		Build                 string
		Debug                 bool
		TestMode              bool
		SecretKey             string
		DefaultFromEmail      string
		DefaultImportPassword string
		SendgridApiKey        string
		RollbarToken          string
		FrontendBaseURL       string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

func (conf *Config) DefaultFrom() mail.Address {
	return mail.Address{Name: conf.AppName, Address: conf.DefaultFromEmail}
}

func (conf *Config) ServerAddress() string {
	return conf.Server.Host + ":" + conf.Server.Port
}

// NewConfig loads the app configuration from the environment.
// An optional config/.env.<env> file is loaded first if it exists.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Pembiasaan")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "q2n$7p-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("defaultImportPassword", "password")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("databaseEngine", "json")
	v.SetDefault("databasePath", "data")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseName", "pembiasaan")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:               v.GetString("appName"),
		Env:                   env,
		Build:                 v.GetString("build"),
		Debug:                 v.GetBool("debug"),
		TestMode:              v.GetBool("testMode"),
		SecretKey:             v.GetString("secretKey"),
		DefaultFromEmail:      v.GetString("defaultFromEmail"),
		DefaultImportPassword: v.GetString("defaultImportPassword"),
		SendgridApiKey:        v.GetString("sendgridApiKey"),
		RollbarToken:          v.GetString("rollbarToken"),
		FrontendBaseURL:       v.GetString("frontendBaseURL"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Port:                      v.GetString("serverPort"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("databaseEngine"),
			Path:       v.GetString("databasePath"),
			Host:       v.GetString("databaseHost"),
			Port:       v.GetString("databasePort"),
			Name:       v.GetString("databaseName"),
			User:       v.GetString("databaseUser"),
			Password:   v.GetString("databasePassword"),
			DisableTLS: v.GetBool("databaseDisableTLS"),
		},
	}
}
