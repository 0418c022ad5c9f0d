package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver      string
	Path        string
	DatabaseURL string
	// Writer receives slow-query and error lines from GORM. Nil falls back
	// to the standard logger on stdout.
	Writer gormlogger.Writer
}

func Open(options Options) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(options.Driver)) {
	case "", DriverSQLite:
		return OpenSQLite(options.Path, options.Writer)
	case DriverPostgres:
		if strings.TrimSpace(options.DatabaseURL) == "" {
			return nil, fmt.Errorf("postgres driver requires a database url")
		}
		return OpenPostgres(options.DatabaseURL, options.Writer)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", options.Driver)
	}
}

func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormConfig(writer gormlogger.Writer) *gorm.Config {
	if writer == nil {
		writer = log.New(os.Stdout, "\r\n", log.LstdFlags)
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			writer,
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}
