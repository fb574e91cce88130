package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/utils"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	onceDB sync.Once
)

func DB() *gorm.DB {
	onceDB.Do(func() {
		logLevel := logger.Warn

		if utils.IsDebug() {
			logLevel = logger.Info
		}

		database, err := gorm.Open(dialector(), &gorm.Config{
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
			Logger:                 logger.Default.LogMode(logLevel),
		})
		if err != nil {
			slog.Error(fmt.Sprintf("Could not connect to the database: %v", err))
			os.Exit(1)
		}

		if err := Migrate(database); err != nil {
			slog.Error(fmt.Sprintf("Could not migrate models: %v", err))
			os.Exit(1)
		}

		db = database
	})

	return db
}

func dialector() gorm.Dialector {
	if utils.DBDriver() == utils.DriverSQLite {
		path := strings.TrimSpace(os.Getenv("DB_NAME"))

		if len(path) < 1 {
			path = filepath.Join("storage", "site-builder.db")
		}

		return sqlite.Open(fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path))
	}

	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		port = 5432
	}

	dsn := fmt.Sprintf(
		"postgres://%[4]s:%[5]s@%[1]s:%[2]d/%[3]s",
		os.Getenv("DB_HOST"),
		port,
		os.Getenv("DB_NAME"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASS"),
	)

	return postgres.Open(dsn)
}

func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.AccountRecovery{},
		&models.Business{},
		&models.Template{},
		&models.Website{},
		&models.Page{},
		&models.Component{},
		&models.WebsiteVersion{},
	)
}
