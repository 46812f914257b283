package repositories

import (
	"fmt"
	"time"

	"socialfeed/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormWriter routes GORM's slow-query and error traces into logrus.
type gormWriter struct {
	log *logrus.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.WithField("component", "gorm").Warnf(format, args...)
}

// NewGORMLogger builds the GORM logger used by Open. Lookups that find no row
// are expected (email pre-checks, 404s) and are not logged.
func NewGORMLogger(log *logrus.Logger) logger.Interface {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return logger.New(gormWriter{log: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Open connects to the store selected by driver ("postgres" or "sqlite").
func Open(driver, dsn string, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGORMLogger(log),
		TranslateError: true,
		// Ownership references are validated by the services at write time only.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to access sqlite handle")
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{}); err != nil {
		return errors.Wrap(err, "failed to auto-migrate database")
	}
	return nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to access database handle")
	}
	return sqlDB.Close()
}
