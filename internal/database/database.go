package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"video-api/internal/config"
	"video-api/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to the database selected by cfg. The returned handle is meant
// to be created once per process and passed to every store that needs it.
func Open(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	primary, err := dialector(cfg.DBDriver, cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(primary, &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(log, cfg.Debug),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	if isMemory(cfg.DBDriver, cfg.DatabaseURI) {
		// Every connection to :memory: is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if len(cfg.ReplicaURIs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaURIs))
		for _, uri := range cfg.ReplicaURIs {
			d, err := dialector(cfg.DBDriver, uri)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, d)
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	return db, nil
}

// Migrate creates the videos table when it does not exist yet.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Video{}); err != nil {
		return fmt.Errorf("migrate videos: %w", err)
	}
	return nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func isMemory(driver, dsn string) bool {
	return driver == config.DriverSQLite && (dsn == config.MemoryDSN || strings.Contains(dsn, "mode=memory"))
}

// slogWriter adapts slog to gorm's logger.Writer.
type slogWriter struct {
	log   *slog.Logger
	level slog.Level
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.log.Log(context.Background(), w.level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func newLogger(log *slog.Logger, debug bool) logger.Interface {
	if log == nil {
		log = slog.Default()
	}
	level, writerLevel := logger.Warn, slog.LevelWarn
	if debug {
		level, writerLevel = logger.Info, slog.LevelDebug
	}
	writer := slogWriter{log: log.With("component", "gorm"), level: writerLevel}
	return logger.New(writer, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
