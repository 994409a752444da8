package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to the configured database and registers a read replica when one is set.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres", "supa":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.Type)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if cfg.ReplicaDSN != "" && cfg.Type != "sqlite" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  cfg.ReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("error registering read replica: %w", err)
		}
		zlog.Info().Msg("Read replica registered")
	}

	return db, nil
}

// sqliteDSN turns foreign key enforcement on, which SQLite leaves off by default.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Migrate creates or alters every table, fills NULL list columns and
// rewrites lists still stored in the old comma joined format.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}

	for _, target := range jsonListColumns {
		err := db.Table(target.table).Where(target.column + " IS NULL").Update(target.column, "[]").Error
		if err != nil {
			return fmt.Errorf("error filling %s.%s: %w", target.table, target.column, err)
		}
	}

	for _, target := range legacyListColumns {
		n, err := normalizeListColumn(db, target.table, target.column)
		if err != nil {
			return fmt.Errorf("error normalizing %s.%s: %w", target.table, target.column, err)
		}
		if n > 0 {
			zlog.Info().Str("table", target.table).Str("column", target.column).Int("rows", n).Msg("Normalized legacy list values")
		}
	}
	return nil
}

// legacyListColumns may hold comma joined strings written by older clients.
var legacyListColumns = []struct{ table, column string }{
	{"projects", "technologies"},
	{"blog_posts", "tags"},
}

// jsonListColumns are never NULL; older rows may predate that.
var jsonListColumns = []struct{ table, column string }{
	{"work_experiences", "achievements"},
	{"certifications", "skills"},
	{"projects", "features"},
	{"projects", "screenshots"},
	{"projects", "tech_stack"},
	{"blog_posts", "tags"},
}

func normalizeListColumn(db *gorm.DB, table, column string) (int, error) {
	var rows []struct {
		ID    uint
		Value *string
	}
	if err := db.Table(table).Select("id, " + column + " AS value").Scan(&rows).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, row := range rows {
		if row.Value == nil || !models.IsLegacyList(*row.Value) {
			continue
		}
		list := models.ParseStringList(*row.Value)
		if err := db.Table(table).Where("id = ?", row.ID).Update(column, list).Error; err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
