package models

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Query Helper Generation Usage:

Set GENERATE_QUERIES=true and start the server. Instead of serving, it
writes typed query helpers for every model to ./generated and prints a
report of database columns that no model field maps to, then exits.

Example report output:
--- Table: projects ---
All columns are accounted for in the model.
*/

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&ProgrammingSkill{},
		&WorkExperience{},
		&Education{},
		&Certification{},
		&Project{},
		&BlogPost{},
	}
}

func GenerateQueries(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	ReportColumnMismatches(db)

	g.Execute()
	log.Info().Str("outPath", outPath).Msg("Query generation complete")
	return nil
}

// ReportColumnMismatches logs database columns that aren't accounted for in Go models
func ReportColumnMismatches(db *gorm.DB) int {
	total := 0
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			log.Error().Err(err).Msgf("Error parsing model %T", model)
			continue
		}
		table := stmt.Schema.Table

		dbColumns, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			log.Warn().Err(err).Str("table", table).Msg("Table does not exist yet (will be created during migration)")
			continue
		}

		modelFields := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			modelFields[name] = true
		}

		var mismatches []string
		for _, col := range dbColumns {
			if !modelFields[col.Name()] {
				mismatches = append(mismatches, col.Name())
			}
		}

		if len(mismatches) > 0 {
			log.Warn().Str("table", table).Strs("columns", mismatches).Msg("Columns not accounted for in model")
			total += len(mismatches)
		} else {
			log.Info().Str("table", table).Msg("All columns are accounted for in the model.")
		}
	}
	return total
}
