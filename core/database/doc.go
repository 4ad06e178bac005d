// Package database opens the GORM connection and inspects the schema.
//
// # Connect
//
// Connect picks the dialector from Config.Driver: mysql (default), postgres
// through pgx, or sqlite. Tests use sqlite with Name ":memory:".
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table and MissingColumns reports the
// expected ones that are absent. The migrate command uses it to verify the
// tables after AutoMigrate.
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "words", []string{"id", "slug"})
package database
