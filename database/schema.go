// database/schema.go
package database

import (
	"context"
	"fmt"

	"github.com/gewnthar/tzimport/config"
	"github.com/gewnthar/tzimport/models"
)

const (
	dropTimeZonesTable = `DROP TABLE IF EXISTS ` + models.TableTimeZones

	createTimeZonesTable = `
		CREATE TABLE IF NOT EXISTS ` + models.TableTimeZones + ` (
			COUNTRYCODE VARCHAR(2) NOT NULL,
			COUNTRYNAME VARCHAR(100) NOT NULL,
			ZONENAME VARCHAR(100) NOT NULL PRIMARY KEY,
			GMTOFFSET INTEGER,
			IMPORT_DATE TEXT
		)`

	// ZONEEND is nullable: the API reports no end for zones without DST.
	detailColumnsDDL = `
			COUNTRYCODE VARCHAR(2) NOT NULL,
			COUNTRYNAME VARCHAR(100) NOT NULL,
			ZONENAME VARCHAR(100) NOT NULL,
			GMTOFFSET INTEGER NOT NULL,
			DST INTEGER NOT NULL,
			ZONESTART BIGINT NOT NULL,
			ZONEEND BIGINT,
			IMPORT_DATE TEXT,
			PRIMARY KEY (ZONENAME, ZONESTART)`

	createZoneDetailsTable = `CREATE TABLE IF NOT EXISTS ` + models.TableZoneDetails + ` (` + detailColumnsDDL + `
		)`

	createErrorLogTable = `
		CREATE TABLE IF NOT EXISTS ` + models.TableErrorLog + ` (
			ERROR_DATE TEXT NOT NULL,
			ERROR_MESSAGE VARCHAR(1000) NOT NULL
		)`

	// Staging is a TEMPORARY table so that its DDL stays inside the merge
	// transaction on MySQL as well (plain CREATE/DROP TABLE commit implicitly there).
	createStagingTable = `CREATE TEMPORARY TABLE IF NOT EXISTS ` + models.TableStaging + ` (` + detailColumnsDDL + `
		)`
)

type dialect struct {
	driver      string
	dropStaging string
	tableExists string
	existsArgs  func(table string) []interface{}
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case config.DriverSQLite, "":
		return dialect{
			driver:      config.DriverSQLite,
			dropStaging: `DROP TABLE IF EXISTS ` + models.TableStaging,
			tableExists: `SELECT COUNT(*) FROM (
				SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?
				UNION ALL
				SELECT name FROM sqlite_temp_master WHERE type = 'table' AND name = ?
			)`,
			existsArgs: func(table string) []interface{} { return []interface{}{table, table} },
		}, nil
	case config.DriverMySQL:
		return dialect{
			driver:      config.DriverMySQL,
			dropStaging: `DROP TEMPORARY TABLE IF EXISTS ` + models.TableStaging,
			tableExists: `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`,
			existsArgs:  func(table string) []interface{} { return []interface{}{table} },
		}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// SetupSchema drops and recreates the zone list table and creates the detail and
// error log tables when absent.
func (s *Store) SetupSchema(ctx context.Context) error {
	statements := []string{
		dropTimeZonesTable,
		createTimeZonesTable,
		createZoneDetailsTable,
		createErrorLogTable,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to set up schema: %w", err)
		}
	}
	s.logger.Info("schema ready")
	return nil
}

// TableExists reports whether a table (temporary tables included on SQLite) exists.
func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, s.dialect.tableExists, s.dialect.existsArgs(table)...); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}
