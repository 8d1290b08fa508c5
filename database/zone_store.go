// database/zone_store.go
package database

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/models"
)

// MergePolicy selects which staged detail rows reach TZDB_ZONE_DETAILS.
type MergePolicy string

const (
	// MergeByZone copies a staged row only when its zone has no detail row yet
	// (first-seen-zone-wins).
	MergeByZone MergePolicy = "zone"
	// MergeByInterval copies a staged row when its (zone, interval start) pair is new.
	MergeByInterval MergePolicy = "interval"
)

var detailColumnList = strings.Join(models.ZoneDetail{}.Columns(), ", ")

func mergeQuery(policy MergePolicy) (string, error) {
	match := "d.ZONENAME = s.ZONENAME"
	switch policy {
	case MergeByZone, "":
	case MergeByInterval:
		match += " AND d.ZONESTART = s.ZONESTART"
	default:
		return "", fmt.Errorf("unknown merge policy %q", policy)
	}
	return `
		INSERT INTO ` + models.TableZoneDetails + ` (` + detailColumnList + `)
		SELECT ` + detailColumnList + `
		FROM ` + models.TableStaging + ` s
		WHERE NOT EXISTS (
			SELECT 1
			FROM ` + models.TableZoneDetails + ` d
			WHERE ` + match + `
		)`, nil
}

// SaveTimeZones inserts the zone list in a single transaction.
func (s *Store) SaveTimeZones(ctx context.Context, zones []models.TimeZone) error {
	if len(zones) == 0 {
		s.logger.Info("no time zones provided to save")
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for time zones: %w", err)
	}
	defer tx.Rollback()

	for _, zone := range zones {
		if err := insertRecord(ctx, tx, zone); err != nil {
			return fmt.Errorf("failed to save zone %q: %w", zone.ZoneName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for time zones: %w", err)
	}
	s.logger.Info("saved time zones", zap.Int("count", len(zones)))
	return nil
}

// ZoneNames returns every zone name of the list table.
func (s *Store) ZoneNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names, `SELECT ZONENAME FROM `+models.TableTimeZones+` ORDER BY ZONENAME`)
	if err != nil {
		return nil, fmt.Errorf("failed to query zone names: %w", err)
	}
	return names, nil
}

// TimeZones returns the full zone list.
func (s *Store) TimeZones(ctx context.Context) ([]models.TimeZone, error) {
	var zones []models.TimeZone
	err := s.db.SelectContext(ctx, &zones, `
		SELECT COUNTRYCODE, COUNTRYNAME, ZONENAME, GMTOFFSET, IMPORT_DATE
		FROM `+models.TableTimeZones+`
		ORDER BY ZONENAME`)
	if err != nil {
		return nil, fmt.Errorf("failed to query time zones: %w", err)
	}
	return zones, nil
}

// ZoneDetails returns the detail rows of one zone, or of every zone when zoneName
// is empty.
func (s *Store) ZoneDetails(ctx context.Context, zoneName string) ([]models.ZoneDetail, error) {
	query := `SELECT ` + detailColumnList + ` FROM ` + models.TableZoneDetails
	var args []interface{}
	if zoneName != "" {
		query += ` WHERE ZONENAME = ?`
		args = append(args, zoneName)
	}
	query += ` ORDER BY ZONENAME, ZONESTART`

	var details []models.ZoneDetail
	if err := s.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query zone details: %w", err)
	}
	return details, nil
}

// MergeZoneDetails stages details and merges the new ones into TZDB_ZONE_DETAILS.
// Staging fill, merge and staging drop share one transaction: on any error the
// permanent tables are left untouched. It returns the number of merged rows.
func (s *Store) MergeZoneDetails(ctx context.Context, details []models.ZoneDetail, policy MergePolicy) (int64, error) {
	merge, err := mergeQuery(policy)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for zone details: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createStagingTable); err != nil {
		return 0, fmt.Errorf("failed to create staging table: %w", err)
	}
	// A staging table left over on this connection is emptied, never reused.
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+models.TableStaging); err != nil {
		return 0, fmt.Errorf("failed to truncate staging table: %w", err)
	}

	for _, detail := range details {
		if err := insertRecord(ctx, tx, models.StagedZoneDetail{ZoneDetail: detail}); err != nil {
			return 0, fmt.Errorf("failed to stage details for %q: %w", detail.ZoneName, err)
		}
	}

	res, err := tx.ExecContext(ctx, merge)
	if err != nil {
		return 0, fmt.Errorf("failed to merge staged zone details: %w", err)
	}
	merged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count merged zone details: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.dialect.dropStaging); err != nil {
		return 0, fmt.Errorf("failed to drop staging table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction for zone details: %w", err)
	}

	s.logger.Info("merged zone details",
		zap.Int("staged", len(details)),
		zap.Int64("merged", merged),
		zap.String("policy", string(policy)),
	)
	return merged, nil
}
