// services/export_service.go
package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/gewnthar/tzimport/database"
	"github.com/gewnthar/tzimport/models"
	"github.com/gewnthar/tzimport/utils"
)

// ExportTable writes one of the import tables to w as CSV, header included.
func ExportTable(ctx context.Context, store *database.Store, table string, w io.Writer) error {
	name, err := utils.NormalizeTableName(table)
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrUnknownTable, err)
	}

	var header, rows interface{}
	switch name {
	case models.TableTimeZones:
		zones, err := store.TimeZones(ctx)
		if err != nil {
			return err
		}
		header, rows = models.TimeZone{}, zones
	case models.TableZoneDetails:
		details, err := store.ZoneDetails(ctx, "")
		if err != nil {
			return err
		}
		header, rows = models.ZoneDetail{}, details
	case models.TableErrorLog:
		entries, err := store.ErrorLog(ctx)
		if err != nil {
			return err
		}
		header, rows = models.ErrorLogEntry{}, entries
	default:
		return fmt.Errorf("%w: %s cannot be exported", database.ErrUnknownTable, name)
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(header); err != nil {
		return fmt.Errorf("failed to write csv header for %s: %w", name, err)
	}
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode %s rows: %w", name, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv for %s: %w", name, err)
	}
	return nil
}
