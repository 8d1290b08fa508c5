// database/errorlog_store.go
package database

import (
	"context"
	"fmt"

	"github.com/gewnthar/tzimport/models"
)

// InsertErrorLog appends one entry to TZDB_ERROR_LOG and commits it.
func (s *Store) InsertErrorLog(ctx context.Context, entry models.ErrorLogEntry) error {
	return s.InsertRecord(ctx, entry)
}

// ErrorLog returns the error log in insertion order.
func (s *Store) ErrorLog(ctx context.Context) ([]models.ErrorLogEntry, error) {
	var entries []models.ErrorLogEntry
	err := s.db.SelectContext(ctx, &entries, `SELECT ERROR_DATE, ERROR_MESSAGE FROM `+models.TableErrorLog)
	if err != nil {
		return nil, fmt.Errorf("failed to query error log: %w", err)
	}
	return entries, nil
}
