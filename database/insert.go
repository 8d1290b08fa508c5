// database/insert.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gewnthar/tzimport/models"
	"github.com/gewnthar/tzimport/utils"
)

type namedExecer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// InsertRecord validates and inserts one row outside any transaction, so it is
// committed immediately.
func (s *Store) InsertRecord(ctx context.Context, rec models.Record) error {
	return insertRecord(ctx, s.db, rec)
}

func insertRecord(ctx context.Context, ex namedExecer, rec models.Record) error {
	if err := utils.ValidateDate(rec.DateValue()); err != nil {
		return fmt.Errorf("refusing insert into %s: %w", rec.TableName(), err)
	}
	if _, err := ex.NamedExecContext(ctx, insertQuery(rec), rec); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", rec.TableName(), err)
	}
	return nil
}

func insertQuery(rec models.Record) string {
	cols := rec.Columns()
	params := make([]string, len(cols))
	for i, c := range cols {
		params[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		rec.TableName(), strings.Join(cols, ", "), strings.Join(params, ", "))
}
