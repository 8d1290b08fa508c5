// database/query.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/gewnthar/tzimport/utils"
)

var ErrUnknownTable = errors.New("unknown table")

// TableRows is the result of a SELECT * over one table.
type TableRows struct {
	Columns []string
	Rows    [][]interface{}
}

// SelectAll runs SELECT * FROM table. The name must be a plain identifier.
func (s *Store) SelectAll(ctx context.Context, table string) (*TableRows, error) {
	name, err := utils.NormalizeTableName(table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTable, err)
	}

	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM "+name)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}

	result := &TableRows{Columns: cols}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", name, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", name, err)
	}
	return result, nil
}
