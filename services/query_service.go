// services/query_service.go
package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gewnthar/tzimport/database"
)

const queryPrompt = "Enter table name (or 'exit' to quit): "

// QueryLoop prompts for table names on in and prints every row of each table to
// out. It returns on "exit" (any case), on EOF or when ctx is cancelled. Query
// errors are printed and the loop continues.
func QueryLoop(ctx context.Context, in io.Reader, out io.Writer, store *database.Store) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, queryPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		table := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(table, "exit") {
			return nil
		}
		if table == "" {
			continue
		}

		result, err := store.SelectAll(ctx, table)
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			continue
		}
		printRows(out, result)
	}
}

func printRows(out io.Writer, result *database.TableRows) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(out, "(%d rows)\n", len(result.Rows))
}
