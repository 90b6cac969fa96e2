package sqlfilter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/nonibytes/wizardql/pkg/wizardql/query"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage/sqlbuilder"
)

// Select returns the statement selecting every column of table filtered by e.
func Select(table string, e query.Expression, opts Options) (Fragment, error) {
	where, err := CompileWith(e, opts)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{
		SQL:  fmt.Sprintf("SELECT * FROM %s WHERE %s", sqlbuilder.QuoteIdent(table), where.SQL),
		Args: where.Args,
	}, nil
}

// Where runs the filter against table and returns each matching row keyed by
// column name. Byte slices are returned as strings. Fields that name no column
// of table fail with ErrUnknownField.
func Where(ctx context.Context, db *sql.DB, table string, e query.Expression, opts Options) ([]map[string]any, error) {
	known, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(e, opts.Columns, known); err != nil {
		return nil, err
	}

	stmt, err := Select(table, e, opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("compiled filter", "dialect", opts.Dialect, "sql", stmt.SQL, "args", len(stmt.Args))

	rows, err := db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slog.Debug("filter matched", "table", table, "rows", len(out))
	return out, nil
}

// tableColumns lists the columns of table without reading any rows.
func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", sqlbuilder.QuoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	known := make(map[string]bool, len(cols))
	for _, col := range cols {
		known[col] = true
	}
	return known, nil
}

// checkColumns rejects conditions whose column is not in known. SQLite reads
// an unknown double-quoted identifier as a string literal, so the query would
// run without error.
func checkColumns(e query.Expression, columns map[string]string, known map[string]bool) error {
	var err error
	query.Walk(e, func(c query.Condition) {
		if err != nil {
			return
		}
		col := c.Field
		if columns != nil {
			mapped, ok := columns[c.Field]
			if !ok {
				err = fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
				return
			}
			col = mapped
		}
		if !known[col] {
			err = fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
		}
	})
	return err
}
