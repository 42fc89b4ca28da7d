package store

import (
	"context"
	"database/sql"
	"math/big"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/xfinder/reporting-api/internal/models"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

// each runs b under the statement deadline and hands every row to scan.
// Errors come back as QueryFailureError tagged with op.
func (q *queryInterceptor) each(ctx context.Context, op string, b sq.Sqlizer, scan func(*sql.Rows) error) (err error) {
	done := q.observe(op)
	defer func() { done(err) }()

	query, args, err := b.ToSql()
	if err != nil {
		return srvErrors.NewQueryFailureError(op, err)
	}

	ctx, cancel := q.withDeadline(ctx)
	defer cancel()

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return srvErrors.NewQueryFailureError(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err = scan(rows); err != nil {
			return srvErrors.NewQueryFailureError(op, err)
		}
	}
	if err = rows.Err(); err != nil {
		return srvErrors.NewQueryFailureError(op, err)
	}
	return nil
}

// selectRows runs b and scans every row without a fixed struct.
func (q *queryInterceptor) selectRows(ctx context.Context, op string, b sq.Sqlizer) ([]models.Row, error) {
	var (
		result  []models.Row
		columns []string
		decimal []bool
	)
	err := q.each(ctx, op, b, func(rows *sql.Rows) error {
		if columns == nil {
			cols, err := rows.ColumnTypes()
			if err != nil {
				return err
			}
			columns = make([]string, len(cols))
			decimal = make([]bool, len(cols))
			for i, c := range cols {
				columns[i] = c.Name()
				decimal[i] = isDecimal(c.DatabaseTypeName())
			}
		}

		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		for i, v := range values {
			values[i] = normalize(v, decimal[i])
		}
		result = append(result, models.NewRow(columns, values))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// selectOne returns the first row of b, or nil when there is none.
func (q *queryInterceptor) selectOne(ctx context.Context, op string, b sq.Sqlizer) (*models.Row, error) {
	rows, err := q.selectRows(ctx, op, b)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// selectCount scans a single COUNT(*) value.
func (q *queryInterceptor) selectCount(ctx context.Context, op string, b sq.Sqlizer) (uint64, error) {
	var count int64
	err := q.each(ctx, op, b, func(rows *sql.Rows) error {
		return rows.Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return uint64(count), nil
}

func isDecimal(typeName string) bool {
	switch strings.ToUpper(typeName) {
	case "DECIMAL", "NEWDECIMAL", "NUMERIC":
		return true
	}
	return false
}

// normalize turns driver specific values into JSON friendly ones. MySQL hands
// text and DECIMAL back as bytes, DuckDB hands HUGEINT sums back as *big.Int
// and DECIMAL as a struct with a Float64 method.
func normalize(v any, decimal bool) any {
	switch t := v.(type) {
	case []byte:
		if decimal {
			if f, err := strconv.ParseFloat(string(t), 64); err == nil {
				return f
			}
		}
		return string(t)
	case *big.Int:
		if t.IsInt64() {
			return t.Int64()
		}
		return t.String()
	case interface{ Float64() float64 }:
		return t.Float64()
	}
	return v
}
