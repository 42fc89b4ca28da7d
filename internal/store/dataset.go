package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/pkg/query"
)

// ListOption shapes the SELECT of a dataset listing.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if offset == 0 {
			return b
		}
		return b.Offset(offset)
	}
}

func WithSort(col query.Column, order query.SortOrder) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if col == "" {
			return b
		}
		return b.OrderBy(query.OrderBy(col, order))
	}
}

// WithPage applies the limit, offset and order of a resolved page.
func WithPage(p query.Page) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		b = WithSort(p.SortBy, p.Order)(b)
		b = WithLimit(p.Limit)(b)
		return WithOffset(p.Offset)(b)
	}
}

// Source is what a dataset query reads from. Latest narrows the table to the
// newest row per Partition ordered by Timestamp.
type Source struct {
	Table     query.Table
	Latest    bool
	Partition query.Column
	Timestamp query.Column
}

// DatasetStore runs the parameterized listing and count statements of the
// raw telemetry datasets.
type DatasetStore struct {
	db *queryInterceptor
}

func NewDatasetStore(db *queryInterceptor) *DatasetStore {
	return &DatasetStore{db: db}
}

// Count returns the number of rows of src matching where.
func (s *DatasetStore) Count(ctx context.Context, src Source, where query.Predicate) (uint64, error) {
	var builder sq.SelectBuilder
	if src.Latest {
		builder = sq.Select("COUNT(*)").FromSelect(s.ranked(src, where), "ranked").Where(sq.Eq{"row_num": 1})
	} else {
		builder = sq.Select("COUNT(*)").From(src.Table.String()).Where(where)
	}
	return s.db.selectCount(ctx, "count "+src.Table.String(), builder)
}

// List returns the rows of src matching where, shaped by opts.
func (s *DatasetStore) List(ctx context.Context, src Source, where query.Predicate, opts ...ListOption) ([]models.Row, error) {
	var builder sq.SelectBuilder
	if src.Latest {
		builder = sq.Select("*").FromSelect(s.ranked(src, where), "ranked").Where(sq.Eq{"row_num": 1})
	} else {
		builder = sq.Select("*").From(src.Table.String()).Where(where)
	}

	for _, opt := range opts {
		builder = opt(builder)
	}

	rows, err := s.db.selectRows(ctx, "list "+src.Table.String(), builder)
	if err != nil {
		return nil, err
	}
	if src.Latest {
		rows = dropColumn(rows, "row_num")
	}
	return rows, nil
}

// Page runs the count and the page listing against the same predicate.
func (s *DatasetStore) Page(ctx context.Context, src Source, where query.Predicate, page query.Page) (*models.QueryResult, error) {
	total, err := s.Count(ctx, src, where)
	if err != nil {
		return nil, err
	}

	rows, err := s.List(ctx, src, where, WithPage(page))
	if err != nil {
		return nil, err
	}

	return &models.QueryResult{
		Data: rows,
		Pagination: models.PageInfo{
			CurrentPage:  page.Number,
			PerPage:      page.Limit,
			TotalRecords: total,
			TotalPages:   page.TotalPages(total),
		},
	}, nil
}

// Export lists up to limit rows of src ordered by its timestamp, newest first.
func (s *DatasetStore) Export(ctx context.Context, src Source, where query.Predicate, limit uint64) ([]models.Row, error) {
	return s.List(ctx, src, where, WithSort(src.Timestamp, query.Desc), WithLimit(limit))
}

func (s *DatasetStore) ranked(src Source, where query.Predicate) sq.SelectBuilder {
	rank := fmt.Sprintf("ROW_NUMBER() OVER (PARTITION BY %s ORDER BY %s DESC) AS row_num", src.Partition, src.Timestamp)
	return sq.Select("*", rank).From(src.Table.String()).Where(where)
}

func dropColumn(rows []models.Row, col string) []models.Row {
	if len(rows) == 0 {
		return rows
	}
	idx := -1
	for i, c := range rows[0].Columns {
		if c == col {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rows
	}

	columns := make([]string, 0, len(rows[0].Columns)-1)
	columns = append(columns, rows[0].Columns[:idx]...)
	columns = append(columns, rows[0].Columns[idx+1:]...)
	for i := range rows {
		values := make([]any, 0, len(columns))
		values = append(values, rows[i].Values[:idx]...)
		values = append(values, rows[i].Values[idx+1:]...)
		rows[i] = models.NewRow(columns, values)
	}
	return rows
}
