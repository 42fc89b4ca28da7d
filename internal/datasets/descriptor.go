package datasets

import (
	"github.com/xfinder/reporting-api/pkg/query"
)

// CompanyColumn is the tenant column of every reporting table.
const CompanyColumn query.Column = "company_id"

// Mode selects how a dataset page is queried.
type Mode int

const (
	// History pages through every matching row.
	History Mode = iota
	// LatestPerDevice keeps only the most recent row of each device.
	LatestPerDevice
)

// Descriptor describes one raw dataset endpoint.
type Descriptor struct {
	Name      string
	Table     query.Table
	Timestamp query.Column
	Schema    query.Schema
	Sort      query.SortPolicy
	// Exportable datasets are served by the export endpoint.
	Exportable bool
	// Partition is the device column LatestPerDevice ranks by. Empty when the
	// dataset does not support that mode.
	Partition query.Column
}

// SupportsLatest reports whether LatestPerDevice can be used.
func (d *Descriptor) SupportsLatest() bool {
	return d.Partition != ""
}

// commonFields are the filters shared by every device dataset.
func commonFields(ts query.Column) []query.Field {
	return []query.Field{
		query.OneOf("dev_eui", "dev_eui"),
		query.Contains("customer_name", "customer_name"),
		query.Between("start_date", "end_date", ts),
	}
}

func sortColumns(cols ...query.Column) map[string]query.Column {
	m := make(map[string]query.Column, len(cols))
	for _, c := range cols {
		m[string(c)] = c
	}
	return m
}

func schema(fields ...query.Field) query.Schema {
	return query.Schema{TenantColumn: CompanyColumn, Fields: fields, ColumnFilterKind: query.Substring}
}
