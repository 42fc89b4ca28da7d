package services

import (
	"context"
	"net/url"

	"github.com/xfinder/reporting-api/internal/datasets"
	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/store"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
	"github.com/xfinder/reporting-api/pkg/query"
)

// DatasetRequest is one raw dataset page request.
type DatasetRequest struct {
	Dataset string
	Tenant  string
	Params  url.Values
	Page    query.PageRequest
	Mode    datasets.Mode
}

// ExportResult holds the rows of an export and the table they came from.
type ExportResult struct {
	Table string
	Rows  []models.Row
}

// DatasetService runs the raw dataset endpoints: it resolves the descriptor,
// compiles the filters, resolves the page and hands both to the store.
type DatasetService struct {
	store       *store.Store
	catalog     *datasets.Catalog
	exportLimit uint64
}

func NewDatasetService(st *store.Store, catalog *datasets.Catalog, exportLimit uint64) *DatasetService {
	return &DatasetService{
		store:       st,
		catalog:     catalog,
		exportLimit: exportLimit,
	}
}

// Query returns one page of a dataset.
func (s *DatasetService) Query(ctx context.Context, req DatasetRequest) (*models.QueryResult, error) {
	d, ok := s.catalog.Lookup(req.Dataset)
	if !ok {
		return nil, srvErrors.NewValidationError("unknown dataset %q", req.Dataset)
	}
	if req.Mode == datasets.LatestPerDevice && !d.SupportsLatest() {
		return nil, srvErrors.NewValidationError("dataset %q has no latest mode", req.Dataset)
	}

	where, err := query.Compile(d.Schema, req.Tenant, req.Params)
	if err != nil {
		return nil, err
	}
	page := query.Resolve(req.Page, d.Sort)

	return s.store.Datasets().Page(ctx, source(d, req.Mode), where, page)
}

// Export returns up to the configured row limit of an exportable dataset,
// addressed by dataset name or table name.
func (s *DatasetService) Export(ctx context.Context, tenant, dataset string, params url.Values) (*ExportResult, error) {
	d, ok := s.catalog.LookupExport(dataset)
	if !ok {
		return nil, srvErrors.NewValidationError("invalid table name %q", dataset)
	}

	where, err := query.Compile(d.Schema, tenant, params)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.Datasets().Export(ctx, source(d, datasets.History), where, s.exportLimit)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Table: d.Table.String(), Rows: rows}, nil
}

// GPSStats summarizes the fixes selected by dev_eui and the date range.
func (s *DatasetService) GPSStats(ctx context.Context, tenant string, params url.Values) (*models.Row, error) {
	where, err := query.Compile(datasets.StatsSchema(), tenant, params)
	if err != nil {
		return nil, err
	}
	return s.store.Devices().GPSStats(ctx, where)
}

func source(d *datasets.Descriptor, mode datasets.Mode) store.Source {
	return store.Source{
		Table:     d.Table,
		Latest:    mode == datasets.LatestPerDevice,
		Partition: d.Partition,
		Timestamp: d.Timestamp,
	}
}
