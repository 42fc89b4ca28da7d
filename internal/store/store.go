package store

import (
	"database/sql"
	"time"
)

// Store provides access to all report repositories.
type Store struct {
	db           *sql.DB
	datasets     *DatasetStore
	devices      *DeviceStore
	alerts       *AlertStore
	certificates *CertificateStore
	geo          *GeoStore
}

// NewStore wires the repositories on db. queryTimeout bounds every statement;
// zero leaves statements bounded by the caller's context only.
func NewStore(db *sql.DB, dialect Dialect, queryTimeout time.Duration) *Store {
	qi := newQueryInterceptor(db, queryTimeout)
	return &Store{
		db:           db,
		datasets:     NewDatasetStore(qi),
		devices:      NewDeviceStore(qi, dialect),
		alerts:       NewAlertStore(qi, dialect),
		certificates: NewCertificateStore(qi),
		geo:          NewGeoStore(qi),
	}
}

func (s *Store) Datasets() *DatasetStore {
	return s.datasets
}

func (s *Store) Devices() *DeviceStore {
	return s.devices
}

func (s *Store) Alerts() *AlertStore {
	return s.alerts
}

func (s *Store) Certificates() *CertificateStore {
	return s.certificates
}

func (s *Store) Geo() *GeoStore {
	return s.geo
}

func (s *Store) Close() error {
	return s.db.Close()
}
