package config

import (
	"time"

	"github.com/creasty/defaults"
)

const (
	DriverMySQL  = "mysql"
	DriverDuckDB = "duckdb"

	ServerModeDev  = "dev"
	ServerModeProd = "prod"
)

type Configuration struct {
	Server   Server
	Database Database
	Query    Query
	LogLevel string `default:"info" validate:"oneof=debug info warn error"`
	EnvFile  string `default:".env"`
}

type Server struct {
	HTTPPort       int           `default:"8000" validate:"min=1,max=65535"`
	ServerMode     string        `default:"dev" validate:"oneof=dev prod"`
	RequestTimeout time.Duration `default:"30s" validate:"gt=0"`
	TLSEnabled     bool          `default:"false"`
	CertValidity   time.Duration `default:"8760h"`
}

type Database struct {
	Driver          string        `default:"mysql" validate:"oneof=mysql duckdb"`
	Host            string        `default:"localhost"`
	Port            int           `default:"3306" validate:"min=1,max=65535"`
	User            string        `default:"root"`
	Password        string        `json:"-"`
	Name            string        `default:"reporting"`
	Path            string        `default:":memory:"`
	MaxOpenConns    int           `default:"10" validate:"min=1"`
	MaxIdleConns    int           `default:"5" validate:"min=0"`
	ConnMaxLifetime time.Duration `default:"5m"`
	QueryTimeout    time.Duration `default:"15s" validate:"gt=0"`
	DialTimeout     time.Duration `default:"5s" validate:"gt=0"`
	Seed            bool          `default:"false"`
}

type Query struct {
	ExportRowLimit uint64 `default:"10000" validate:"min=1"`
	OverviewTopN   int    `default:"10" validate:"min=1"`
}

func NewConfigurationWithOptionsAndDefaults(opts ...func(c *Configuration)) *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		panic(err)
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

func WithDatabase(db Database) func(c *Configuration) {
	return func(c *Configuration) {
		c.Database = db
	}
}

func WithServer(s Server) func(c *Configuration) {
	return func(c *Configuration) {
		c.Server = s
	}
}
