package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var flagNames = map[string]string{
	"Server.HTTPPort":       "server-http-port",
	"Server.ServerMode":     "server-mode",
	"Server.RequestTimeout": "server-request-timeout",
	"Database.Driver":       "db-driver",
	"Database.Port":         "db-port",
	"Database.MaxOpenConns": "db-max-open-conns",
	"Database.MaxIdleConns": "db-max-idle-conns",
	"Database.QueryTimeout": "db-query-timeout",
	"Database.DialTimeout":  "db-dial-timeout",
	"Query.ExportRowLimit":  "query-export-row-limit",
	"Query.OverviewTopN":    "query-overview-top-n",
	"LogLevel":              "log-level",
}

// Validate checks the struct tags and the cross-field rules the tags cannot express.
// Errors name the offending flag.
func (c *Configuration) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fe := verrs[0]
		key := fe.StructNamespace()
		if len(key) > len("Configuration.") {
			key = key[len("Configuration."):]
		}
		name, ok := flagNames[key]
		if !ok {
			name = key
		}
		return fmt.Errorf("invalid %s: %v", name, fe.Value())
	}

	if c.Database.Driver == DriverMySQL && c.Database.Host == "" {
		return errors.New("db-host must be set when db-driver is mysql")
	}
	if c.Database.Driver == DriverDuckDB && c.Database.Path == "" {
		return errors.New("db-path must be set when db-driver is duckdb")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("invalid db-max-idle-conns: %d exceeds db-max-open-conns %d", c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	return nil
}
