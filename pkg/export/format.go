package export

import (
	"strings"

	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts json, csv and xlsx in any case.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", srvErrors.NewInvalidFormatError(raw)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Attachment returns the Content-Disposition value for a file named
// <name>.<format>.
func (f Format) Attachment(name string) string {
	return "attachment; filename=" + name + "." + string(f)
}
