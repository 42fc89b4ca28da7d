package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xfinder/reporting-api/internal/models"
)

// CSV renders rows with a header taken from the first row. Rows are joined by
// "\n" without a trailing newline; an empty set renders as "".
//
// Only string values are quoted, and only when they contain a comma, a double
// quote or a newline. Embedded quotes are doubled. nil renders as an empty field.
func CSV(rows []models.Row) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	header := rows[0].Columns
	for i, c := range header {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c)
	}

	for _, row := range rows {
		b.WriteByte('\n')
		for i, v := range row.Values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(v))
		}
	}

	return b.String()
}

func csvField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return quote(t)
	case []byte:
		return quote(string(t))
	case time.Time:
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

func quote(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
